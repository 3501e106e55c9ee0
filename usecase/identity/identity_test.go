package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/backend/domain"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *domain.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func TestSyncUpsertsSubject(t *testing.T) {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	uc := New(repo, nil)

	err := uc.Sync(context.Background(), &domain.User{
		ID:       "user-1",
		Email:    "pat@example.com",
		FullName: "Pat Doe",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", stored.Email)
	assert.Equal(t, domain.RoleAdmin, stored.Role)
}

func TestSyncDefaultsRole(t *testing.T) {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	uc := New(repo, nil)

	require.NoError(t, uc.Sync(context.Background(), &domain.User{ID: "user-1"}))

	stored, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, stored.Role)
}

func TestSyncRejectsEmptySubject(t *testing.T) {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	uc := New(repo, nil)

	assert.Error(t, uc.Sync(context.Background(), nil))
	assert.Error(t, uc.Sync(context.Background(), &domain.User{}))
	assert.Empty(t, repo.users)
}
