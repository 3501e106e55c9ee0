package identity

import (
	"context"

	"go.uber.org/zap"

	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/repository"
)

// UseCase mirrors externally issued identities into the local users table.
// Tokens come from an outside identity provider; this service only needs the
// subject's id, email, name and role so foreign keys resolve and
// notifications know where to deliver.
type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

// Sync upserts the token subject. Called on every authenticated request, so
// profile changes in the identity provider converge on the next call.
func (uc *UseCase) Sync(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	return uc.users.Upsert(ctx, user)
}
