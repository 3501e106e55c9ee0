package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation of UserRepository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
	SELECT id, email, full_name, role, created_at, updated_at
	FROM users
	WHERE id = $1
	`
	var user domain.User
	if err := db(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	const query = `
	INSERT INTO users (id, email, full_name, role)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE
	SET email = EXCLUDED.email,
		full_name = EXCLUDED.full_name,
		role = EXCLUDED.role,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`
	return db(ctx, r.pool).QueryRow(ctx, query,
		user.ID, user.Email, user.FullName, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}
