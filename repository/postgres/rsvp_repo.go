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

type rsvpRepository struct {
	pool *pgxpool.Pool
}

// NewRsvpRepository returns a Postgres-backed implementation of RsvpRepository.
func NewRsvpRepository(pool *pgxpool.Pool) repository.RsvpRepository {
	return &rsvpRepository{pool: pool}
}

const rsvpColumns = `id, event_id, user_id, rating, ticket_code, created_at`

func (r *rsvpRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Rsvp, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE event_id = $1 AND user_id = $2`
	return scanRsvp(db(ctx, r.pool).QueryRow(ctx, query, eventID, userID))
}

func (r *rsvpRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Rsvp, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE event_id = $1 ORDER BY created_at ASC`
	rows, err := db(ctx, r.pool).Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRsvps(rows)
}

func (r *rsvpRepository) ListByUser(ctx context.Context, userID string) ([]domain.Rsvp, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := db(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRsvps(rows)
}

func (r *rsvpRepository) Create(ctx context.Context, rsvp *domain.Rsvp) (*domain.Rsvp, error) {
	if rsvp == nil {
		return nil, domain.ErrInvalidPayload
	}
	if rsvp.ID == "" {
		rsvp.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO rsvps (id, event_id, user_id, rating, ticket_code)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`
	if err := db(ctx, r.pool).QueryRow(ctx, query,
		rsvp.ID, rsvp.EventID, rsvp.UserID, rsvp.Rating, rsvp.TicketCode,
	).Scan(&rsvp.CreatedAt); err != nil {
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) Delete(ctx context.Context, id string) error {
	tag, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM rsvps WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRsvpNotFound
	}
	return nil
}

func (r *rsvpRepository) SetRating(ctx context.Context, id string, rating int) error {
	tag, err := db(ctx, r.pool).Exec(ctx, `UPDATE rsvps SET rating = $2 WHERE id = $1`, id, rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRsvpNotFound
	}
	return nil
}

func (r *rsvpRepository) OwnerRating(ctx context.Context, ownerID string) (float64, int64, error) {
	const query = `
	SELECT COALESCE(AVG(r.rating), 0), COUNT(r.rating)
	FROM rsvps r
	JOIN events e ON e.id = r.event_id
	WHERE e.owner_id = $1 AND r.rating IS NOT NULL
	`
	var avg float64
	var count int64
	if err := db(ctx, r.pool).QueryRow(ctx, query, ownerID).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

func scanRsvp(row pgx.Row) (*domain.Rsvp, error) {
	var rsvp domain.Rsvp
	if err := row.Scan(
		&rsvp.ID,
		&rsvp.EventID,
		&rsvp.UserID,
		&rsvp.Rating,
		&rsvp.TicketCode,
		&rsvp.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRsvpNotFound
		}
		return nil, err
	}
	return &rsvp, nil
}

func collectRsvps(rows pgx.Rows) ([]domain.Rsvp, error) {
	var rsvps []domain.Rsvp
	for rows.Next() {
		rsvp, err := scanRsvp(rows)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, *rsvp)
	}
	return rsvps, rows.Err()
}
