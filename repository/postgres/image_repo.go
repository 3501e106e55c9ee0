package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/repository"
)

type requestImageRepository struct {
	pool *pgxpool.Pool
}

// NewRequestImageRepository returns the Postgres implementation of RequestImageRepository.
func NewRequestImageRepository(pool *pgxpool.Pool) repository.RequestImageRepository {
	return &requestImageRepository{pool: pool}
}

func (r *requestImageRepository) List(ctx context.Context, requestID string) ([]string, error) {
	rows, err := db(ctx, r.pool).Query(ctx,
		`SELECT filename FROM request_images WHERE request_id = $1 ORDER BY filename`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFilenames(rows)
}

func (r *requestImageRepository) Add(ctx context.Context, requestID, filename string) error {
	_, err := db(ctx, r.pool).Exec(ctx,
		`INSERT INTO request_images (request_id, filename) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		requestID, filename)
	return err
}

func (r *requestImageRepository) Delete(ctx context.Context, requestID, filename string) error {
	tag, err := db(ctx, r.pool).Exec(ctx,
		`DELETE FROM request_images WHERE request_id = $1 AND filename = $2`, requestID, filename)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}

func (r *requestImageRepository) Exists(ctx context.Context, requestID, filename string) (bool, error) {
	return filenameExists(ctx, db(ctx, r.pool),
		`SELECT EXISTS(SELECT 1 FROM request_images WHERE request_id = $1 AND filename = $2)`,
		requestID, filename)
}

type eventImageRepository struct {
	pool *pgxpool.Pool
}

// NewEventImageRepository returns the Postgres implementation of EventImageRepository.
func NewEventImageRepository(pool *pgxpool.Pool) repository.EventImageRepository {
	return &eventImageRepository{pool: pool}
}

func (r *eventImageRepository) List(ctx context.Context, eventID string) ([]string, error) {
	rows, err := db(ctx, r.pool).Query(ctx,
		`SELECT filename FROM event_images WHERE event_id = $1 ORDER BY filename`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFilenames(rows)
}

func (r *eventImageRepository) Add(ctx context.Context, eventID, filename string) error {
	_, err := db(ctx, r.pool).Exec(ctx,
		`INSERT INTO event_images (event_id, filename) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		eventID, filename)
	return err
}

func (r *eventImageRepository) Delete(ctx context.Context, eventID, filename string) error {
	tag, err := db(ctx, r.pool).Exec(ctx,
		`DELETE FROM event_images WHERE event_id = $1 AND filename = $2`, eventID, filename)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}

func (r *eventImageRepository) Exists(ctx context.Context, eventID, filename string) (bool, error) {
	return filenameExists(ctx, db(ctx, r.pool),
		`SELECT EXISTS(SELECT 1 FROM event_images WHERE event_id = $1 AND filename = $2)`,
		eventID, filename)
}

func collectFilenames(rows pgx.Rows) ([]string, error) {
	var names []string
	for rows.Next() {
		var fn string
		if err := rows.Scan(&fn); err != nil {
			return nil, err
		}
		names = append(names, fn)
	}
	return names, rows.Err()
}

func filenameExists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var exists bool
	if err := q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
