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

const requestColumns = `id, type, status, title, description, date, category, format, city,
	address, latitude, longitude, conference_link, capacity, level, author_id,
	target_event_id, created_at, updated_at`

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository returns a Postgres-backed implementation of RequestRepository.
func NewRequestRepository(pool *pgxpool.Pool) repository.RequestRepository {
	return &requestRepository{pool: pool}
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.ChangeRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM event_requests WHERE id = $1`
	return scanRequest(db(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *requestRepository) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.ChangeRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM event_requests WHERE status = $1 ORDER BY created_at ASC`
	rows, err := db(ctx, r.pool).Query(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *requestRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.ChangeRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM event_requests WHERE author_id = $1 ORDER BY created_at DESC`
	rows, err := db(ctx, r.pool).Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *requestRepository) Create(ctx context.Context, request *domain.ChangeRequest) (*domain.ChangeRequest, error) {
	if request == nil {
		return nil, domain.ErrInvalidPayload
	}
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = domain.RequestStatusPending
	}

	const query = `
	INSERT INTO event_requests (id, type, status, title, description, date, category, format,
		city, address, latitude, longitude, conference_link, capacity, level, author_id, target_event_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	RETURNING created_at, updated_at
	`
	if err := db(ctx, r.pool).QueryRow(ctx, query,
		request.ID,
		string(request.Type),
		string(request.Status),
		request.Title,
		request.Description,
		request.Date,
		request.Category,
		request.Format,
		request.City,
		request.Address,
		request.Latitude,
		request.Longitude,
		request.ConferenceLink,
		request.Capacity,
		request.Level,
		request.AuthorID,
		request.TargetEventID,
	).Scan(&request.CreatedAt, &request.UpdatedAt); err != nil {
		return nil, err
	}
	return request, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus) error {
	const query = `
	UPDATE event_requests
	SET status = $3, updated_at = NOW()
	WHERE id = $1 AND status = $2
	`
	tag, err := db(ctx, r.pool).Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or another moderator got there first.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrRequestNotPending
	}
	return nil
}

func scanRequest(row pgx.Row) (*domain.ChangeRequest, error) {
	var req domain.ChangeRequest
	var reqType, status string
	if err := row.Scan(
		&req.ID,
		&reqType,
		&status,
		&req.Title,
		&req.Description,
		&req.Date,
		&req.Category,
		&req.Format,
		&req.City,
		&req.Address,
		&req.Latitude,
		&req.Longitude,
		&req.ConferenceLink,
		&req.Capacity,
		&req.Level,
		&req.AuthorID,
		&req.TargetEventID,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	req.Type = domain.RequestType(reqType)
	req.Status = domain.RequestStatus(status)
	return &req, nil
}

func collectRequests(rows pgx.Rows) ([]domain.ChangeRequest, error) {
	var requests []domain.ChangeRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}
