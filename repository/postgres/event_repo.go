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

const eventColumns = `id, title, description, date, category, format, city, address,
	latitude, longitude, conference_link, capacity, level, owner_id, created_at, updated_at`

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository returns a Postgres-backed implementation of EventRepository.
func NewEventRepository(pool *pgxpool.Pool) repository.EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(db(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	return scanEvent(db(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *eventRepository) List(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	orderBy := "date ASC"
	switch filter.Sort {
	case "rating":
		orderBy = `(SELECT COALESCE(AVG(r.rating), 0) FROM rsvps r WHERE r.event_id = events.id) DESC`
	case "popularity":
		orderBy = `(SELECT COUNT(*) FROM rsvps r WHERE r.event_id = events.id) DESC`
	}

	query := `
	SELECT ` + eventColumns + `
	FROM events
	WHERE ($1 = '' OR category = $1)
	  AND ($2 = '' OR format = $2)
	  AND ($3 = '' OR city = $3)
	  AND ($4 = '' OR level = $4)
	  AND ($5 = '' OR title ILIKE '%' || $5 || '%' OR description ILIKE '%' || $5 || '%')
	ORDER BY ` + orderBy + `
	LIMIT $6 OFFSET $7
	`
	rows, err := db(ctx, r.pool).Query(ctx, query,
		filter.Category, filter.Format, filter.City, filter.Level, filter.Query,
		clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE owner_id = $1 ORDER BY date ASC`
	rows, err := db(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if event == nil {
		return nil, domain.ErrInvalidPayload
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO events (id, title, description, date, category, format, city, address,
		latitude, longitude, conference_link, capacity, level, owner_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING created_at, updated_at
	`
	if err := db(ctx, r.pool).QueryRow(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.Category,
		event.Format,
		event.City,
		event.Address,
		event.Latitude,
		event.Longitude,
		event.ConferenceLink,
		event.Capacity,
		event.Level,
		event.OwnerID,
	).Scan(&event.CreatedAt, &event.UpdatedAt); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE events
	SET title = $2,
		description = $3,
		date = $4,
		category = $5,
		format = $6,
		city = $7,
		address = $8,
		latitude = $9,
		longitude = $10,
		conference_link = $11,
		capacity = $12,
		level = $13,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := db(ctx, r.pool).QueryRow(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.Category,
		event.Format,
		event.City,
		event.Address,
		event.Latitude,
		event.Longitude,
		event.ConferenceLink,
		event.Capacity,
		event.Level,
	).Scan(&event.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return err
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	// Image and rsvp rows go with the event via ON DELETE CASCADE.
	tag, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var ev domain.Event
	if err := row.Scan(
		&ev.ID,
		&ev.Title,
		&ev.Description,
		&ev.Date,
		&ev.Category,
		&ev.Format,
		&ev.City,
		&ev.Address,
		&ev.Latitude,
		&ev.Longitude,
		&ev.ConferenceLink,
		&ev.Capacity,
		&ev.Level,
		&ev.OwnerID,
		&ev.CreatedAt,
		&ev.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &ev, nil
}

func collectEvents(rows pgx.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}
