package repository

import (
	"context"

	"github.com/eventhub/backend/domain"
)

// EventFilter narrows event listings. Empty fields are ignored.
type EventFilter struct {
	Category string
	Format   string
	City     string
	Level    string
	Query    string
	Sort     string // date | rating | popularity
	Limit    int
	Offset   int
}

type EventRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// GetByIDForUpdate locks the event row for the duration of the
	// surrounding transaction so concurrent approvals targeting the same
	// event serialize.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]domain.Event, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Event, error)
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
}
