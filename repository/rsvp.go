package repository

import (
	"context"

	"github.com/eventhub/backend/domain"
)

type RsvpRepository interface {
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Rsvp, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Rsvp, error)
	// ListByUser returns the user's rsvps, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Rsvp, error)
	Create(ctx context.Context, rsvp *domain.Rsvp) (*domain.Rsvp, error)
	Delete(ctx context.Context, id string) error
	SetRating(ctx context.Context, id string, rating int) error
	// OwnerRating aggregates ratings across all events owned by ownerID.
	OwnerRating(ctx context.Context, ownerID string) (avg float64, count int64, err error)
}
