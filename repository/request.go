package repository

import (
	"context"

	"github.com/eventhub/backend/domain"
)

type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ChangeRequest, error)
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.ChangeRequest, error)
	// ListByAuthor returns the author's requests, newest first.
	ListByAuthor(ctx context.Context, authorID string) ([]domain.ChangeRequest, error)
	Create(ctx context.Context, request *domain.ChangeRequest) (*domain.ChangeRequest, error)
	// UpdateStatus flips the request status only when the current status
	// matches from; a stale transition returns domain.ErrRequestNotPending,
	// so at most one concurrent approval wins.
	UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus) error
}
