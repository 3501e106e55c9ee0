package repository

import "context"

// RequestImageRepository tracks image filenames attached to a change request.
// Rows are cascade-deleted with their request.
type RequestImageRepository interface {
	List(ctx context.Context, requestID string) ([]string, error)
	Add(ctx context.Context, requestID, filename string) error
	Delete(ctx context.Context, requestID, filename string) error
	Exists(ctx context.Context, requestID, filename string) (bool, error)
}

// EventImageRepository tracks image filenames attached to a published event.
type EventImageRepository interface {
	List(ctx context.Context, eventID string) ([]string, error)
	Add(ctx context.Context, eventID, filename string) error
	Delete(ctx context.Context, eventID, filename string) error
	Exists(ctx context.Context, eventID, filename string) (bool, error)
}
