package usecase

import (
	"context"
	"io"

	"github.com/eventhub/backend/domain"
)

// MediaStore abstracts the image blob storage so use cases stay
// filesystem-agnostic. Filenames are scoped to their owning request or event.
type MediaStore interface {
	SaveRequestImage(requestID, filename string, src io.Reader) (string, error)
	SaveEventImage(eventID, filename string, src io.Reader) (string, error)
	RequestImagePath(requestID, filename string) (string, error)
	EventImagePath(eventID, filename string) (string, error)
	// MoveRequestToEvent relocates the bytes from request scope to event
	// scope. The move is destructive at the source and must be idempotent:
	// a file already present at the destination counts as moved.
	MoveRequestToEvent(requestID, eventID, filename string) error
	DeleteRequestImage(requestID, filename string) error
	DeleteEventImage(eventID, filename string) error
	RemoveRequestDir(requestID string) error
	RemoveEventDir(eventID string) error
}

// Geocoder resolves a free-text address against an external provider.
// Lookups are best effort: failures and empty results both report ok=false,
// never an error, so callers degrade to whatever the submitter provided.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, bool)
	Locality(ctx context.Context, address string) (string, bool)
}

// Dispatcher delivers a notification to one recipient. Delivery is best
// effort and never fails the caller; transport errors are handled internally.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipientID, subject, body string)
}

// ImageUpload is one incoming image file.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}
