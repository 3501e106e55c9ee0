package domain

import "time"

// RequestType tells whether a change request creates a new event or edits an
// existing one. Immutable once submitted.
type RequestType string

const (
	RequestTypeCreate RequestType = "CREATE"
	RequestTypeEdit   RequestType = "EDIT"
)

// RequestStatus is the moderation state of a change request.
// PENDING is the only non-terminal state.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// ChangeRequest is a user-submitted proposal to publish a new event or to
// modify a published one. It carries the full target field set; on approval
// the moderation workflow merges these fields into the event.
type ChangeRequest struct {
	ID             string        `json:"id"`
	Type           RequestType   `json:"type"`
	Status         RequestStatus `json:"status"`
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	Date           time.Time     `json:"date"`
	Category       string        `json:"category"`
	Format         string        `json:"format"`
	City           *string       `json:"city,omitempty"`
	Address        *string       `json:"address,omitempty"`
	Latitude       *float64      `json:"latitude,omitempty"`
	Longitude      *float64      `json:"longitude,omitempty"`
	ConferenceLink *string       `json:"conference_link,omitempty"`
	Capacity       int           `json:"capacity"`
	Level          string        `json:"level"`
	AuthorID       string        `json:"author_id"`
	// TargetEventID is set for EDIT requests and nil for CREATE.
	TargetEventID *string   `json:"target_event_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r *ChangeRequest) IsPending() bool {
	return r != nil && r.Status == RequestStatusPending
}

// RequestDetails decorates a change request with its resolved image URLs.
type RequestDetails struct {
	ChangeRequest
	ImageURLs []string `json:"image_urls"`
}
