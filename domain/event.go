package domain

import "time"

// Event format values.
const (
	FormatOnline  = "online"
	FormatOffline = "offline"
)

// Coordinates is a geographic point resolved from a street address.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Event is a published event visible to every user.
//
// Format-dependent fields are mutually exclusive: an offline event carries
// city, address and coordinates with a nil conference link, an online event
// carries a conference link with the location fields nil.
type Event struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Date           time.Time  `json:"date"`
	Category       string     `json:"category"`
	Format         string     `json:"format"`
	City           *string    `json:"city,omitempty"`
	Address        *string    `json:"address,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	ConferenceLink *string    `json:"conference_link,omitempty"`
	Capacity       int        `json:"capacity"`
	Level          string     `json:"level"`
	OwnerID        string     `json:"owner_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (e *Event) IsOnline() bool {
	return e != nil && e.Format == FormatOnline
}

// EventDetails decorates an event with derived presentation data.
type EventDetails struct {
	Event
	ImageURLs        []string `json:"image_urls"`
	OwnerRating      float64  `json:"owner_rating"`
	OwnerRatingCount int64    `json:"owner_rating_count"`
}
