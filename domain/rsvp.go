package domain

import "time"

// Rsvp records one user's attendance interest in one event.
// Unique per (event, user); doubles as the notification fan-out list when an
// event is edited.
type Rsvp struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	// Rating is the 1-5 score the attendee gave, nil until rated.
	Rating *int `json:"rating,omitempty"`
	// TicketCode is the entry code issued for offline events, nil for online
	// ones. It lives and dies with the rsvp row.
	TicketCode *string   `json:"ticket_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Rsvp) IsRated() bool {
	return r != nil && r.Rating != nil
}
