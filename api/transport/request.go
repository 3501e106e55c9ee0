package transport

// SubmitRequestRequest is the wire payload for submitting a change request.
// Dates travel as RFC3339 strings.
type SubmitRequestRequest struct {
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Date           string   `json:"date"`
	Category       string   `json:"category"`
	Format         string   `json:"format"`
	City           *string  `json:"city"`
	Address        *string  `json:"address"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	ConferenceLink *string  `json:"conference_link"`
	Capacity       int      `json:"capacity"`
	Level          string   `json:"level"`
	TargetEventID  *string  `json:"target_event_id"`
}

type RatingRequest struct {
	Rating int `json:"rating"`
}
