package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one undelivered message waiting for a retry.
type Notification struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Retries   int       `json:"retries"`
	Timestamp time.Time `json:"timestamp"`

	bucketKey []byte
}

func (n *Notification) normalize() {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
}
