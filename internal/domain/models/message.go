// internal/domain/models/message.go
package models

import "time"

// MessageDirection distinguishes who wrote a message in a sponsorship
// thread: the sponsor writing to their child, or the missionary writing
// back on the child's behalf.
type MessageDirection string

const (
	DirectionToChild   MessageDirection = "to_child"
	DirectionToSponsor MessageDirection = "to_sponsor"
)

// MaxMessageLength is the cap on message text, in characters.
const MaxMessageLength = 200

// Message is one message in a sponsor-child thread. Threads are keyed
// by the sponsor's 8-digit identifier; messages live in the devstore,
// so the JSON tags are the storage format.
type Message struct {
	ID        string           `json:"id"`
	SponsorID string           `json:"sponsor_id"`
	Text      string           `json:"message_text"`
	Read      bool             `json:"message_has_been_read"`
	Direction MessageDirection `json:"message_direction"`

	// Optional photo attachments.
	Image01URL string `json:"image01_url,omitempty"`
	Image02URL string `json:"image02_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
