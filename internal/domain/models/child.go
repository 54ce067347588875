// internal/domain/models/child.go
package models

import "time"

// Child is one child enrolled at a Bridge of Hope center. Children live
// in the devstore (see store/kvstore) until they get a first-class
// collection, so the JSON tags are the storage format.
type Child struct {
	ID          string    `json:"id"`
	ChildID     string    `json:"child_id"` // 10 digits
	Name        string    `json:"name"`
	DateOfBirth string    `json:"date_of_birth"`            // YYYY-MM-DD
	CenterID    string    `json:"bridge_of_hope_center_id"` // 8 digits
	SponsorID   string    `json:"sponsor_id,omitempty"`     // 8 digits; empty until sponsored
	CreatedAt   time.Time `json:"created_at"`
}

// Sponsored reports whether the child has been linked to a sponsor.
func (c *Child) Sponsored() bool { return c.SponsorID != "" }
