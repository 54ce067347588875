// internal/domain/models/center.go
package models

import "time"

// Center is one Bridge of Hope center record in the devstore. This is
// the center *entity*; users holding the center role reference it by
// CenterID.
type Center struct {
	ID        string    `json:"id"`
	CenterID  string    `json:"center_id"` // 8 digits
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
