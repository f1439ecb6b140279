package types

import "time"

// Village is the root of the survey hierarchy. It owns zero or more Houses.
type Village struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
