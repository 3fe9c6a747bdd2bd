package domain

import "time"

// Promotion is a time-bounded marketing banner managed by content admins.
type Promotion struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsRunning reports whether the promotion is active at the given time.
func (p *Promotion) IsRunning(at time.Time) bool {
	return p.Active && !at.Before(p.StartsAt) && at.Before(p.EndsAt)
}
