package domain

import "time"

// Season is a competitive window. Ratings are reset at its boundary by a
// season reset policy; the engine specifies the transform, the embedding
// application schedules it.
type Season struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsActiveAt reports whether t falls inside [Start, End).
func (s Season) IsActiveAt(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// IsActive reports whether the season is active right now.
func (s Season) IsActive() bool {
	return s.IsActiveAt(time.Now().UTC())
}
