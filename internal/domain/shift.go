package domain

import "time"

// DateTimeLayout is the canonical shift datetime encoding used by the CSV
// schemas, e.g. "2024-01-05T09:00". No timezone, no seconds; parsed exactly.
const DateTimeLayout = "2006-01-02T15:04"

// TimeOfDayLayout encodes preferred shift start/end times, e.g. "09:00".
const TimeOfDayLayout = "15:04"

type Shift struct {
	ID         int64     `json:"id"`
	ProviderID int64     `json:"providerId"`
	ClientID   int64     `json:"clientId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ShiftType  string    `json:"shiftType"`
	Notes      string    `json:"notes"`
}

// Overlaps reports whether the two shifts share a non-zero-duration
// intersection. Touching endpoints do not overlap.
func (s *Shift) Overlaps(other *Shift) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}
