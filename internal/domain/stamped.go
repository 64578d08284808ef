package domain

import "time"

// Stamped provides the common identity and timestamp fields shared by all
// persisted record types. Timestamps are Unix milliseconds.
type Stamped struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Touch advances UpdatedAt to the current time.
// UpdatedAt is guaranteed to strictly increase across successive calls,
// even when the wall clock has not moved a full millisecond.
func (s *Stamped) Touch() {
	now := time.Now().UnixMilli()
	if now <= s.UpdatedAt {
		now = s.UpdatedAt + 1
	}
	s.UpdatedAt = now
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new record.
func (s *Stamped) InitTimestamps() {
	now := time.Now().UnixMilli()
	s.CreatedAt = now
	s.UpdatedAt = now
}
