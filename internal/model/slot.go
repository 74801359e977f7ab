package model

import "fmt"

// Slot is a concrete one-hour lesson opportunity on a specific date.
// Generated slots are recomputed from the weekly schedule on every read
// and never persisted; manual slots persist until removed.
type Slot struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // 2006-01-02
	Time      string `json:"time"` // 15:04, 24h
	BookedBy  string `json:"booked_by,omitempty"`
	Generated bool   `json:"generated"`
}

// GeneratedSlotID derives the deterministic id for a generated slot so
// regeneration is idempotent.
func GeneratedSlotID(date, t string) string {
	return fmt.Sprintf("gen-%s-%s", date, t)
}

// Free reports whether the slot is open for booking.
func (s *Slot) Free() bool {
	return s.BookedBy == ""
}
