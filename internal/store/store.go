// Package store is the persistence port for the dashboard: a handful
// of named collections, each read and replaced as a whole document.
// There is no row-level access; every mutation reads the full
// collection, computes the new one and writes it back.
package store

import "context"

// Collection names the logical documents the dashboard persists.
type Collection string

const (
	ColSchedule        Collection = "weekly-schedule"
	ColStudents        Collection = "students"
	ColBookings        Collection = "bookings"
	ColManualSlots     Collection = "manual-slots"
	ColSessions        Collection = "session-history"
	ColPendingFeedback Collection = "pending-feedback"
)

// Store reads and replaces whole collection documents. Load decodes
// the stored document into out and leaves out untouched when the
// collection has never been written.
type Store interface {
	Load(ctx context.Context, c Collection, out any) error
	Save(ctx context.Context, c Collection, doc any) error
	Close() error
}
