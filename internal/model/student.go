package model

import "time"

// Student is one roster entry. ID is the canonical key used by
// bookings; Name is denormalized onto bookings for display only.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	ChatID    int64     `json:"chat_id,omitempty"` // Telegram chat for notices, 0 if not linked
	CreatedAt time.Time `json:"created_at"`
}
