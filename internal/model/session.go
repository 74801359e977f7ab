package model

// SessionEntry is the immutable record of a concluded lesson. Only
// Payment may change after creation.
type SessionEntry struct {
	ID          string        `json:"id"`
	RoomID      string        `json:"room_id"`
	StudentID   string        `json:"student_id"`
	StudentName string        `json:"student_name"`
	Date        string        `json:"date"`
	Subject     string        `json:"subject"`
	Topic       string        `json:"topic"`
	WentWell    string        `json:"went_well"`
	ToImprove   string        `json:"to_improve"`
	Focus       string        `json:"focus,omitempty"`
	NextSteps   string        `json:"next_steps,omitempty"`
	Cost        int           `json:"cost"`
	Payment     PaymentStatus `json:"payment_status"`
}

// PendingFeedback marks a lesson that ended without feedback being
// captured. Cleared when a matching session entry is written.
type PendingFeedback struct {
	RoomID      string `json:"room_id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Subject     string `json:"subject,omitempty"`
	Date        string `json:"date"`
}
