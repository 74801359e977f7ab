package model

type BookingStatus string

const (
	BookingStatusConfirmed              BookingStatus = "confirmed"
	BookingStatusPendingReschedule      BookingStatus = "pending_reschedule"       // student proposed a change
	BookingStatusPendingStudentApproval BookingStatus = "pending_student_approval" // teacher proposed a change
	BookingStatusCancelled              BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentDue          PaymentStatus = "Due"
	PaymentPaid         PaymentStatus = "Paid"
	PaymentInBundle     PaymentStatus = "In bundle"
	PaymentDueException PaymentStatus = "Due (Exception)"
	PaymentRefunded     PaymentStatus = "Refunded"
)

type BookingType string

const (
	BookingTypeLesson       BookingType = "lesson"
	BookingTypeConsultation BookingType = "consultation"
)

// TeacherProposal holds a teacher-initiated reschedule awaiting the
// student's answer. Original values are kept so a denial can revert.
type TeacherProposal struct {
	OriginalDate string `json:"original_date"`
	OriginalTime string `json:"original_time"`
	NewDate      string `json:"new_date"`
	NewTime      string `json:"new_time"`
}

// Booking is one committed lesson instance between the teacher and a
// student. StudentID is the canonical reference; Student carries the
// display name and is refreshed from the roster.
type Booking struct {
	ID        string        `json:"id"`
	StudentID string        `json:"student_id"`
	Student   string        `json:"student"`
	Date      string        `json:"date"` // 2006-01-02
	Time      string        `json:"time"` // 15:04, 24h
	Subject   string        `json:"subject"`
	Type      BookingType   `json:"type"`
	Status    BookingStatus `json:"status"`
	Cost      int           `json:"cost"`
	Payment   PaymentStatus `json:"payment_status"`

	// Series fields; RecurringID is empty for one-off bookings.
	RecurringID string `json:"recurring_id,omitempty"`
	SeriesIndex int    `json:"series_index,omitempty"`
	TotalSeries int    `json:"total_series,omitempty"`

	// Student-initiated reschedule request, pending the teacher's answer.
	RequestedDate   string `json:"requested_date,omitempty"`
	RequestedTime   string `json:"requested_time,omitempty"`
	RequestedSlotID string `json:"requested_slot_id,omitempty"`

	// Teacher-initiated reschedule, pending the student's answer.
	TeacherProposed *TeacherProposal `json:"teacher_proposed,omitempty"`
}

// Active reports whether the booking still occupies its slot.
func (b *Booking) Active() bool {
	return b.Status != BookingStatusCancelled
}

// InSeries reports whether the booking belongs to a recurring series.
func (b *Booking) InSeries() bool {
	return b.RecurringID != ""
}

// HasProposal reports whether a reschedule negotiation is in flight.
func (b *Booking) HasProposal() bool {
	return b.RequestedDate != "" || b.TeacherProposed != nil
}
