package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tutordesk/tutordesk/internal/model"
)

func TestEarnings(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	bookings := []model.Booking{
		// Future confirmed lesson, unpaid: projected.
		{ID: "b1", Date: "2024-01-15", Time: "14:00", Status: model.BookingStatusConfirmed, Cost: 30, Payment: model.PaymentDue},
		// Paid counts regardless of date.
		{ID: "b2", Date: "2024-01-22", Time: "14:00", Status: model.BookingStatusConfirmed, Cost: 280, Payment: model.PaymentPaid},
		// Cancelled never counts.
		{ID: "b3", Date: "2024-01-29", Time: "14:00", Status: model.BookingStatusCancelled, Cost: 30, Payment: model.PaymentDue},
		// Consultations are free of charge.
		{ID: "b4", Date: "2024-01-17", Time: "10:00", Status: model.BookingStatusConfirmed, Type: model.BookingTypeConsultation, Payment: model.PaymentDue},
		// Past unpaid bookings are not projected; the sweep turns them
		// into session entries.
		{ID: "b5", Date: "2024-01-03", Time: "14:00", Status: model.BookingStatusConfirmed, Cost: 30, Payment: model.PaymentDue},
		// Pending reschedule still counts as upcoming revenue.
		{ID: "b6", Date: "2024-01-16", Time: "14:00", Status: model.BookingStatusPendingReschedule, Cost: 40, Payment: model.PaymentDue},
	}
	sessions := []model.SessionEntry{
		{ID: "s1", Date: "2024-01-03", Cost: 30, Payment: model.PaymentPaid},
		{ID: "s2", Date: "2024-01-05", Cost: 40, Payment: model.PaymentDue},
		{ID: "s3", Date: "2024-01-08", Cost: 25, Payment: model.PaymentDueException},
		{ID: "s4", Date: "2024-01-09", Cost: 30, Payment: model.PaymentRefunded},
	}

	got := Earnings(bookings, sessions, now)

	assert.Equal(t, 310, got.Paid)       // s1 + b2
	assert.Equal(t, 65, got.Outstanding) // s2 + s3
	assert.Equal(t, 70, got.Projected)   // b1 + b6
}

func TestEarningsEmpty(t *testing.T) {
	got := Earnings(nil, nil, time.Now())
	assert.Zero(t, got.Paid)
	assert.Zero(t, got.Outstanding)
	assert.Zero(t, got.Projected)
}
