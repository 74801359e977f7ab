package service

import (
	"context"
	"time"

	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/store"
)

// EarningsSummary is the read-only revenue view derived from the
// booking ledger and the session log.
type EarningsSummary struct {
	Paid        int `json:"paid"`
	Outstanding int `json:"outstanding"`
	Projected   int `json:"projected"`
}

// Earnings computes the summary:
//   - paid sums cost over everything marked Paid;
//   - outstanding sums cost over completed sessions still owed;
//   - projected sums cost over future, non-cancelled, non-consultation
//     bookings not yet paid. "In bundle" members cost zero by
//     construction, their share was counted in the pack's first payment.
func Earnings(bookings []model.Booking, sessions []model.SessionEntry, now time.Time) EarningsSummary {
	var out EarningsSummary

	for _, e := range sessions {
		switch e.Payment {
		case model.PaymentPaid:
			out.Paid += e.Cost
		case model.PaymentDue, model.PaymentDueException:
			out.Outstanding += e.Cost
		}
	}

	for _, b := range bookings {
		if b.Payment == model.PaymentPaid {
			out.Paid += b.Cost
			continue
		}
		if !b.Active() || b.Type == model.BookingTypeConsultation {
			continue
		}
		if futureOf(b, now) {
			out.Projected += b.Cost
		}
	}

	return out
}

// Summary is the service-level view over the current ledger.
func (s *BookingService) Summary(ctx context.Context) (*EarningsSummary, error) {
	bookings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var sessions []model.SessionEntry
	if err := s.store.Load(ctx, store.ColSessions, &sessions); err != nil {
		return nil, err
	}

	summary := Earnings(bookings, sessions, time.Now())
	return &summary, nil
}
