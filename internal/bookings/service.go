// Package bookings drives booking lifecycle transitions and their calendar
// side effects.
package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightpaw/booking-inbox/internal/calendar"
	"github.com/brightpaw/booking-inbox/internal/store"
	"github.com/brightpaw/booking-inbox/pkg/logging"
)

// Store is the persistence surface the service needs.
type Store interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*store.Booking, error)
	SetBookingStatus(ctx context.Context, id uuid.UUID, status store.BookingStatus) (*store.Booking, error)
	ArchiveElapsed(ctx context.Context, grace time.Duration) (int64, error)
}

// Service applies booking status transitions. Calendar sync is best-effort:
// the status change is the durable fact, the calendar mirrors it.
type Service struct {
	store            Store
	calendar         calendar.Service // optional
	logger           *logging.Logger
	publishOnConfirm bool
}

func NewService(st Store, cal calendar.Service, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: st, calendar: cal, logger: logger, publishOnConfirm: true}
}

// WithPublishOnConfirm toggles pushing a busy block to the calendar when a
// booking is confirmed. Conflict lookups still run either way.
func (s *Service) WithPublishOnConfirm(enabled bool) *Service {
	s.publishOnConfirm = enabled
	return s
}

// Confirm moves a PENDING booking to CONFIRMED and publishes its busy block.
// Conflicting busy intervals are returned as warnings, not failures; the
// operator decides.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*store.Booking, []calendar.BusyInterval, error) {
	b, err := s.store.SetBookingStatus(ctx, id, store.BookingConfirmed)
	if err != nil {
		return nil, nil, fmt.Errorf("bookings: confirm: %w", err)
	}

	var conflicts []calendar.BusyInterval
	if s.calendar != nil {
		busy, lerr := s.calendar.ListBusy(ctx, b.StartAt, b.EndAt)
		if lerr != nil {
			s.logger.Warn("busy lookup failed", "booking_id", id, "error", lerr)
		}
		for _, interval := range busy {
			if interval.Overlaps(b.StartAt, b.EndAt) {
				conflicts = append(conflicts, interval)
			}
		}
		if s.publishOnConfirm {
			if perr := s.calendar.PublishBusyEvent(ctx, b, "opaque"); perr != nil {
				s.logger.Error("calendar publish failed", "booking_id", id, "error", perr)
			}
		}
	}
	return b, conflicts, nil
}

// Decline cancels a PENDING or CONFIRMED booking and retracts any published
// busy block.
func (s *Service) Decline(ctx context.Context, id uuid.UUID) (*store.Booking, error) {
	b, err := s.store.SetBookingStatus(ctx, id, store.BookingCanceled)
	if err != nil {
		return nil, fmt.Errorf("bookings: decline: %w", err)
	}
	if s.calendar != nil {
		if rerr := s.calendar.RetractBusyEvent(ctx, id); rerr != nil {
			s.logger.Error("calendar retract failed", "booking_id", id, "error", rerr)
		}
	}
	return b, nil
}

// RunArchiveSweep archives elapsed bookings on the given cadence until the
// context ends.
func (s *Service) RunArchiveSweep(ctx context.Context, every, grace time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.ArchiveElapsed(ctx, grace)
			if err != nil {
				s.logger.Error("archive sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("bookings archived", "count", n)
			}
		}
	}
}
