// Package calendar abstracts the busy-interval calendar the business runs
// on. Consumed only on booking status transitions; never part of intake
// parsing.
package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightpaw/booking-inbox/internal/store"
)

// BusyInterval is one blocked span on the calendar.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the interval intersects [start, end).
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

// Service publishes and retracts booking busy events.
type Service interface {
	ListBusy(ctx context.Context, start, end time.Time) ([]BusyInterval, error)
	PublishBusyEvent(ctx context.Context, b *store.Booking, transparency string) error
	RetractBusyEvent(ctx context.Context, bookingID uuid.UUID) error
}
