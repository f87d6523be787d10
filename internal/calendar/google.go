package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/brightpaw/booking-inbox/internal/store"
	"github.com/brightpaw/booking-inbox/pkg/logging"
)

// bookingIDProperty tags calendar events with the booking that created them
// so retraction can find them later.
const bookingIDProperty = "bookingId"

// GoogleService implements Service against the Google Calendar API.
type GoogleService struct {
	svc        *gcal.Service
	calendarID string
	logger     *logging.Logger
}

// NewGoogleService builds a calendar client from a service-account
// credentials file.
func NewGoogleService(ctx context.Context, calendarID, credentialsFile string, logger *logging.Logger) (*GoogleService, error) {
	if calendarID == "" {
		return nil, fmt.Errorf("calendar: calendar id required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	svc, err := gcal.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("calendar: create client: %w", err)
	}
	return &GoogleService{svc: svc, calendarID: calendarID, logger: logger}, nil
}

// ListBusy queries free/busy for the window.
func (g *GoogleService) ListBusy(ctx context.Context, start, end time.Time) ([]BusyInterval, error) {
	req := &gcal.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: g.calendarID}},
	}
	resp, err := g.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: freebusy query: %w", err)
	}

	cal, ok := resp.Calendars[g.calendarID]
	if !ok {
		return nil, nil
	}
	var intervals []BusyInterval
	for _, period := range cal.Busy {
		s, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			continue
		}
		e, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			continue
		}
		intervals = append(intervals, BusyInterval{Start: s, End: e})
	}
	return intervals, nil
}

// PublishBusyEvent inserts a busy block for a confirmed booking.
func (g *GoogleService) PublishBusyEvent(ctx context.Context, b *store.Booking, transparency string) error {
	if transparency == "" {
		transparency = "opaque"
	}
	event := &gcal.Event{
		Summary:      fmt.Sprintf("%s - %s", b.Service, b.ClientName),
		Description:  b.Notes,
		Start:        &gcal.EventDateTime{DateTime: b.StartAt.Format(time.RFC3339)},
		End:          &gcal.EventDateTime{DateTime: b.EndAt.Format(time.RFC3339)},
		Transparency: transparency,
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{bookingIDProperty: b.ID.String()},
		},
	}
	if _, err := g.svc.Events.Insert(g.calendarID, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: insert event: %w", err)
	}
	g.logger.Info("busy event published", "booking_id", b.ID, "start", b.StartAt, "end", b.EndAt)
	return nil
}

// RetractBusyEvent deletes the busy blocks tagged with the booking id.
func (g *GoogleService) RetractBusyEvent(ctx context.Context, bookingID uuid.UUID) error {
	list, err := g.svc.Events.List(g.calendarID).
		PrivateExtendedProperty(bookingIDProperty + "=" + bookingID.String()).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("calendar: find events: %w", err)
	}
	for _, event := range list.Items {
		if err := g.svc.Events.Delete(g.calendarID, event.Id).Context(ctx).Do(); err != nil {
			return fmt.Errorf("calendar: delete event %s: %w", event.Id, err)
		}
	}
	g.logger.Info("busy event retracted", "booking_id", bookingID, "removed", len(list.Items))
	return nil
}
