// Package notify fans intake outcomes out to operators. Everything here is
// best-effort: failures are logged and swallowed, never surfaced to intake.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brightpaw/booking-inbox/internal/events"
	"github.com/brightpaw/booking-inbox/internal/intake"
	"github.com/brightpaw/booking-inbox/pkg/logging"
)

// Service sends operator notifications for intake outcomes.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, recipients: recipients, logger: logger}
}

// NotifyAll sends title/body to every configured recipient, swallowing
// individual failures.
func (s *Service) NotifyAll(ctx context.Context, title, body string) {
	if s.email == nil || len(s.recipients) == 0 {
		s.logger.Debug("notifications disabled, skipping", "title", title)
		return
	}
	for _, to := range s.recipients {
		msg := EmailMessage{To: to, Subject: title, Body: body}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Warn("notification send failed", "to", to, "error", err)
		}
	}
}

// Handle implements events.DeliveryHandler: it turns outbox entries into
// operator notifications.
func (s *Service) Handle(ctx context.Context, entry events.OutboxEntry) error {
	var payload events.IntakeProcessedV1
	if err := json.Unmarshal(entry.Payload, &payload); err != nil {
		// Malformed payloads are dropped, not retried forever.
		s.logger.Error("unparseable outbox payload", "event_id", entry.ID, "error", err)
		return nil
	}

	switch entry.Type {
	case intake.EventIntakeProcessed:
		title := fmt.Sprintf("New booking request from %s", payload.From)
		body := fmt.Sprintf("Message %s matched %d booking(s) via %s.",
			payload.MessageID, len(payload.BookingIDs), payload.Platform)
		s.NotifyAll(ctx, title, body)
	case intake.EventIntakeSkipped:
		s.logger.Debug("non-candidate message recorded", "message_id", payload.MessageID, "from", payload.From)
	default:
		s.logger.Warn("unknown outbox event type", "type", entry.Type)
	}
	return nil
}
