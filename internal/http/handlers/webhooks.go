package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/brightpaw/booking-inbox/internal/intake"
	"github.com/brightpaw/booking-inbox/internal/observability/metrics"
	"github.com/brightpaw/booking-inbox/internal/store"
	"github.com/brightpaw/booking-inbox/pkg/logging"
)

// webhookTokenHeader carries the shared-secret webhook token.
const webhookTokenHeader = "X-Webhook-Token"

// WebhookHandler accepts inbound message deliveries from the SMS relay and
// the Rover forwarder.
type WebhookHandler struct {
	orchestrator *intake.Orchestrator
	token        string
	logger       *logging.Logger
	metrics      *metrics.IntakeMetrics
}

type WebhookConfig struct {
	Orchestrator *intake.Orchestrator
	Token        string
	Logger       *logging.Logger
	Metrics      *metrics.IntakeMetrics
}

func NewWebhookHandler(cfg WebhookConfig) *WebhookHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &WebhookHandler{
		orchestrator: cfg.Orchestrator,
		token:        cfg.Token,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
	}
}

type smsPayload struct {
	From              string `json:"from"`
	Body              string `json:"body"`
	ThreadID          string `json:"threadId"`
	ProviderMessageID string `json:"providerMessageId"`
	Timestamp         string `json:"timestamp"`
}

type roverPayload struct {
	RelayHandle string `json:"relayHandle"`
	Message     string `json:"message"`
	SentAt      string `json:"sentAt"`
}

// HandleSMS processes one SMS relay delivery.
func (h *WebhookHandler) HandleSMS(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	var payload smsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	h.process(w, r, intake.Inbound{
		Platform:          store.PlatformSMS,
		From:              payload.From,
		ThreadID:          payload.ThreadID,
		ProviderMessageID: payload.ProviderMessageID,
		Channel:           "sms",
		Body:              payload.Body,
		ReceivedAt:        parseTimestamp(payload.Timestamp),
	})
}

// HandleRover processes one forwarded Rover relay notification.
func (h *WebhookHandler) HandleRover(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	var payload roverPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	h.process(w, r, intake.Inbound{
		Platform:   store.PlatformRover,
		From:       payload.RelayHandle,
		ThreadID:   payload.RelayHandle,
		Channel:    "rover",
		Body:       payload.Message,
		ReceivedAt: parseTimestamp(payload.SentAt),
	})
}

func (h *WebhookHandler) process(w http.ResponseWriter, r *http.Request, in intake.Inbound) {
	start := time.Now()
	outcome, err := h.orchestrator.Process(r.Context(), in)
	h.metrics.ObserveWebhookLatency(string(in.Platform), time.Since(start).Seconds())

	switch {
	case errors.Is(err, intake.ErrMissingSender), errors.Is(err, intake.ErrMissingBody):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		// Store failures only; the relay retries and EID dedup makes the
		// redelivery safe.
		h.logger.Error("intake failed", "platform", in.Platform, "error", err)
		http.Error(w, "intake failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *WebhookHandler) authorized(r *http.Request) bool {
	if h.token == "" {
		return true
	}
	got := r.Header.Get(webhookTokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts
	}
	return time.Time{}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
