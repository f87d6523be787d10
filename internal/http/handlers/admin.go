package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightpaw/booking-inbox/internal/calendar"
	"github.com/brightpaw/booking-inbox/internal/intake"
	"github.com/brightpaw/booking-inbox/internal/store"
	"github.com/brightpaw/booking-inbox/pkg/logging"
)

// AdminStore is the persistence surface for the admin endpoints.
type AdminStore interface {
	GetMessage(ctx context.Context, id uuid.UUID) (*store.Message, error)
	MarkMessageRead(ctx context.Context, id uuid.UUID, read bool) error
	ClearMessages(ctx context.Context) (int64, error)
	ListBookings(ctx context.Context, status *store.BookingStatus, limit int) ([]store.Booking, error)
}

// BookingService drives booking status transitions.
type BookingService interface {
	Confirm(ctx context.Context, id uuid.UUID) (*store.Booking, []calendar.BusyInterval, error)
	Decline(ctx context.Context, id uuid.UUID) (*store.Booking, error)
}

// ReparseRunner executes one reconciliation pass over stored messages.
type ReparseRunner interface {
	Run(ctx context.Context, opts intake.ReparseOptions) (intake.ReparseSummary, error)
}

// AdminHandler serves the operator endpoints: message read flags, bulk
// clear, booking transitions and reparse runs.
type AdminHandler struct {
	store    AdminStore
	bookings BookingService
	reparser ReparseRunner
	logger   *logging.Logger
}

type AdminConfig struct {
	Store    AdminStore
	Bookings BookingService
	Reparser ReparseRunner
	Logger   *logging.Logger
}

func NewAdminHandler(cfg AdminConfig) *AdminHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &AdminHandler{
		store:    cfg.Store,
		bookings: cfg.Bookings,
		reparser: cfg.Reparser,
		logger:   cfg.Logger,
	}
}

// GetMessage returns one message with its extraction results.
func (h *AdminHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid message id", http.StatusBadRequest)
		return
	}
	msg, err := h.store.GetMessage(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrMessageNotFound) {
			http.Error(w, "message not found", http.StatusNotFound)
			return
		}
		h.logger.Error("get message failed", "message_id", id, "error", err)
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// MarkMessageRead toggles a message's read flag.
func (h *AdminHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid message id", http.StatusBadRequest)
		return
	}
	var body struct {
		Read bool `json:"read"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := h.store.MarkMessageRead(r.Context(), id, body.Read); err != nil {
		if errors.Is(err, store.ErrMessageNotFound) {
			http.Error(w, "message not found", http.StatusNotFound)
			return
		}
		h.logger.Error("mark read failed", "message_id", id, "error", err)
		http.Error(w, "update failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "read": body.Read})
}

// ClearMessages is the administrative bulk delete.
func (h *AdminHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.ClearMessages(r.Context())
	if err != nil {
		h.logger.Error("bulk clear failed", "error", err)
		http.Error(w, "clear failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": n})
}

// ListBookings returns recent bookings, optionally filtered by ?status=.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	var status *store.BookingStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := store.BookingStatus(raw)
		status = &s
	}
	list, err := h.store.ListBookings(r.Context(), status, 100)
	if err != nil {
		h.logger.Error("list bookings failed", "error", err)
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": list})
}

// ConfirmBooking transitions a booking to CONFIRMED and reports calendar
// conflicts as warnings.
func (h *AdminHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return
	}
	b, conflicts, err := h.bookings.Confirm(r.Context(), id)
	if err != nil {
		h.writeBookingError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": b, "conflicts": conflicts})
}

// DeclineBooking transitions a booking to CANCELED.
func (h *AdminHandler) DeclineBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return
	}
	b, err := h.bookings.Decline(r.Context(), id)
	if err != nil {
		h.writeBookingError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": b})
}

// RunReparse triggers a reconciliation pass synchronously and returns its
// summary counts.
func (h *AdminHandler) RunReparse(w http.ResponseWriter, r *http.Request) {
	var opts intake.ReparseOptions
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
	}
	summary, err := h.reparser.Run(r.Context(), opts)
	if errors.Is(err, intake.ErrReparseRunning) {
		http.Error(w, "reparse already running", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("reparse failed", "error", err)
		http.Error(w, "reparse failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AdminHandler) writeBookingError(w http.ResponseWriter, id uuid.UUID, err error) {
	switch {
	case errors.Is(err, store.ErrBookingNotFound):
		http.Error(w, "booking not found", http.StatusNotFound)
	case errors.Is(err, store.ErrInvalidStatus):
		http.Error(w, "invalid status transition", http.StatusConflict)
	default:
		h.logger.Error("booking transition failed", "booking_id", id, "error", err)
		http.Error(w, "transition failed", http.StatusInternalServerError)
	}
}
