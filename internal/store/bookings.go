package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, channel, client_name, phone, relay_handle, email, dogs,
	service, start_at, end_at, status, notes, client_id, created_at, updated_at`

// CreateBooking inserts a new booking row.
func (s *Store) CreateBooking(ctx context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	if b.Dogs <= 0 {
		b.Dogs = 1
	}
	query := `
		INSERT INTO bookings (id, channel, client_name, phone, relay_handle, email, dogs,
			service, start_at, end_at, status, notes, client_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.pool.Exec(ctx, query, b.ID, b.Channel, b.ClientName, b.Phone, b.RelayHandle,
		b.Email, b.Dogs, b.Service, b.StartAt, b.EndAt, b.Status, b.Notes, b.ClientID)
	if err != nil {
		return fmt.Errorf("store: insert booking: %w", err)
	}
	return nil
}

// UpdateBooking applies the non-nil fields of the patch.
func (s *Store) UpdateBooking(ctx context.Context, id uuid.UUID, patch BookingPatch) error {
	var sets []string
	var args []any

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Service != nil {
		add("service", *patch.Service)
	}
	if patch.StartAt != nil {
		add("start_at", *patch.StartAt)
	}
	if patch.EndAt != nil {
		add("end_at", *patch.EndAt)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.Dogs != nil {
		add("dogs", *patch.Dogs)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := "UPDATE bookings SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))
	ct, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("store: update booking: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// GetBooking loads one booking by id.
func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get booking: %w", err)
	}
	return b, nil
}

// FindRecentBookingForSender locates the sender's in-flight booking thread:
// the newest non-archived booking matched by phone or relay handle, created
// within the lookback, whose window sits near the new segment's start.
// CANCELED rows are returned so the caller can apply its never-revive rule.
func (s *Store) FindRecentBookingForSender(ctx context.Context, senderKey string, since time.Time, around time.Time, window time.Duration) (*Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE (phone = $1 OR relay_handle = $1)
		  AND created_at >= $2
		  AND status != 'ARCHIVED'
		  AND start_at BETWEEN $3 AND $4
		ORDER BY created_at DESC
		LIMIT 1`
	row := s.pool.QueryRow(ctx, query, senderKey, since, around.Add(-window), around.Add(window))
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: find booking for sender: %w", err)
	}
	return b, nil
}

// SetBookingStatus transitions a booking, enforcing the state machine:
// PENDING confirms or declines, CONFIRMED declines, anything non-archived
// archives. Returns ErrInvalidStatus for anything else.
func (s *Store) SetBookingStatus(ctx context.Context, id uuid.UUID, status BookingStatus) (*Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validTransition(b.Status, status) {
		return nil, fmt.Errorf("store: %s -> %s: %w", b.Status, status, ErrInvalidStatus)
	}
	_, err = s.pool.Exec(ctx,
		`UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return nil, fmt.Errorf("store: set booking status: %w", err)
	}
	b.Status = status
	return b, nil
}

func validTransition(from, to BookingStatus) bool {
	switch to {
	case BookingConfirmed:
		return from == BookingPending
	case BookingCanceled:
		return from == BookingPending || from == BookingConfirmed
	case BookingArchived:
		return from != BookingArchived
	default:
		return false
	}
}

// ArchiveElapsed moves bookings whose window plus grace has passed into the
// terminal ARCHIVED state. Returns how many rows moved.
func (s *Store) ArchiveElapsed(ctx context.Context, grace time.Duration) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'ARCHIVED', updated_at = now()
		WHERE status IN ('PENDING', 'CONFIRMED', 'CANCELED')
		  AND end_at < $1
	`
	ct, err := s.pool.Exec(ctx, query, time.Now().Add(-grace))
	if err != nil {
		return 0, fmt.Errorf("store: archive elapsed: %w", err)
	}
	return ct.RowsAffected(), nil
}

// ListBookings returns bookings newest first, optionally filtered by status.
func (s *Store) ListBookings(ctx context.Context, status *BookingStatus, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list bookings: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan booking: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.Channel, &b.ClientName, &b.Phone, &b.RelayHandle, &b.Email,
		&b.Dogs, &b.Service, &b.StartAt, &b.EndAt, &b.Status, &b.Notes, &b.ClientID,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
