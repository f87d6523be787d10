package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRow(id uuid.UUID, status BookingStatus) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "channel", "client_name", "phone", "relay_handle",
		"email", "dogs", "service", "start_at", "end_at", "status", "notes", "client_id",
		"created_at", "updated_at"}).
		AddRow(id, "sms", "+1555", "+1555", "", "", 1, ServiceOvernight,
			now, now.Add(48*time.Hour), status, "", (*uuid.UUID)(nil), now, now)
}

func TestFindRecentBookingForSender(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM bookings`).
		WithArgs("+1555", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(bookingRow(id, BookingPending))

	b, err := s.FindRecentBookingForSender(context.Background(), "+1555",
		time.Now().AddDate(0, 0, -30), time.Now(), 45*24*time.Hour)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, BookingPending, b.Status)
}

func TestFindRecentBookingForSenderNone(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM bookings`).
		WithArgs("+1555", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	b, err := s.FindRecentBookingForSender(context.Background(), "+1555",
		time.Now().AddDate(0, 0, -30), time.Now(), 45*24*time.Hour)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestSetBookingStatusConfirm(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM bookings WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(bookingRow(id, BookingPending))
	mock.ExpectExec(`UPDATE bookings SET status = \$1`).
		WithArgs(BookingConfirmed, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	b, err := s.SetBookingStatus(context.Background(), id, BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, BookingConfirmed, b.Status)
}

func TestSetBookingStatusRejectsInvalidTransition(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM bookings WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(bookingRow(id, BookingCanceled))

	_, err := s.SetBookingStatus(context.Background(), id, BookingConfirmed)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestValidTransitions(t *testing.T) {
	assert.True(t, validTransition(BookingPending, BookingConfirmed))
	assert.True(t, validTransition(BookingPending, BookingCanceled))
	assert.True(t, validTransition(BookingConfirmed, BookingCanceled))
	assert.True(t, validTransition(BookingCanceled, BookingArchived))
	assert.False(t, validTransition(BookingCanceled, BookingConfirmed))
	assert.False(t, validTransition(BookingConfirmed, BookingConfirmed))
	assert.False(t, validTransition(BookingArchived, BookingArchived))
}

func TestArchiveElapsed(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := s.ArchiveElapsed(context.Background(), 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
