package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockOutbox(t *testing.T) (*OutboxStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return newOutboxStoreWithQuerier(mock), mock
}

func TestFetchPending(t *testing.T) {
	store, mock := newMockOutbox(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM outbox`).
		WithArgs(int32(10)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type", "payload", "created_at"}).
			AddRow(id, "intake.processed.v1", []byte(`{"candidate":true}`), now))

	entries, err := store.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, "intake.processed.v1", entries[0].Type)
	assert.JSONEq(t, `{"candidate":true}`, string(entries[0].Payload))
}

func TestMarkDelivered(t *testing.T) {
	store, mock := newMockOutbox(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE outbox`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := store.MarkDelivered(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMarkDeliveredAlreadySettled(t *testing.T) {
	store, mock := newMockOutbox(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE outbox`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := store.MarkDelivered(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok)
}

type countingHandler struct {
	calls atomic.Int32
	fail  bool
}

func (h *countingHandler) Handle(context.Context, OutboxEntry) error {
	h.calls.Add(1)
	if h.fail {
		return errors.New("downstream unavailable")
	}
	return nil
}

func TestDelivererDrain(t *testing.T) {
	store, mock := newMockOutbox(t)
	id := uuid.New()
	payload, _ := json.Marshal(map[string]bool{"candidate": true})

	mock.ExpectQuery(`FROM outbox`).
		WithArgs(int32(25)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type", "payload", "created_at"}).
			AddRow(id, "intake.processed.v1", payload, time.Now()))
	mock.ExpectExec(`UPDATE outbox`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	h := &countingHandler{}
	d := NewDeliverer(nil, h, nil)
	d.store = store
	d.drain(context.Background())

	assert.Equal(t, int32(1), h.calls.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelivererLeavesFailedUndelivered(t *testing.T) {
	store, mock := newMockOutbox(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM outbox`).
		WithArgs(int32(25)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type", "payload", "created_at"}).
			AddRow(id, "intake.processed.v1", []byte(`{}`), time.Now()))

	h := &countingHandler{fail: true}
	d := NewDeliverer(nil, h, nil)
	d.store = store
	d.drain(context.Background())

	// No MarkDelivered exec expected: the row stays pending for retry.
	assert.NoError(t, mock.ExpectationsWereMet())
}
