package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpaw/booking-inbox/internal/oracle"
	"github.com/brightpaw/booking-inbox/internal/store"
)

// fakeRecords is an in-memory Records/HistoryStore with the same EID
// uniqueness guarantee the real store enforces.
type fakeRecords struct {
	messages map[string]*store.Message
	bookings map[uuid.UUID]*store.Booking
	pets     map[uuid.UUID][]string
	clients  map[string]*store.Client
	events   []string

	failCreateMessage error
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		messages: make(map[string]*store.Message),
		bookings: make(map[uuid.UUID]*store.Booking),
		pets:     make(map[uuid.UUID][]string),
		clients:  make(map[string]*store.Client),
	}
}

func (f *fakeRecords) MessageExists(_ context.Context, eid string) (bool, error) {
	_, ok := f.messages[eid]
	return ok, nil
}

func (f *fakeRecords) CreateMessage(_ context.Context, msg *store.Message) (bool, error) {
	if f.failCreateMessage != nil {
		return false, f.failCreateMessage
	}
	if _, ok := f.messages[msg.EID]; ok {
		return false, nil
	}
	cp := *msg
	f.messages[msg.EID] = &cp
	return true, nil
}

func (f *fakeRecords) UpdateMessage(_ context.Context, id uuid.UUID, patch store.MessagePatch) error {
	for _, msg := range f.messages {
		if msg.ID != id {
			continue
		}
		if patch.Candidate != nil {
			msg.Candidate = *patch.Candidate
		}
		if patch.Keywords != nil {
			msg.Keywords = patch.Keywords
		}
		if patch.Segments != nil {
			msg.Segments = patch.Segments
		}
		if patch.BookingID != nil {
			msg.BookingID = patch.BookingID
		}
		if patch.Read != nil {
			msg.Read = *patch.Read
		}
		return nil
	}
	return store.ErrMessageNotFound
}

func (f *fakeRecords) FindRecentBookingForSender(_ context.Context, senderKey string, _ time.Time, around time.Time, window time.Duration) (*store.Booking, error) {
	for _, b := range f.bookings {
		if b.SenderKey() != senderKey {
			continue
		}
		if d := b.StartAt.Sub(around); d > window || d < -window {
			continue
		}
		return b, nil
	}
	return nil, nil
}

func (f *fakeRecords) CreateBooking(_ context.Context, b *store.Booking) error {
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRecords) UpdateBooking(_ context.Context, id uuid.UUID, patch store.BookingPatch) error {
	b, ok := f.bookings[id]
	if !ok {
		return store.ErrBookingNotFound
	}
	if patch.Service != nil {
		b.Service = *patch.Service
	}
	if patch.StartAt != nil {
		b.StartAt = *patch.StartAt
	}
	if patch.EndAt != nil {
		b.EndAt = *patch.EndAt
	}
	return nil
}

func (f *fakeRecords) LinkPetToBooking(_ context.Context, bookingID uuid.UUID, _ string, name string) error {
	f.pets[bookingID] = append(f.pets[bookingID], name)
	return nil
}

func (f *fakeRecords) FindClientByPhone(_ context.Context, phone string) (*store.Client, error) {
	return f.clients[phone], nil
}

func (f *fakeRecords) EnqueueEvent(_ context.Context, eventType string, _ []byte) error {
	f.events = append(f.events, eventType)
	return nil
}

func (f *fakeRecords) ListInboundSince(_ context.Context, since time.Time, onlyUnlinked bool) ([]store.Message, error) {
	var out []store.Message
	for _, msg := range f.messages {
		if msg.ReceivedAt.Before(since) {
			continue
		}
		if onlyUnlinked && msg.BookingID != nil {
			continue
		}
		out = append(out, *msg)
	}
	return out, nil
}

// fixedOracle returns a canned verdict.
type fixedOracle struct {
	verdict oracle.Classification
	err     error
}

func (o fixedOracle) Classify(context.Context, string) (oracle.Classification, error) {
	return o.verdict, o.err
}

func newTestOrchestrator(records Records) *Orchestrator {
	return NewOrchestrator(OrchestratorConfig{
		Records:         records,
		Location:        time.UTC,
		RequireKeywords: true,
	})
}

func smsInbound(body string, ref time.Time) Inbound {
	return Inbound{
		Platform:   store.PlatformSMS,
		From:       "+15551234567",
		Body:       body,
		ReceivedAt: ref,
	}
}

var ref = time.Date(2025, time.November, 1, 10, 0, 0, 0, time.UTC)

func TestProcessCreatesBooking(t *testing.T) {
	records := newFakeRecords()
	o := newTestOrchestrator(records)

	out, err := o.Process(context.Background(), smsInbound("Hi! Board my dog from Nov 7 to Nov 9?", ref))
	require.NoError(t, err)

	assert.False(t, out.Deduped)
	assert.True(t, out.Candidate)
	assert.Equal(t, store.ServiceOvernight, out.Service)
	require.Len(t, out.BookingIDs, 1)
	assert.Equal(t, 1, out.Created)

	b := records.bookings[out.BookingIDs[0]]
	require.NotNil(t, b)
	assert.Equal(t, store.BookingPending, b.Status)
	assert.Equal(t, time.Date(2025, time.November, 7, 17, 0, 0, 0, time.UTC), b.StartAt)
	assert.Equal(t, time.Date(2025, time.November, 9, 17, 0, 0, 0, time.UTC), b.EndAt)
	assert.Equal(t, "+15551234567", b.Phone)
	assert.Equal(t, 1, b.Dogs)

	msg := records.messages[BuildEID(smsInbound("Hi! Board my dog from Nov 7 to Nov 9?", ref))]
	require.NotNil(t, msg)
	require.NotNil(t, msg.BookingID)
	assert.Equal(t, b.ID, *msg.BookingID)
	assert.Contains(t, records.events, EventIntakeProcessed)
}

func TestProcessNonCandidatePersistsUnlinked(t *testing.T) {
	records := newFakeRecords()
	o := newTestOrchestrator(records)

	out, err := o.Process(context.Background(), smsInbound("thanks, see you soon!", ref))
	require.NoError(t, err)

	assert.False(t, out.Candidate)
	assert.Empty(t, out.BookingIDs)
	assert.Empty(t, records.bookings)

	require.Len(t, records.messages, 1)
	for _, msg := range records.messages {
		assert.Nil(t, msg.BookingID)
		assert.False(t, msg.Candidate)
	}
	assert.Contains(t, records.events, EventIntakeSkipped)
}

func TestProcessIdempotent(t *testing.T) {
	records := newFakeRecords()
	o := newTestOrchestrator(records)
	in := smsInbound("Board my dog from Nov 7 to Nov 9?", ref)

	first, err := o.Process(context.Background(), in)
	require.NoError(t, err)
	require.False(t, first.Deduped)

	second, err := o.Process(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, second.Deduped)

	assert.Len(t, records.messages, 1)
	assert.Len(t, records.bookings, 1)
}

func TestProcessKeywordGate(t *testing.T) {
	records := newFakeRecords()
	o := newTestOrchestrator(records)

	// Dates but no booking vocabulary: strict AND policy skips it.
	out, err := o.Process(context.Background(), smsInbound("see you nov 7 to nov 9", ref))
	require.NoError(t, err)
	assert.False(t, out.Candidate)
	assert.Empty(t, records.bookings)
}

func TestProcessWalkOnlyIntentSkipped(t *testing.T) {
	records := newFakeRecords()
	o := newTestOrchestrator(records)

	out, err := o.Process(context.Background(), smsInbound("can you walk my dog tomorrow?", ref))
	require.NoError(t, err)
	assert.False(t, out.Candidate)
	assert.Empty(t, records.bookings)
}

func TestProcessCanceledNeverRevived(t *testing.T) {
	records := newFakeRecords()
	o := newTestOrchestrator(records)

	canceled := &store.Booking{
		ID:      uuid.New(),
		Phone:   "+15551234567",
		Status:  store.BookingCanceled,
		Service: store.ServiceOvernight,
		StartAt: time.Date(2025, time.November, 7, 17, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2025, time.November, 9, 17, 0, 0, 0, time.UTC),
	}
	require.NoError(t, records.CreateBooking(context.Background(), canceled))

	out, err := o.Process(context.Background(), smsInbound("Board my dog from Nov 7 to Nov 9?", ref))
	require.NoError(t, err)
	require.Len(t, out.BookingIDs, 1)
	assert.NotEqual(t, canceled.ID, out.BookingIDs[0])
	assert.Equal(t, store.BookingCanceled, records.bookings[canceled.ID].Status)
	assert.Len(t, records.bookings, 2)
}

func TestProcessPatchesPendingDates(t *testing.T) {
	records := newFakeRecords()
	o := newTestOrchestrator(records)

	pending := &store.Booking{
		ID:      uuid.New(),
		Phone:   "+15551234567",
		Status:  store.BookingPending,
		Service: store.ServiceOvernight,
		StartAt: time.Date(2025, time.November, 7, 17, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2025, time.November, 9, 17, 0, 0, 0, time.UTC),
	}
	require.NoError(t, records.CreateBooking(context.Background(), pending))

	out, err := o.Process(context.Background(), smsInbound("actually board him nov 8 to nov 10", ref))
	require.NoError(t, err)
	require.Len(t, out.BookingIDs, 1)
	assert.Equal(t, pending.ID, out.BookingIDs[0])
	assert.Equal(t, 1, out.Updated)
	assert.Len(t, records.bookings, 1)

	got := records.bookings[pending.ID]
	assert.Equal(t, time.Date(2025, time.November, 8, 17, 0, 0, 0, time.UTC), got.StartAt)
	assert.Equal(t, time.Date(2025, time.November, 10, 17, 0, 0, 0, time.UTC), got.EndAt)
}

func TestProcessNeverOverwritesConfirmedDates(t *testing.T) {
	records := newFakeRecords()
	o := newTestOrchestrator(records)

	confirmed := &store.Booking{
		ID:      uuid.New(),
		Phone:   "+15551234567",
		Status:  store.BookingConfirmed,
		Service: store.ServiceUnspecified,
		StartAt: time.Date(2025, time.November, 7, 17, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2025, time.November, 9, 17, 0, 0, 0, time.UTC),
	}
	require.NoError(t, records.CreateBooking(context.Background(), confirmed))

	out, err := o.Process(context.Background(), smsInbound("board him nov 8 to nov 10 instead", ref))
	require.NoError(t, err)
	require.Len(t, out.BookingIDs, 1)
	assert.Equal(t, confirmed.ID, out.BookingIDs[0])

	got := records.bookings[confirmed.ID]
	// Dates untouched; the Unspecified service was filled in.
	assert.Equal(t, confirmed.StartAt, got.StartAt)
	assert.Equal(t, confirmed.EndAt, got.EndAt)
	assert.Equal(t, store.ServiceOvernight, got.Service)
}

func TestProcessOracleDowngrades(t *testing.T) {
	records := newFakeRecords()
	o := NewOrchestrator(OrchestratorConfig{
		Records:         records,
		Oracle:          fixedOracle{verdict: oracle.Classification{Label: "other", Score: 0.9}},
		Location:        time.UTC,
		RequireKeywords: true,
	})

	out, err := o.Process(context.Background(), smsInbound("Board my dog from Nov 7 to Nov 9?", ref))
	require.NoError(t, err)
	assert.False(t, out.Candidate)
	assert.Empty(t, records.bookings)
}

func TestProcessOracleFailureIgnored(t *testing.T) {
	records := newFakeRecords()
	o := NewOrchestrator(OrchestratorConfig{
		Records:         records,
		Oracle:          fixedOracle{err: errors.New("oracle down")},
		Location:        time.UTC,
		RequireKeywords: true,
	})

	out, err := o.Process(context.Background(), smsInbound("Board my dog from Nov 7 to Nov 9?", ref))
	require.NoError(t, err)
	assert.True(t, out.Candidate)
	assert.Len(t, records.bookings, 1)
}

func TestProcessLinksPets(t *testing.T) {
	records := newFakeRecords()
	o := newTestOrchestrator(records)

	out, err := o.Process(context.Background(), smsInbound("Board Vida from nov 7 to nov 9?", ref))
	require.NoError(t, err)
	require.Len(t, out.BookingIDs, 1)
	assert.Equal(t, []string{"Vida"}, records.pets[out.BookingIDs[0]])
}

func TestProcessRejectsMalformedInput(t *testing.T) {
	o := newTestOrchestrator(newFakeRecords())

	_, err := o.Process(context.Background(), Inbound{Platform: store.PlatformSMS, Body: "hi"})
	assert.ErrorIs(t, err, ErrMissingSender)

	_, err = o.Process(context.Background(), Inbound{Platform: store.PlatformSMS, From: "+1555"})
	assert.ErrorIs(t, err, ErrMissingBody)
}

func TestProcessPropagatesStoreFailure(t *testing.T) {
	records := newFakeRecords()
	records.failCreateMessage = errors.New("db down")
	o := newTestOrchestrator(records)

	_, err := o.Process(context.Background(), smsInbound("Board my dog nov 7 to nov 9", ref))
	assert.Error(t, err)
}

func TestProcessRoverUsesRelayHandle(t *testing.T) {
	records := newFakeRecords()
	o := newTestOrchestrator(records)

	out, err := o.Process(context.Background(), Inbound{
		Platform:   store.PlatformRover,
		From:       "relay-abc123",
		Body:       "Board my dog from nov 7 to nov 9?",
		ReceivedAt: ref,
	})
	require.NoError(t, err)
	require.Len(t, out.BookingIDs, 1)

	b := records.bookings[out.BookingIDs[0]]
	assert.Equal(t, "relay-abc123", b.RelayHandle)
	assert.Empty(t, b.Phone)
}

func TestProcessEnrichesFromKnownClient(t *testing.T) {
	records := newFakeRecords()
	clientID := uuid.New()
	records.clients["+15551234567"] = &store.Client{
		ID:    clientID,
		Name:  "Dana R",
		Phone: "+15551234567",
		Email: "dana@example.com",
	}
	o := newTestOrchestrator(records)

	out, err := o.Process(context.Background(), smsInbound("Boarding nov 7 to nov 9 please", ref))
	require.NoError(t, err)
	require.Len(t, out.BookingIDs, 1)

	b := records.bookings[out.BookingIDs[0]]
	require.NotNil(t, b)
	assert.Equal(t, "Dana R", b.ClientName)
	assert.Equal(t, "dana@example.com", b.Email)
	require.NotNil(t, b.ClientID)
	assert.Equal(t, clientID, *b.ClientID)
}
