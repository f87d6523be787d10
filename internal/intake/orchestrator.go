package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brightpaw/booking-inbox/internal/dateparse"
	"github.com/brightpaw/booking-inbox/internal/observability/metrics"
	"github.com/brightpaw/booking-inbox/internal/oracle"
	"github.com/brightpaw/booking-inbox/internal/store"
	"github.com/brightpaw/booking-inbox/pkg/logging"
)

// Records is the persistence surface the orchestrator mutates. The store
// must enforce a uniqueness constraint on Message.EID; the orchestrator's
// pre-check is an optimization, not the guard.
type Records interface {
	MessageExists(ctx context.Context, eid string) (bool, error)
	CreateMessage(ctx context.Context, msg *store.Message) (created bool, err error)
	UpdateMessage(ctx context.Context, id uuid.UUID, patch store.MessagePatch) error
	FindRecentBookingForSender(ctx context.Context, senderKey string, since time.Time, around time.Time, window time.Duration) (*store.Booking, error)
	CreateBooking(ctx context.Context, b *store.Booking) error
	UpdateBooking(ctx context.Context, id uuid.UUID, patch store.BookingPatch) error
	LinkPetToBooking(ctx context.Context, bookingID uuid.UUID, ownerKey, name string) error
	FindClientByPhone(ctx context.Context, phone string) (*store.Client, error)
	EnqueueEvent(ctx context.Context, eventType string, payload []byte) error
}

// Outcome is the structured result returned to the webhook caller.
type Outcome struct {
	Deduped    bool                `json:"deduped"`
	Candidate  bool                `json:"candidate"`
	MessageID  uuid.UUID           `json:"messageId,omitempty"`
	BookingIDs []uuid.UUID         `json:"bookingIds,omitempty"`
	Created    int                 `json:"createdBookings"`
	Updated    int                 `json:"updatedBookings"`
	Service    store.ServiceType   `json:"serviceType,omitempty"`
	Keywords   []string            `json:"keywords,omitempty"`
	Segments   []dateparse.Segment `json:"segments,omitempty"`
}

// Event types emitted through the outbox.
const (
	EventIntakeProcessed = "intake.processed.v1"
	EventIntakeSkipped   = "intake.skipped.v1"
)

// OrchestratorConfig wires collaborators and reconciliation policy.
type OrchestratorConfig struct {
	Records Records
	Oracle  oracle.Oracle // optional, advisory only
	Metrics *metrics.IntakeMetrics
	Logger  *logging.Logger

	Location          *time.Location
	LookbackDays      int
	SegmentWindowDays int
	DateTolerance     time.Duration
	BodyMaxLen        int
	RequireKeywords   bool
	OracleMinScore    float64
}

// Orchestrator is the end-to-end intake decision pipeline, invoked once per
// inbound delivery.
type Orchestrator struct {
	cfg      OrchestratorConfig
	resolver *dateparse.Resolver
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 30
	}
	if cfg.SegmentWindowDays <= 0 {
		cfg.SegmentWindowDays = 45
	}
	if cfg.DateTolerance <= 0 {
		cfg.DateTolerance = time.Minute
	}
	if cfg.BodyMaxLen <= 0 {
		cfg.BodyMaxLen = 2000
	}
	if cfg.OracleMinScore <= 0 {
		cfg.OracleMinScore = 0.5
	}
	return &Orchestrator{
		cfg:      cfg,
		resolver: dateparse.NewResolver(cfg.Location),
	}
}

// Process runs the intake pipeline for one inbound delivery. Only record
// store failures surface as errors; everything else degrades to a skipped or
// deduped outcome.
func (o *Orchestrator) Process(ctx context.Context, in Inbound) (Outcome, error) {
	if strings.TrimSpace(in.From) == "" {
		return Outcome{}, ErrMissingSender
	}
	if strings.TrimSpace(in.Body) == "" {
		return Outcome{}, ErrMissingBody
	}
	if in.ThreadID == "" {
		in.ThreadID = in.From
	}
	if in.ReceivedAt.IsZero() {
		in.ReceivedAt = time.Now().In(o.cfg.Location)
	}
	if len(in.Body) > o.cfg.BodyMaxLen {
		in.Body = in.Body[:o.cfg.BodyMaxLen]
	}

	eid := BuildEID(in)
	exists, err := o.cfg.Records.MessageExists(ctx, eid)
	if err != nil {
		return Outcome{}, fmt.Errorf("intake: eid lookup: %w", err)
	}
	if exists {
		o.cfg.Metrics.ObserveInbound(string(in.Platform), "deduped")
		return Outcome{Deduped: true}, nil
	}

	keywords := FindKeywords(in.Body)
	segments := o.resolver.ParseSegments(in.Body, in.ReceivedAt)
	service := ClassifyService(in.Body, segments)
	o.cfg.Metrics.ObserveSegments(len(segments))

	candidate := len(segments) > 0 && !MentionsOnlyLegacyWalk(in.Body)
	if o.cfg.RequireKeywords && len(keywords) == 0 {
		candidate = false
	}

	var aiLabel *string
	var aiScore *float64
	var aiPayload []byte
	if candidate && o.cfg.Oracle != nil {
		verdict, oerr := o.cfg.Oracle.Classify(ctx, in.Body)
		if oerr != nil {
			o.cfg.Logger.Warn("oracle classification failed", "error", oerr)
		} else {
			aiLabel, aiScore, aiPayload = &verdict.Label, &verdict.Score, verdict.Payload
			if !verdict.IsBooking(o.cfg.OracleMinScore) {
				// Advisory narrowing only: the oracle can veto a borderline
				// candidate but never add dates the resolver did not find.
				candidate = false
			}
		}
	}

	msg := &store.Message{
		ID:         uuid.New(),
		EID:        eid,
		Platform:   in.Platform,
		ThreadID:   in.ThreadID,
		Direction:  store.DirectionIn,
		Channel:    in.Channel,
		Body:       in.Body,
		ReceivedAt: in.ReceivedAt,
		Candidate:  candidate,
		Keywords:   keywords,
		Segments:   segments,
		AILabel:    aiLabel,
		AIScore:    aiScore,
		AIPayload:  aiPayload,
	}
	created, err := o.cfg.Records.CreateMessage(ctx, msg)
	if err != nil {
		return Outcome{}, fmt.Errorf("intake: persist message: %w", err)
	}
	if !created {
		// A concurrent redelivery won the insert race; the unique EID index
		// is the source of truth.
		o.cfg.Metrics.ObserveInbound(string(in.Platform), "deduped")
		return Outcome{Deduped: true}, nil
	}

	out := Outcome{
		Candidate: candidate,
		MessageID: msg.ID,
		Service:   service,
		Keywords:  keywords,
		Segments:  segments,
	}

	if !candidate {
		o.cfg.Metrics.ObserveInbound(string(in.Platform), "skipped")
		o.emitEvent(ctx, EventIntakeSkipped, msg, nil)
		return out, nil
	}

	for _, seg := range segments {
		bookingID, createdBooking, berr := o.resolveSegment(ctx, in, seg, service)
		if berr != nil {
			return Outcome{}, berr
		}
		out.BookingIDs = append(out.BookingIDs, bookingID)
		if createdBooking {
			out.Created++
			o.cfg.Metrics.ObserveBooking("created")
		} else {
			out.Updated++
			o.cfg.Metrics.ObserveBooking("patched")
		}
	}

	if len(out.BookingIDs) > 0 {
		first := out.BookingIDs[0]
		if err := o.cfg.Records.UpdateMessage(ctx, msg.ID, store.MessagePatch{BookingID: &first}); err != nil {
			return Outcome{}, fmt.Errorf("intake: link message: %w", err)
		}
		o.linkPets(ctx, in, first)
	}

	o.cfg.Metrics.ObserveInbound(string(in.Platform), "booked")
	o.emitEvent(ctx, EventIntakeProcessed, msg, out.BookingIDs)
	return out, nil
}

// resolveSegment finds or creates the booking for one extracted segment,
// applying the merge policy: CANCELED threads are never revived, PENDING
// dates refresh only past the tolerance, CONFIRMED dates are never
// overwritten.
func (o *Orchestrator) resolveSegment(ctx context.Context, in Inbound, seg dateparse.Segment, service store.ServiceType) (uuid.UUID, bool, error) {
	since := in.ReceivedAt.AddDate(0, 0, -o.cfg.LookbackDays)
	window := time.Duration(o.cfg.SegmentWindowDays) * 24 * time.Hour

	existing, err := o.cfg.Records.FindRecentBookingForSender(ctx, in.From, since, seg.StartAt, window)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("intake: booking lookup: %w", err)
	}

	if existing != nil && existing.Status != store.BookingCanceled && existing.Status != store.BookingArchived {
		var patch store.BookingPatch
		if existing.Service == store.ServiceUnspecified && service != store.ServiceUnspecified {
			patch.Service = &service
		}
		if existing.Status == store.BookingPending && o.datesDiffer(existing, seg) {
			patch.StartAt, patch.EndAt = &seg.StartAt, &seg.EndAt
		}
		if patch != (store.BookingPatch{}) {
			if err := o.cfg.Records.UpdateBooking(ctx, existing.ID, patch); err != nil {
				return uuid.Nil, false, fmt.Errorf("intake: patch booking: %w", err)
			}
		}
		return existing.ID, false, nil
	}

	b := &store.Booking{
		ID:         uuid.New(),
		Channel:    in.Channel,
		ClientName: in.From,
		Dogs:       1,
		Service:    service,
		StartAt:    seg.StartAt,
		EndAt:      seg.EndAt,
		Status:     store.BookingPending,
	}
	if in.Platform == store.PlatformRover {
		b.RelayHandle = in.From
	} else {
		b.Phone = in.From
		// Known contacts enrich the booking; lookup failure is soft.
		if client, cerr := o.cfg.Records.FindClientByPhone(ctx, in.From); cerr != nil {
			o.cfg.Logger.Warn("client lookup failed", "error", cerr)
		} else if client != nil {
			b.ClientName = client.Name
			b.Email = client.Email
			b.ClientID = &client.ID
		}
	}
	if err := o.cfg.Records.CreateBooking(ctx, b); err != nil {
		return uuid.Nil, false, fmt.Errorf("intake: create booking: %w", err)
	}
	return b.ID, true, nil
}

func (o *Orchestrator) datesDiffer(b *store.Booking, seg dateparse.Segment) bool {
	return absDuration(b.StartAt.Sub(seg.StartAt)) > o.cfg.DateTolerance ||
		absDuration(b.EndAt.Sub(seg.EndAt)) > o.cfg.DateTolerance
}

// linkPets is a soft side effect: extraction or store failures are logged
// and never abort intake.
func (o *Orchestrator) linkPets(ctx context.Context, in Inbound, bookingID uuid.UUID) {
	for _, name := range ExtractPetNames(in.Body) {
		if err := o.cfg.Records.LinkPetToBooking(ctx, bookingID, in.From, name); err != nil {
			o.cfg.Logger.Warn("pet link failed", "booking_id", bookingID, "pet", name, "error", err)
		}
	}
}

// emitEvent writes an outbox row; delivery happens out of band, so a failure
// here is logged rather than failing the intake write.
func (o *Orchestrator) emitEvent(ctx context.Context, eventType string, msg *store.Message, bookingIDs []uuid.UUID) {
	payload, err := json.Marshal(map[string]any{
		"messageId":  msg.ID,
		"platform":   msg.Platform,
		"from":       msg.ThreadID,
		"candidate":  msg.Candidate,
		"bookingIds": bookingIDs,
	})
	if err != nil {
		o.cfg.Logger.Error("event payload marshal failed", "error", err)
		return
	}
	if err := o.cfg.Records.EnqueueEvent(ctx, eventType, payload); err != nil {
		o.cfg.Logger.Warn("event enqueue failed", "type", eventType, "error", err)
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
