package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/brightpaw/booking-inbox/internal/dateparse"
	"github.com/brightpaw/booking-inbox/internal/store"
	"github.com/brightpaw/booking-inbox/pkg/logging"
)

// reparseLockKey guards against overlapping reconciliation runs.
const reparseLockKey = "booking-inbox:reparse:lock"

// HistoryStore extends Records with the listing the batch job scans.
type HistoryStore interface {
	Records
	ListInboundSince(ctx context.Context, since time.Time, onlyUnlinked bool) ([]store.Message, error)
}

// ReparseOptions bound one reconciliation run.
type ReparseOptions struct {
	LookbackDays int  `json:"lookbackDays"`
	OnlyUnlinked bool `json:"onlyUnlinked"`
}

// ReparseSummary reports what a run touched, for operator visibility.
type ReparseSummary struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Created int `json:"created"`
	Linked  int `json:"linked"`
	Skipped int `json:"skipped"`
}

// Reparser re-runs extraction over historical inbound messages to backfill
// records after the resolver's rules improve. Each message's original
// received timestamp is the reference instant, so relative expressions
// resolve as they did on arrival.
type Reparser struct {
	records      HistoryStore
	orchestrator *Orchestrator
	locker       Locker
	logger       *logging.Logger
	lockTTL      time.Duration
}

func NewReparser(records HistoryStore, orch *Orchestrator, locker Locker, logger *logging.Logger, lockTTL time.Duration) *Reparser {
	if logger == nil {
		logger = logging.Default()
	}
	if lockTTL <= 0 {
		lockTTL = 15 * time.Minute
	}
	return &Reparser{records: records, orchestrator: orch, locker: locker, logger: logger, lockTTL: lockTTL}
}

// Run executes one reconciliation pass. Safe to re-run: messages whose
// extraction and linkage are already correct are counted as skipped and left
// untouched.
func (r *Reparser) Run(ctx context.Context, opts ReparseOptions) (ReparseSummary, error) {
	var summary ReparseSummary

	if r.locker != nil {
		release, ok, err := r.locker.Acquire(ctx, reparseLockKey, r.lockTTL)
		if err != nil {
			return summary, err
		}
		if !ok {
			return summary, ErrReparseRunning
		}
		defer release()
	}

	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 90
	}
	since := time.Now().In(r.orchestrator.cfg.Location).AddDate(0, 0, -opts.LookbackDays)

	messages, err := r.records.ListInboundSince(ctx, since, opts.OnlyUnlinked)
	if err != nil {
		return summary, fmt.Errorf("intake: list messages: %w", err)
	}

	for _, msg := range messages {
		summary.Scanned++
		if err := r.reprocess(ctx, msg, &summary); err != nil {
			return summary, err
		}
	}

	r.logger.Info("reparse complete",
		"scanned", summary.Scanned,
		"updated", summary.Updated,
		"created", summary.Created,
		"linked", summary.Linked,
		"skipped", summary.Skipped)
	return summary, nil
}

func (r *Reparser) reprocess(ctx context.Context, msg store.Message, summary *ReparseSummary) error {
	o := r.orchestrator

	keywords := FindKeywords(msg.Body)
	segments := o.resolver.ParseSegments(msg.Body, msg.ReceivedAt)
	service := ClassifyService(msg.Body, segments)

	candidate := len(segments) > 0 && !MentionsOnlyLegacyWalk(msg.Body)
	if o.cfg.RequireKeywords && len(keywords) == 0 {
		candidate = false
	}

	changed := msg.Candidate != candidate ||
		!stringsEqual(msg.Keywords, keywords) ||
		!segmentsEqual(msg.Segments, segments)

	if changed {
		// Shrink-to-empty must be persisted too: a nil slice in the patch
		// means "leave untouched", which would keep stale extraction around.
		patch := store.MessagePatch{
			Candidate: &candidate,
			Keywords:  notNilStrings(keywords),
			Segments:  notNilSegments(segments),
		}
		if err := r.records.UpdateMessage(ctx, msg.ID, patch); err != nil {
			return fmt.Errorf("intake: reparse update: %w", err)
		}
		summary.Updated++
		o.cfg.Metrics.ObserveReparse("updated")
	}

	if !candidate || msg.BookingID != nil {
		if !changed {
			summary.Skipped++
			o.cfg.Metrics.ObserveReparse("skipped")
		}
		return nil
	}

	in := Inbound{
		Platform:   msg.Platform,
		From:       msg.ThreadID,
		ThreadID:   msg.ThreadID,
		Channel:    msg.Channel,
		Body:       msg.Body,
		ReceivedAt: msg.ReceivedAt,
	}
	var firstBooking *store.Booking
	for _, seg := range segments {
		id, created, err := o.resolveSegment(ctx, in, seg, service)
		if err != nil {
			return err
		}
		if created {
			summary.Created++
		}
		if firstBooking == nil {
			firstBooking = &store.Booking{ID: id}
		}
	}
	if firstBooking != nil {
		if err := r.records.UpdateMessage(ctx, msg.ID, store.MessagePatch{BookingID: &firstBooking.ID}); err != nil {
			return fmt.Errorf("intake: reparse link: %w", err)
		}
		summary.Linked++
		o.cfg.Metrics.ObserveReparse("linked")
	}
	return nil
}

func notNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func notNilSegments(s []dateparse.Segment) []dateparse.Segment {
	if s == nil {
		return []dateparse.Segment{}
	}
	return s
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func segmentsEqual(a, b []dateparse.Segment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].StartAt.Equal(b[i].StartAt) || !a[i].EndAt.Equal(b[i].EndAt) {
			return false
		}
	}
	return true
}
