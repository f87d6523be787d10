package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/brightpaw/booking-inbox/internal/dateparse"
)

const messageColumns = `id, eid, platform, thread_id, direction, channel, body,
	received_at, read, candidate, keywords, segments,
	ai_label, ai_score, ai_payload, booking_id, created_at`

// MessageExists is the cheap EID pre-check. The unique index on eid remains
// the true idempotency guard.
func (s *Store) MessageExists(ctx context.Context, eid string) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx, `SELECT 1 FROM messages WHERE eid = $1`, eid).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: check message eid: %w", err)
	}
	return true, nil
}

// CreateMessage inserts a message, reporting created=false when a row with
// the same EID already exists (a webhook redelivery).
func (s *Store) CreateMessage(ctx context.Context, msg *Message) (bool, error) {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	keywords, err := json.Marshal(orEmptyStrings(msg.Keywords))
	if err != nil {
		return false, fmt.Errorf("store: marshal keywords: %w", err)
	}
	segments, err := json.Marshal(orEmptySegments(msg.Segments))
	if err != nil {
		return false, fmt.Errorf("store: marshal segments: %w", err)
	}

	query := `
		INSERT INTO messages (id, eid, platform, thread_id, direction, channel, body,
			received_at, read, candidate, keywords, segments, ai_label, ai_score, ai_payload, booking_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (eid) DO NOTHING
	`
	ct, err := s.pool.Exec(ctx, query,
		msg.ID, msg.EID, msg.Platform, msg.ThreadID, msg.Direction, msg.Channel, msg.Body,
		msg.ReceivedAt, msg.Read, msg.Candidate, keywords, segments,
		msg.AILabel, msg.AIScore, msg.AIPayload, msg.BookingID)
	if err != nil {
		return false, fmt.Errorf("store: insert message: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

// UpdateMessage applies the non-nil fields of the patch.
func (s *Store) UpdateMessage(ctx context.Context, id uuid.UUID, patch MessagePatch) error {
	var sets []string
	var args []any

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Candidate != nil {
		add("candidate", *patch.Candidate)
	}
	if patch.Keywords != nil {
		data, err := json.Marshal(patch.Keywords)
		if err != nil {
			return fmt.Errorf("store: marshal keywords: %w", err)
		}
		add("keywords", data)
	}
	if patch.Segments != nil {
		data, err := json.Marshal(patch.Segments)
		if err != nil {
			return fmt.Errorf("store: marshal segments: %w", err)
		}
		add("segments", data)
	}
	if patch.BookingID != nil {
		add("booking_id", *patch.BookingID)
	}
	if patch.AILabel != nil {
		add("ai_label", *patch.AILabel)
	}
	if patch.AIScore != nil {
		add("ai_score", *patch.AIScore)
	}
	if patch.AIPayload != nil {
		add("ai_payload", patch.AIPayload)
	}
	if patch.Read != nil {
		add("read", *patch.Read)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE messages SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))
	ct, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("store: update message: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// GetMessage loads one message by id.
func (s *Store) GetMessage(ctx context.Context, id uuid.UUID) (*Message, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	msg, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get message: %w", err)
	}
	return msg, nil
}

// ListInboundSince returns inbound messages received at or after since,
// oldest first, optionally limited to those with no booking link.
func (s *Store) ListInboundSince(ctx context.Context, since time.Time, onlyUnlinked bool) ([]Message, error) {
	query := `SELECT ` + messageColumns + `
		FROM messages
		WHERE direction = 'in' AND received_at >= $1`
	if onlyUnlinked {
		query += ` AND booking_id IS NULL`
	}
	query += ` ORDER BY received_at`

	rows, err := s.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("store: list inbound: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan message: %w", err)
		}
		out = append(out, *msg)
	}
	return out, rows.Err()
}

// MarkMessageRead toggles the read flag.
func (s *Store) MarkMessageRead(ctx context.Context, id uuid.UUID, read bool) error {
	return s.UpdateMessage(ctx, id, MessagePatch{Read: &read})
}

// ClearMessages is the administrative bulk delete; the only path that
// removes message rows.
func (s *Store) ClearMessages(ctx context.Context) (int64, error) {
	ct, err := s.pool.Exec(ctx, `DELETE FROM messages`)
	if err != nil {
		return 0, fmt.Errorf("store: clear messages: %w", err)
	}
	return ct.RowsAffected(), nil
}

func scanMessage(row pgx.Row) (*Message, error) {
	var msg Message
	var keywords, segments []byte
	err := row.Scan(&msg.ID, &msg.EID, &msg.Platform, &msg.ThreadID, &msg.Direction,
		&msg.Channel, &msg.Body, &msg.ReceivedAt, &msg.Read, &msg.Candidate,
		&keywords, &segments, &msg.AILabel, &msg.AIScore, &msg.AIPayload,
		&msg.BookingID, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &msg.Keywords); err != nil {
			return nil, fmt.Errorf("store: decode keywords: %w", err)
		}
	}
	if len(segments) > 0 {
		if err := json.Unmarshal(segments, &msg.Segments); err != nil {
			return nil, fmt.Errorf("store: decode segments: %w", err)
		}
	}
	return &msg, nil
}

func orEmptyStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptySegments(s []dateparse.Segment) []dateparse.Segment {
	if s == nil {
		return []dateparse.Segment{}
	}
	return s
}
