package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// EnqueueEvent writes an outbox row for out-of-band delivery.
func (s *Store) EnqueueEvent(ctx context.Context, eventType string, payload []byte) error {
	query := `INSERT INTO outbox (id, type, payload) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, uuid.New(), eventType, payload); err != nil {
		return fmt.Errorf("store: enqueue event: %w", err)
	}
	return nil
}
