package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// LinkPetToBooking upserts a pet by owner and name, then links it to the
// booking. Both statements tolerate replays.
func (s *Store) LinkPetToBooking(ctx context.Context, bookingID uuid.UUID, ownerKey, name string) error {
	var petID uuid.UUID
	query := `
		INSERT INTO pets (id, owner_key, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_key, lower(name)) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`
	if err := s.pool.QueryRow(ctx, query, uuid.New(), ownerKey, name).Scan(&petID); err != nil {
		return fmt.Errorf("store: upsert pet: %w", err)
	}

	link := `
		INSERT INTO booking_pets (booking_id, pet_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := s.pool.Exec(ctx, link, bookingID, petID); err != nil {
		return fmt.Errorf("store: link pet: %w", err)
	}
	return nil
}
