package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// FindClientByPhone looks up a known private contact. Returns nil when the
// number is unknown (relay handles never match).
func (s *Store) FindClientByPhone(ctx context.Context, phone string) (*Client, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, phone, email, trusted, created_at FROM clients WHERE phone = $1`, phone)
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Trusted, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: find client: %w", err)
	}
	return &c, nil
}
