package store

import "errors"

var (
	ErrMessageNotFound = errors.New("store: message not found")
	ErrBookingNotFound = errors.New("store: booking not found")
	ErrInvalidStatus   = errors.New("store: invalid status transition")
)
