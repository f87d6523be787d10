package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightpaw/booking-inbox/internal/dateparse"
)

// Platform identifies the ingress channel a message arrived through.
type Platform string

const (
	PlatformSMS   Platform = "sms"
	PlatformRover Platform = "rover"
)

// Direction marks a message as inbound or outbound.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// ServiceType is the classified service a booking is for. Walk is a legacy
// label kept for historical rows; new classifications never produce it.
type ServiceType string

const (
	ServiceOvernight   ServiceType = "Overnight"
	ServiceDaycare     ServiceType = "Daycare"
	ServiceDropIn      ServiceType = "Drop-in"
	ServiceWalk        ServiceType = "Walk"
	ServiceUnspecified ServiceType = "Unspecified"
)

// BookingStatus is the booking lifecycle state.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCanceled  BookingStatus = "CANCELED"
	BookingArchived  BookingStatus = "ARCHIVED"
)

// Message is one inbound or outbound communication unit. EID is globally
// unique; a second row with the same EID is a retransmission and is dropped
// by the store's uniqueness guard.
type Message struct {
	ID         uuid.UUID
	EID        string
	Platform   Platform
	ThreadID   string
	Direction  Direction
	Channel    string
	Body       string
	ReceivedAt time.Time
	Read       bool
	Candidate  bool
	Keywords   []string
	Segments   []dateparse.Segment
	AILabel    *string
	AIScore    *float64
	AIPayload  []byte
	BookingID  *uuid.UUID
	CreatedAt  time.Time
}

// Booking is a prospective or confirmed service engagement.
type Booking struct {
	ID          uuid.UUID
	Channel     string
	ClientName  string
	Phone       string
	RelayHandle string
	Email       string
	Dogs        int
	Service     ServiceType
	StartAt     time.Time
	EndAt       time.Time
	Status      BookingStatus
	Notes       string
	ClientID    *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SenderKey returns the identity used to match a booking to an inbound
// sender: the private phone when known, else the relay handle.
func (b Booking) SenderKey() string {
	if b.Phone != "" {
		return b.Phone
	}
	return b.RelayHandle
}

// Client is a known private phone contact. Trusted gates optional
// auto-confirmation behavior.
type Client struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Email     string
	Trusted   bool
	CreatedAt time.Time
}

// Pet is a best-effort extracted pet record, soft-linked to bookings.
type Pet struct {
	ID        uuid.UUID
	Name      string
	OwnerKey  string
	CreatedAt time.Time
}

// MessagePatch carries the updatable subset of a message row. Nil fields are
// left untouched.
type MessagePatch struct {
	Candidate *bool
	Keywords  []string
	Segments  []dateparse.Segment
	BookingID *uuid.UUID
	AILabel   *string
	AIScore   *float64
	AIPayload []byte
	Read      *bool
}

// BookingPatch carries the updatable subset of a booking row. Nil fields are
// left untouched.
type BookingPatch struct {
	Service *ServiceType
	StartAt *time.Time
	EndAt   *time.Time
	Notes   *string
	Dogs    *int
}
