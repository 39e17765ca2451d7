package domain

import "context"

// BookingSource is the single data-source abstraction in front of the ERP.
// The live implementation talks HTTP; the fixture implementation serves
// canned inventory. Selected once at startup.
type BookingSource interface {
	GetTenantConfig(ctx context.Context, subdomain string) (Tenant, error)
	ListRooms(ctx context.Context, q StayQuery) ([]Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	CreateRoom(ctx context.Context, r Room) (Room, error)
	UpdateRoom(ctx context.Context, id string, p RoomPatch) error
	DeleteRoom(ctx context.Context, id string) error
	CreateBooking(ctx context.Context, br BookingRequest) (BookingConfirmation, error)
	ListBranches(ctx context.Context, subdomain string) ([]Branch, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	// SetNX stores v only if key is absent; reports whether it was stored.
	SetNX(ctx context.Context, key string, v any, ttlSec int) (bool, error)
	Del(ctx context.Context, key string) error
}

// FrontDeskRepository records what the front service did, for operator
// triage. Writes are best-effort; the service stays up with storage down.
type FrontDeskRepository interface {
	LogBooking(ctx context.Context, br BookingRequest, out BookingOutcome) error
	LogResolveMiss(ctx context.Context, subdomain string, status int, reason string) error
	ListBookingLog(ctx context.Context, tenantID string, limit int) ([]BookingLogEntry, error)
}

// BookingLogEntry is one recorded submission attempt.
type BookingLogEntry struct {
	ID            int64
	TenantID      string
	RoomID        string
	RateName      string
	GuestEmail    string
	CheckIn       string
	CheckOut      string
	Guests        int
	State         BookingState
	BookingNumber *string
	TotalAmount   *float64
	Reason        *string
}
