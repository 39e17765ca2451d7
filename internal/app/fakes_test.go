package app_test

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/teamslict/hotel/internal/domain"
)

// ---- fakes shared by the app tests ----

type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, _ := json.Marshal(v)
	c.store[key] = b
	return nil
}

func (c *fakeCache) SetNX(ctx context.Context, key string, v any, ttlSec int) (bool, error) {
	if _, ok := c.store[key]; ok {
		return false, nil
	}
	return true, c.Set(ctx, key, v, ttlSec)
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

var errNetwork = errors.New("connection refused")

// fakeSource counts calls and can be told to fail.
type fakeSource struct {
	tenant      domain.Tenant
	tenantErr   error
	rooms       []domain.Room
	roomsErr    error
	branches    []domain.Branch
	conf        domain.BookingConfirmation
	bookErr     error
	configCalls int
	roomsCalls  int
	bookCalls   int
}

func (f *fakeSource) GetTenantConfig(ctx context.Context, subdomain string) (domain.Tenant, error) {
	f.configCalls++
	if f.tenantErr != nil {
		return domain.Tenant{}, f.tenantErr
	}
	return f.tenant, nil
}

func (f *fakeSource) ListRooms(ctx context.Context, q domain.StayQuery) ([]domain.Room, error) {
	f.roomsCalls++
	if f.roomsErr != nil {
		return nil, f.roomsErr
	}
	return f.rooms, nil
}

func (f *fakeSource) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	return domain.Room{}, domain.ErrNotFound
}

func (f *fakeSource) CreateRoom(ctx context.Context, r domain.Room) (domain.Room, error) {
	return r, nil
}

func (f *fakeSource) UpdateRoom(ctx context.Context, id string, p domain.RoomPatch) error {
	return nil
}

func (f *fakeSource) DeleteRoom(ctx context.Context, id string) error { return nil }

func (f *fakeSource) CreateBooking(ctx context.Context, br domain.BookingRequest) (domain.BookingConfirmation, error) {
	f.bookCalls++
	if f.bookErr != nil {
		return domain.BookingConfirmation{}, f.bookErr
	}
	return f.conf, nil
}

func (f *fakeSource) ListBranches(ctx context.Context, subdomain string) ([]domain.Branch, error) {
	return f.branches, nil
}

type fakeRepo struct {
	bookings []domain.BookingLogEntry
	misses   []string
}

func (r *fakeRepo) LogBooking(ctx context.Context, br domain.BookingRequest, out domain.BookingOutcome) error {
	e := domain.BookingLogEntry{
		TenantID: br.TenantID, RoomID: br.RoomID, RateName: br.RateName,
		GuestEmail: br.GuestEmail, CheckIn: br.CheckIn, CheckOut: br.CheckOut,
		Guests: br.Guests, State: out.State,
	}
	r.bookings = append(r.bookings, e)
	return nil
}

func (r *fakeRepo) LogResolveMiss(ctx context.Context, subdomain string, status int, reason string) error {
	r.misses = append(r.misses, subdomain)
	return nil
}

func (r *fakeRepo) ListBookingLog(ctx context.Context, tenantID string, limit int) ([]domain.BookingLogEntry, error) {
	return r.bookings, nil
}
