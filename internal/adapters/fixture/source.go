// Package fixture is the canned BookingSource used for demos and tests.
// Inventory mirrors the sample data the product team ships with the site.
package fixture

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/teamslict/hotel/internal/domain"
)

type Source struct {
	mu       sync.Mutex
	tenants  map[string]domain.Tenant
	branches map[string][]domain.Branch
	rooms    []domain.Room
	booked   map[string]bool // roomId|checkIn|checkOut
	nextNum  int
}

func New() *Source {
	return &Source{
		tenants: map[string]domain.Tenant{
			"ceylon-paradise": {
				TenantID: "ceylon-paradise",
				Config: domain.TenantConfig{
					HotelName:    "Ceylon Paradise",
					Currency:     "LKR",
					PrimaryColor: "#004e64",
					HeroTitle:    "Welcome to {hotelName}",
					ContactEmail: "stay@ceylon-paradise.lk",
					ContactPhone: "+94 11 234 5678",
					Address:      "Galle Road, Colombo",
				},
			},
		},
		branches: map[string][]domain.Branch{
			"ceylon-paradise": {
				{ID: "br-colombo", Name: "Ceylon Paradise Colombo", City: "Colombo", Country: "LK", IsDefault: true, RoomCount: 3},
				{ID: "br-kandy", Name: "Ceylon Paradise Kandy", City: "Kandy", Country: "LK", RoomCount: 2},
			},
		},
		rooms:   defaultRooms(),
		booked:  map[string]bool{},
		nextNum: 1,
	}
}

func defaultRooms() []domain.Room {
	return []domain.Room{
		{
			ID: "1", RoomNumber: "101", RoomType: "Deluxe Suite", BasePrice: 150.00,
			MaxOccupancy: 2,
			Amenities:    []string{"Wifi", "TV", "AC", "Ocean View"},
			Images:       []string{"images/img_1.jpg"},
			Description:  "A beautiful view of the sea with modern amenities.",
			Rates: []domain.Rate{
				{Name: "Member Rate - Room Only", Price: 128, StrikePrice: 150,
					Perks: []string{"Free cancellation until 6PM", "Preferred Rate for Members"}, IsMember: true},
				{Name: "Flexible Rate", Price: 147, StrikePrice: 175,
					Perks: []string{"Free cancellation until 6PM"}},
			},
		},
		{
			ID: "2", RoomNumber: "201", RoomType: "Family Room", BasePrice: 300.00,
			MaxOccupancy: 4,
			Amenities:    []string{"Wifi", "Kitchen", "Pool Access"},
			Images:       []string{"images/img_2.jpg"},
			Description:  "Spacious comfort for the whole family.",
			Rates: []domain.Rate{
				{Name: "Family Member Special", Price: 255, StrikePrice: 300,
					Perks: []string{"Kids eat free", "Late Check-out"}, IsMember: true},
				{Name: "Standard Family", Price: 285, StrikePrice: 320,
					Perks: []string{"Breakfast included"}},
			},
		},
		{
			ID: "3", RoomNumber: "305", RoomType: "Presidential Suite", BasePrice: 500.00,
			MaxOccupancy: 2,
			Amenities:    []string{"Jacuzzi", "Private Butler", "Panoramic View"},
			Images:       []string{"images/img_3.jpg"},
			Description:  "The ultimate in luxury and privacy.",
			Rates: []domain.Rate{
				{Name: "VIP Member Exclusive", Price: 450, StrikePrice: 500,
					Perks: []string{"Private Butler", "Lounge Access", "Champagne on arrival"}, IsMember: true},
			},
		},
	}
}

func (s *Source) GetTenantConfig(_ context.Context, subdomain string) (domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[subdomain]
	if !ok {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return t, nil
}

func (s *Source) ListRooms(_ context.Context, q domain.StayQuery) ([]domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if q.Guests > 0 && r.MaxOccupancy < q.Guests {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Source) GetRoom(_ context.Context, id string) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Room{}, domain.ErrNotFound
}

func (s *Source) CreateRoom(_ context.Context, r domain.Room) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = strconv.Itoa(len(s.rooms) + 1)
	}
	s.rooms = append(s.rooms, r)
	return r, nil
}

func (s *Source) UpdateRoom(_ context.Context, id string, p domain.RoomPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].ID != id {
			continue
		}
		if p.BasePrice != nil {
			s.rooms[i].BasePrice = *p.BasePrice
		}
		if p.Description != nil {
			s.rooms[i].Description = *p.Description
		}
		if p.MaxOccupancy != nil {
			s.rooms[i].MaxOccupancy = *p.MaxOccupancy
		}
		return nil
	}
	return domain.ErrNotFound
}

func (s *Source) DeleteRoom(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].ID == id {
			s.rooms = append(s.rooms[:i], s.rooms[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// CreateBooking confirms the first request for a room/stay pair and answers
// every identical repeat with ErrConflict, matching the ERP's 409 behavior.
func (s *Source) CreateBooking(_ context.Context, br domain.BookingRequest) (domain.BookingConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := br.RoomID + "|" + br.CheckIn + "|" + br.CheckOut
	if s.booked[key] {
		return domain.BookingConfirmation{}, domain.ErrConflict
	}
	s.booked[key] = true
	num := fmt.Sprintf("BK-%d", s.nextNum)
	s.nextNum++
	return domain.BookingConfirmation{
		ID:            uuid.NewString(),
		BookingNumber: num,
		Status:        "CONFIRMED",
		TotalAmount:   br.Price,
	}, nil
}

func (s *Source) ListBranches(_ context.Context, subdomain string) ([]domain.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.branches[subdomain], nil
}
