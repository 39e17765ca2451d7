package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/teamslict/hotel/internal/domain"
)

const dateLayout = "2006-01-02"

// RateQuote is a rate priced for the whole stay. Total is exact decimal
// arithmetic rendered with two decimals (147 x 3 nights = "441.00").
type RateQuote struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	StrikePrice float64  `json:"strikePrice"`
	Perks       []string `json:"perks"`
	IsMember    bool     `json:"isMember"`
	Nights      int      `json:"nights"`
	Total       string   `json:"total"`
}

// RoomOffer is one room with its rates quoted for the requested stay.
type RoomOffer struct {
	Room   domain.Room `json:"room"`
	Quotes []RateQuote `json:"quotes"`
}

// RoomsResult is what the catalog hands the view layer. FixtureBacked marks
// responses served from canned inventory under the explicit fallback flag.
type RoomsResult struct {
	Offers        []RoomOffer `json:"offers"`
	Nights        int         `json:"nights"`
	FixtureBacked bool        `json:"fixtureBacked,omitempty"`
}

// CatalogService fetches tenant-scoped room inventory and prices stays.
// fallback is nil unless the fixture fallback flag is set; it applies to
// catalog reads only.
type CatalogService struct {
	src      domain.BookingSource
	fallback domain.BookingSource
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCatalogService(src, fallback domain.BookingSource, cache domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{src: src, fallback: fallback, cache: cache, cacheTTL: ttl}
}

func (s *CatalogService) Rooms(ctx context.Context, q domain.StayQuery) (RoomsResult, error) {
	key := fmt.Sprintf("rooms:%s:%s:%s:%d", q.TenantID, q.CheckIn, q.CheckOut, q.Guests)
	var out RoomsResult
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	nights := Nights(q.CheckIn, q.CheckOut)

	rooms, err := s.src.ListRooms(ctx, q)
	if err != nil {
		if s.fallback == nil || !transient(err) {
			return RoomsResult{}, err
		}
		log.Warn().Err(err).Str("tenant", q.TenantID).Msg("live rooms fetch failed, serving fixture inventory")
		rooms, err = s.fallback.ListRooms(ctx, q)
		if err != nil {
			return RoomsResult{}, err
		}
		out.FixtureBacked = true
	}

	out.Nights = nights
	out.Offers = make([]RoomOffer, 0, len(rooms))
	for _, r := range rooms {
		offer := RoomOffer{Room: r, Quotes: make([]RateQuote, 0, len(r.Rates))}
		for _, rt := range r.Rates {
			offer.Quotes = append(offer.Quotes, RateQuote{
				Name:        rt.Name,
				Price:       rt.Price,
				StrikePrice: rt.StrikePrice,
				Perks:       rt.Perks,
				IsMember:    rt.IsMember,
				Nights:      nights,
				Total:       StayTotal(rt.Price, nights),
			})
		}
		offer.Room.Rates = nil // quoted above; avoid shipping the raw rates twice
		out.Offers = append(out.Offers, offer)
	}

	// fixture-backed results are not cached; the next request retries live
	if !out.FixtureBacked {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// Nights counts whole nights between two YYYY-MM-DD dates; anything
// unparseable or non-positive counts as one night.
func Nights(checkIn, checkOut string) int {
	in, err1 := time.Parse(dateLayout, checkIn)
	out, err2 := time.Parse(dateLayout, checkOut)
	if err1 != nil || err2 != nil {
		return 1
	}
	n := int(out.Sub(in).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// StayTotal multiplies a nightly price by the night count without float
// drift.
func StayTotal(price float64, nights int) string {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(nights))).StringFixed(2)
}

// transient reports whether err looks network/availability shaped rather
// than a definitive upstream answer.
func transient(err error) bool {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
