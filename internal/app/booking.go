package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/teamslict/hotel/internal/adapters/observability"
	"github.com/teamslict/hotel/internal/domain"
)

// ValidationError blocks a submission before any network call.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// BookingService validates and submits booking requests. One submission
// token is issued per rendered form and claimed atomically on submit, so a
// double-click or a stale tab cannot post the same form twice.
type BookingService struct {
	src      domain.BookingSource
	cache    domain.Cache
	repo     domain.FrontDeskRepository
	validate *validator.Validate
	tokenTTL time.Duration
}

func NewBookingService(src domain.BookingSource, cache domain.Cache, repo domain.FrontDeskRepository, tokenTTL time.Duration) *BookingService {
	return &BookingService{
		src:      src,
		cache:    cache,
		repo:     repo,
		validate: validator.New(),
		tokenTTL: tokenTTL,
	}
}

// NewFormToken issues the single-use token embedded in a booking form.
func (s *BookingService) NewFormToken() string { return uuid.NewString() }

// ValidateRequest enforces the client-side preconditions: guest fields
// present and well-formed, dates parseable, check-out strictly after
// check-in.
func (s *BookingService) ValidateRequest(br domain.BookingRequest) error {
	if err := s.validate.Struct(br); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return &ValidationError{Field: f.Field(), Msg: "failed " + f.Tag() + " check"}
		}
		return &ValidationError{Field: "request", Msg: err.Error()}
	}

	in, err := time.Parse(dateLayout, br.CheckIn)
	if err != nil {
		return &ValidationError{Field: "checkIn", Msg: "must be YYYY-MM-DD"}
	}
	out, err := time.Parse(dateLayout, br.CheckOut)
	if err != nil {
		return &ValidationError{Field: "checkOut", Msg: "must be YYYY-MM-DD"}
	}
	if !out.After(in) {
		return &ValidationError{Field: "checkOut", Msg: "must be after check-in"}
	}
	return nil
}

// Submit runs one booking attempt: Idle -> Submitting -> outcome. The
// returned error is non-nil only for request-shaped problems (validation,
// stale token); upstream failures land in the outcome so the form can be
// re-enabled with its values intact.
func (s *BookingService) Submit(ctx context.Context, token string, br domain.BookingRequest) (domain.BookingOutcome, error) {
	if err := s.ValidateRequest(br); err != nil {
		return domain.BookingOutcome{State: domain.BookingIdle}, err
	}

	if token == "" {
		return domain.BookingOutcome{State: domain.BookingIdle}, domain.ErrStaleToken
	}
	claimed, err := s.cache.SetNX(ctx, "bkt:"+token, br.TenantID, int(s.tokenTTL.Seconds()))
	if err != nil {
		// cache down: let the submission through rather than blocking sales
		log.Warn().Err(err).Msg("token claim failed, proceeding unguarded")
	} else if !claimed {
		return domain.BookingOutcome{State: domain.BookingIdle}, domain.ErrStaleToken
	}

	observability.ObserveBooking(br.TenantID, string(domain.BookingSubmitting))
	conf, err := s.src.CreateBooking(ctx, br)
	out := domain.BookingOutcome{}
	switch {
	case err == nil:
		out.State = domain.BookingConfirmed
		out.Confirmation = &conf
	case errors.Is(err, domain.ErrConflict):
		// room taken for these dates; token released so the user can change
		// input and resubmit from the same form
		out.State = domain.BookingConflict
		out.Reason = "already booked for these dates"
		_ = s.cache.Del(ctx, "bkt:"+token)
	default:
		out.State = domain.BookingFailed
		out.Reason = "booking service unavailable"
		_ = s.cache.Del(ctx, "bkt:"+token)
		log.Error().Err(err).
			Str("tenant", br.TenantID).
			Str("room", br.RoomID).
			Str("kind", observability.LabelErr(err)).
			Msg("booking submit failed")
	}

	observability.ObserveBooking(br.TenantID, string(out.State))
	s.logBooking(ctx, br, out)
	return out, nil
}

func (s *BookingService) logBooking(ctx context.Context, br domain.BookingRequest, out domain.BookingOutcome) {
	if s.repo == nil {
		return
	}
	if err := s.repo.LogBooking(ctx, br, out); err != nil {
		log.Warn().Err(err).Str("tenant", br.TenantID).Msg("booking log write failed")
	}
}
