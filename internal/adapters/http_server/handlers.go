// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/teamslict/hotel/internal/app"
	"github.com/teamslict/hotel/internal/domain"
	"github.com/teamslict/hotel/internal/i18n"
	"github.com/teamslict/hotel/internal/view"
)

const (
	localeCookie = "hotel_locale"
	branchCookie = "hotel_branch"
)

type Handlers struct {
	Resolver *app.TenantResolver
	Catalog  *app.CatalogService
	Booking  *app.BookingService
	Branches *app.BranchService
	Locales  *i18n.Catalog
	// ERPBase names the upstream in catalog diagnostics.
	ERPBase string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	// locale endpoints carry no tenant scope
	s.mux.Get("/v1/site/translations/{locale}", h.getTranslations)
	s.mux.Post("/v1/site/locale", h.setLocale)

	// everything tenant-scoped waits behind resolution
	s.mux.Group(func(g chi.Router) {
		g.Use(TenantCtx(h.Resolver, h.resolveFailed))
		g.Get("/", h.homePage)
		g.Get("/select-room", h.selectRoomPage)
		g.Get("/v1/site/config", h.getConfig)
		g.Get("/v1/site/rooms", h.listRooms)
		g.Post("/v1/site/booking-form", h.newBookingForm)
		g.Post("/v1/site/bookings", h.createBooking)
		g.Get("/v1/site/branches", h.listBranches)
		g.Post("/v1/site/branch", h.setBranch)
	})
}

// resolveFailed is the single fatal path: dependents never run.
func (h *Handlers) resolveFailed(w http.ResponseWriter, r *http.Request, subdomain string, err error) {
	if !errors.Is(err, domain.ErrTenantNotFound) {
		log.Error().Err(err).Str("subdomain", subdomain).Msg("tenant resolution failed")
		if wantsHTML(r) {
			h.renderErrorPage(w, r, http.StatusBadGateway, "errors.connectionFailed", subdomain)
			return
		}
		writeProblem(w, http.StatusBadGateway, "Upstream Unavailable", "tenant configuration could not be loaded")
		return
	}
	if wantsHTML(r) {
		h.renderErrorPage(w, r, http.StatusNotFound, "errors.hotelNotFound", subdomain)
		return
	}
	writeProblem(w, http.StatusNotFound, "Hotel Not Found", "no hotel for subdomain "+strconv.Quote(subdomain))
}

func wantsHTML(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/v1/") {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html") || r.Header.Get("Accept") == ""
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSONWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- locale helpers ----

func (h *Handlers) localeFor(r *http.Request) string {
	if c, err := r.Cookie(localeCookie); err == nil && i18n.Supported(c.Value) {
		return c.Value
	}
	return h.Locales.DefaultLocale()
}

func (h *Handlers) bundleFor(r *http.Request) *i18n.Bundle {
	b, err := h.Locales.Bundle(h.localeFor(r))
	if err != nil {
		// default bundle unloadable: serve keys-as-text rather than failing the page
		log.Error().Err(err).Msg("default locale bundle unavailable")
		return &i18n.Bundle{}
	}
	return b
}

// ---- JSON handlers ----

func (h *Handlers) getConfig(w http.ResponseWriter, r *http.Request) {
	ten, _ := TenantFromContext(r.Context())
	writeJSONWithETag(w, r, ten)
}

// stayFromQuery reads the homepage form's query names: checkin, checkout,
// adults, children.
func stayFromQuery(r *http.Request, tenantID string) domain.StayQuery {
	q := r.URL.Query()
	adults, _ := strconv.Atoi(q.Get("adults"))
	if adults < 1 {
		adults = 1
	}
	children, _ := strconv.Atoi(q.Get("children"))
	if children < 0 {
		children = 0
	}
	return domain.StayQuery{
		TenantID: tenantID,
		CheckIn:  normalizeDate(q.Get("checkin")),
		CheckOut: normalizeDate(q.Get("checkout")),
		Guests:   adults + children,
	}
}

// normalizeDate converts datepicker output ("13 December, 2025") to
// YYYY-MM-DD; unparseable input passes through for the upstream to judge.
func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", "2 January, 2006", "January 2, 2006", "01/02/2006", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	ten, _ := TenantFromContext(r.Context())
	res, err := h.Catalog.Rooms(r.Context(), stayFromQuery(r, ten.TenantID))
	if err != nil {
		writeProblem(w, http.StatusBadGateway, "Rooms Unavailable", "upstream rooms fetch failed; target "+h.ERPBase+"/rooms")
		return
	}
	writeJSONWithETag(w, r, res)
}

func (h *Handlers) newBookingForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"token": h.Booking.NewFormToken()})
}

type bookingPayload struct {
	Token string `json:"token"`
	domain.BookingRequest
}

func payloadFromForm(r *http.Request) bookingPayload {
	price, _ := strconv.ParseFloat(r.PostFormValue("price"), 64)
	guests, _ := strconv.Atoi(r.PostFormValue("guests"))
	return bookingPayload{
		Token: r.PostFormValue("token"),
		BookingRequest: domain.BookingRequest{
			RoomID:     r.PostFormValue("roomId"),
			RateName:   r.PostFormValue("rateName"),
			Price:      price,
			GuestName:  r.PostFormValue("guestName"),
			GuestEmail: r.PostFormValue("guestEmail"),
			GuestPhone: r.PostFormValue("guestPhone"),
			CheckIn:    r.PostFormValue("checkIn"),
			CheckOut:   r.PostFormValue("checkOut"),
			Guests:     guests,
		},
	}
}

// createBooking accepts both the JSON API body and the server-rendered
// form's urlencoded post; form posts get HTML back.
func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	ten, _ := TenantFromContext(r.Context())

	var p bookingPayload
	formPost := strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
	if formPost {
		if err := r.ParseForm(); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Payload", "malformed form body")
			return
		}
		p = payloadFromForm(r)
	} else if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Payload", "body must be JSON")
		return
	}
	// the resolved tenant is authoritative; clients cannot book cross-tenant
	p.BookingRequest.TenantID = ten.TenantID

	out, err := h.Booking.Submit(r.Context(), p.Token, p.BookingRequest)
	if formPost {
		h.renderBookingResult(w, r, ten, p.BookingRequest, out, err)
		return
	}
	if err != nil {
		var verr *app.ValidationError
		switch {
		case errors.As(err, &verr):
			writeProblem(w, http.StatusBadRequest, "Invalid Booking", verr.Error())
		case errors.Is(err, domain.ErrStaleToken):
			writeProblem(w, http.StatusConflict, "Duplicate Submission", "this booking form was already submitted")
		default:
			writeProblem(w, http.StatusInternalServerError, "Booking Failed", "unexpected error")
		}
		return
	}

	switch out.State {
	case domain.BookingConfirmed:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(out.Confirmation)
	case domain.BookingConflict:
		writeProblem(w, http.StatusConflict, "Already Booked", out.Reason)
	default:
		writeProblem(w, http.StatusBadGateway, "Booking Failed", out.Reason)
	}
}

// renderBookingResult answers a form post with the confirmation or an
// error panel, in the tenant's theme and the guest's locale.
func (h *Handlers) renderBookingResult(w http.ResponseWriter, r *http.Request, ten domain.Tenant, br domain.BookingRequest, out domain.BookingOutcome, err error) {
	b := h.bundleFor(r)
	theme := h.themeFor(r, ten, b)
	var body strings.Builder
	status := http.StatusOK

	switch {
	case err != nil:
		var verr *app.ValidationError
		switch {
		case errors.As(err, &verr):
			status = http.StatusBadRequest
			_ = view.RenderDiagnostic(&body, view.Diagnostic{Message: verr.Error()})
		case errors.Is(err, domain.ErrStaleToken):
			status = http.StatusConflict
			_ = view.RenderDiagnostic(&body, view.Diagnostic{Message: b.T("booking.alreadyBooked", nil)})
		default:
			status = http.StatusInternalServerError
			_ = view.RenderDiagnostic(&body, view.Diagnostic{Message: b.T("booking.failed", nil)})
		}
	case out.State == domain.BookingConfirmed:
		status = http.StatusCreated
		_ = view.RenderConfirmation(&body, view.Confirmation{
			BookingNumber: out.Confirmation.BookingNumber,
			Status:        out.Confirmation.Status,
			GuestEmail:    br.GuestEmail,
			T:             view.Translate(b),
		})
	case out.State == domain.BookingConflict:
		status = http.StatusConflict
		_ = view.RenderDiagnostic(&body, view.Diagnostic{Message: b.T("booking.alreadyBooked", nil)})
	default:
		status = http.StatusBadGateway
		_ = view.RenderDiagnostic(&body, view.Diagnostic{Message: b.T("booking.failed", nil)})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	h.writePage(w, r, b, theme, body.String())
}

type branchesResponse struct {
	Branches []domain.Branch `json:"branches"`
	Selected *domain.Branch  `json:"selected,omitempty"`
}

func (h *Handlers) listBranches(w http.ResponseWriter, r *http.Request) {
	sub := SubdomainFromContext(r.Context())
	branches, err := h.Branches.Branches(r.Context(), sub)
	if err != nil {
		writeProblem(w, http.StatusBadGateway, "Branches Unavailable", "upstream branches fetch failed")
		return
	}
	saved := ""
	if c, err := r.Cookie(branchCookie); err == nil {
		saved = c.Value
	}
	writeJSONWithETag(w, r, branchesResponse{
		Branches: branches,
		Selected: app.SelectBranch(branches, saved),
	})
}

func (h *Handlers) setBranch(w http.ResponseWriter, r *http.Request) {
	sub := SubdomainFromContext(r.Context())
	var p struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.ID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Payload", "branch id required")
		return
	}
	branches, err := h.Branches.Branches(r.Context(), sub)
	if err != nil {
		writeProblem(w, http.StatusBadGateway, "Branches Unavailable", "upstream branches fetch failed")
		return
	}
	var found *domain.Branch
	for i := range branches {
		if branches[i].ID == p.ID {
			found = &branches[i]
			break
		}
	}
	if found == nil {
		writeProblem(w, http.StatusNotFound, "Unknown Branch", "no branch "+strconv.Quote(p.ID))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: branchCookie, Value: found.ID, Path: "/", MaxAge: 86400 * 365})
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(found)
}

func (h *Handlers) getTranslations(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	// the bundle loader falls back to the default locale, which must not
	// masquerade as a table for a code we do not ship
	if !i18n.Supported(locale) {
		writeProblem(w, http.StatusNotFound, "Locale Unavailable", "no bundle for "+strconv.Quote(locale))
		return
	}
	b, err := h.Locales.Bundle(locale)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Locale Unavailable", "no bundle for "+strconv.Quote(locale))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Language", b.Locale())
	_ = json.NewEncoder(w).Encode(b.Table())
}

func (h *Handlers) setLocale(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || !i18n.Supported(p.Code) {
		writeProblem(w, http.StatusBadRequest, "Unsupported Locale", "code must be one of the supported locales")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: localeCookie, Value: p.Code, Path: "/", MaxAge: 86400 * 365})
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"locale": p.Code, "dir": i18n.Dir(p.Code)})
}

// ---- HTML pages ----

func (h *Handlers) renderErrorPage(w http.ResponseWriter, r *http.Request, status int, titleKey, subdomain string) {
	b := h.bundleFor(r)
	var body strings.Builder
	_ = view.RenderNotFound(&body, view.NotFound{
		Title:     b.T(titleKey, nil),
		Subdomain: subdomain,
		Detail:    b.T("errors.hotelNotFoundDetail", map[string]string{"subdomain": subdomain}),
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	h.writePage(w, r, b, view.Theme{MetaTitle: b.T(titleKey, nil)}, body.String())
}

func (h *Handlers) writePage(w http.ResponseWriter, r *http.Request, b *i18n.Bundle, theme view.Theme, body string) {
	err := view.RenderPage(w, view.Page{
		Lang:  b.Locale(),
		Dir:   b.Dir(),
		Theme: theme,
		Body:  template.HTML(body),
	})
	if err != nil {
		log.Error().Err(err).Msg("page render failed")
	}
}

func (h *Handlers) themeFor(r *http.Request, ten domain.Tenant, b *i18n.Bundle) view.Theme {
	theme := view.ThemeFrom(ten.Config)
	if theme.HeroTitle == "" {
		theme.HeroTitle = b.T("hero.title", map[string]string{"hotelName": theme.HotelName})
	}
	return theme
}

func (h *Handlers) homePage(w http.ResponseWriter, r *http.Request) {
	ten, _ := TenantFromContext(r.Context())
	b := h.bundleFor(r)

	res, err := h.Catalog.Rooms(r.Context(), domain.StayQuery{TenantID: ten.TenantID})
	var body strings.Builder
	if err != nil {
		_ = view.RenderDiagnostic(&body, view.Diagnostic{
			Message: b.T("errors.connectionFailed", nil),
			Target:  h.ERPBase + "/rooms",
		})
	} else {
		// homepage teases at most three rooms
		if len(res.Offers) > 3 {
			res.Offers = res.Offers[:3]
		}
		_ = view.RenderRooms(&body, view.RoomsPage{
			Cards:         view.CardsFrom(res),
			Nights:        res.Nights,
			Currency:      view.ThemeFrom(ten.Config).Currency,
			FixtureBacked: res.FixtureBacked,
			T:             view.Translate(b),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.writePage(w, r, b, h.themeFor(r, ten, b), body.String())
}

func (h *Handlers) selectRoomPage(w http.ResponseWriter, r *http.Request) {
	ten, _ := TenantFromContext(r.Context())
	b := h.bundleFor(r)

	stay := stayFromQuery(r, ten.TenantID)
	res, err := h.Catalog.Rooms(r.Context(), stay)
	var body strings.Builder
	if err != nil {
		_ = view.RenderDiagnostic(&body, view.Diagnostic{
			Message: b.T("errors.connectionFailed", nil),
			Target:  h.ERPBase + "/rooms",
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		h.writePage(w, r, b, h.themeFor(r, ten, b), body.String())
		return
	}

	theme := h.themeFor(r, ten, b)
	_ = view.RenderRooms(&body, view.RoomsPage{
		Cards:         view.CardsFrom(res),
		Nights:        res.Nights,
		Currency:      theme.Currency,
		CheckIn:       stay.CheckIn,
		CheckOut:      stay.CheckOut,
		Guests:        stay.Guests,
		FixtureBacked: res.FixtureBacked,
		T:             view.Translate(b),
	})

	// a chosen rate gets a form bound to the room, rate and stay
	roomID := r.URL.Query().Get("roomId")
	rateName := r.URL.Query().Get("rate")
	if q, ok := findQuote(res, roomID, rateName); ok {
		_ = view.RenderBookingForm(&body, view.BookingForm{
			Token:    h.Booking.NewFormToken(),
			RoomID:   roomID,
			RateName: rateName,
			Price:    strconv.FormatFloat(q.Price, 'f', 2, 64),
			Total:    q.Total,
			Currency: theme.Currency,
			CheckIn:  stay.CheckIn,
			CheckOut: stay.CheckOut,
			Guests:   stay.Guests,
			T:        view.Translate(b),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.writePage(w, r, b, theme, body.String())
}

func findQuote(res app.RoomsResult, roomID, rateName string) (app.RateQuote, bool) {
	if roomID == "" || rateName == "" {
		return app.RateQuote{}, false
	}
	for _, o := range res.Offers {
		if o.Room.ID != roomID {
			continue
		}
		for _, q := range o.Quotes {
			if q.Name == rateName {
				return q, true
			}
		}
	}
	return app.RateQuote{}, false
}
