// Package view is the typed view-model boundary: components hand it
// structured data, it produces escaped HTML. No component writes markup
// anywhere else.
package view

import (
	"html/template"
	"io"

	"github.com/teamslict/hotel/internal/app"
	"github.com/teamslict/hotel/internal/domain"
	"github.com/teamslict/hotel/internal/i18n"
)

// Theme is the projection of a tenant's config onto page chrome. Empty
// fields render nothing.
type Theme struct {
	HotelName      string
	MetaTitle      string
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
	FontFamily     string
	LogoURL        string
	HeroImageURL   string
	HeroTitle      string
	HeroSubtitle   string
	FooterText     string
	ContactEmail   string
	ContactPhone   string
	Address        string
	Currency       string
}

func ThemeFrom(cfg domain.TenantConfig) Theme {
	title := cfg.MetaTitle
	if title == "" {
		title = cfg.HotelName
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "LKR"
	}
	return Theme{
		HotelName:      cfg.HotelName,
		MetaTitle:      title,
		PrimaryColor:   cfg.PrimaryColor,
		SecondaryColor: cfg.SecondaryColor,
		AccentColor:    cfg.AccentColor,
		FontFamily:     cfg.FontFamily,
		LogoURL:        cfg.LogoURL,
		HeroImageURL:   cfg.HeroImageURL,
		HeroTitle:      cfg.HeroTitle,
		HeroSubtitle:   cfg.HeroSubtitle,
		FooterText:     cfg.FooterText,
		ContactEmail:   cfg.ContactEmail,
		ContactPhone:   cfg.ContactPhone,
		Address:        cfg.Address,
		Currency:       currency,
	}
}

// Page wraps a rendered body fragment with locale direction and theme.
type Page struct {
	Lang  string
	Dir   string
	Theme Theme
	Body  template.HTML
}

// RoomCard is one room priced for the stay.
type RoomCard struct {
	Room     domain.Room
	Quotes   []app.RateQuote
	ImageURL string
}

// RoomsPage feeds the room-card list template. The stay fields ride along
// so each rate's book link lands on a form bound to the same dates.
type RoomsPage struct {
	Cards         []RoomCard
	Nights        int
	Currency      string
	CheckIn       string
	CheckOut      string
	Guests        int
	FixtureBacked bool
	T             func(key string) string
}

// Confirmation feeds the booking-success fragment; the form is gone once
// this renders.
type Confirmation struct {
	BookingNumber string
	Status        string
	GuestEmail    string
	T             func(key string) string
}

// NotFound is the fatal tenant-resolution view.
type NotFound struct {
	Subdomain string
	Detail    string
	Title     string
}

// Diagnostic names the attempted upstream URL on a catalog failure.
type Diagnostic struct {
	Message string
	Target  string
}

// BookingForm carries the single-use token and the chosen room, rate and
// stay into the form markup; the guest fills in only the contact fields.
type BookingForm struct {
	Token    string
	RoomID   string
	RateName string
	Price    string
	Total    string
	Currency string
	CheckIn  string
	CheckOut string
	Guests   int
	T        func(key string) string
}

// Translate closes a bundle over a params-free lookup for templates.
func Translate(b *i18n.Bundle) func(string) string {
	return func(key string) string { return b.T(key, nil) }
}

const placeholderImage = "images/placeholder.jpg"

func CardsFrom(res app.RoomsResult) []RoomCard {
	cards := make([]RoomCard, 0, len(res.Offers))
	for _, o := range res.Offers {
		img := placeholderImage
		if len(o.Room.Images) > 0 {
			img = o.Room.Images[0]
		}
		cards = append(cards, RoomCard{Room: o.Room, Quotes: o.Quotes, ImageURL: img})
	}
	return cards
}

var tpl = template.Must(template.New("site").Parse(`
{{define "page"}}<!doctype html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<title>{{.Theme.MetaTitle}}</title>
<style>:root{
{{- if .Theme.PrimaryColor}}--primary-color:{{.Theme.PrimaryColor}};{{end}}
{{- if .Theme.SecondaryColor}}--secondary-color:{{.Theme.SecondaryColor}};{{end}}
{{- if .Theme.AccentColor}}--accent-color:{{.Theme.AccentColor}};{{end}}
{{- if .Theme.FontFamily}}--font-family:{{.Theme.FontFamily}};{{end}}
}</style>
</head>
<body>
<header class="site-logo"><a href="/">{{.Theme.HotelName}}</a></header>
{{if .Theme.HeroTitle}}<section class="site-hero"><h1 class="hero-title">{{.Theme.HeroTitle}}</h1>
{{if .Theme.HeroSubtitle}}<p class="hero-subtitle">{{.Theme.HeroSubtitle}}</p>{{end}}</section>{{end}}
<main>{{.Body}}</main>
<footer>{{if .Theme.FooterText}}<p class="footer-text">{{.Theme.FooterText}}</p>{{end}}
{{if .Theme.ContactEmail}}<a class="contact-email" href="mailto:{{.Theme.ContactEmail}}">{{.Theme.ContactEmail}}</a>{{end}}
{{if .Theme.ContactPhone}}<a class="contact-phone" href="tel:{{.Theme.ContactPhone}}">{{.Theme.ContactPhone}}</a>{{end}}
{{if .Theme.Address}}<p class="contact-address">{{.Theme.Address}}</p>{{end}}</footer>
</body>
</html>{{end}}

{{define "rooms"}}{{if not .Cards}}<div class="no-rooms"><p>{{call .T "rooms.none"}}</p></div>{{else}}
<div class="rooms-list"{{if .FixtureBacked}} data-fixture="true"{{end}}>
{{range .Cards}}<div class="room-card">
<figure class="img-wrap"><img src="{{.ImageURL}}" alt="{{.Room.RoomType}}"></figure>
<div class="room-details">
<h3 class="room-title">{{.Room.RoomType}}</h3>
<span class="spec-item">{{.Room.MaxOccupancy}}</span>
<p class="room-desc">{{.Room.Description}}</p>
<ul class="room-amenities">{{range .Room.Amenities}}<li>{{.}}</li>{{end}}</ul>
<div class="rate-plans">
{{$c := $.Currency}}{{$t := $.T}}{{$p := $}}{{$room := .Room}}{{range .Quotes}}<div class="rate-plan-row">
<div class="rate-name{{if .IsMember}} member{{end}}">{{.Name}}</div>
{{if .IsMember}}<span class="member-badge">{{call $t "rooms.memberRate"}}</span>{{end}}
<div class="rate-perks">{{range .Perks}}<div>{{.}}</div>{{end}}</div>
<span class="price-strike">{{$c}} {{printf "%.0f" .StrikePrice}}</span>
<span class="price-main">{{$c}} {{printf "%.0f" .Price}}</span>
<span class="price-unit">{{call $t "rooms.perNight"}}</span>
<a class="btn-book-rate" data-total="{{.Total}}" data-nights="{{.Nights}}" href="/select-room?roomId={{$room.ID}}&amp;rate={{.Name}}&amp;checkin={{$p.CheckIn}}&amp;checkout={{$p.CheckOut}}&amp;guests={{$p.Guests}}">{{call $t "rooms.bookNow"}}</a>
</div>{{end}}
</div>
</div>
</div>{{end}}
</div>{{end}}{{end}}

{{define "confirmation"}}<div class="booking-success">
<h2>{{call .T "booking.confirmed"}} {{.BookingNumber}}</h2>
<p class="booking-status">{{.Status}}</p>
{{if .GuestEmail}}<p class="booking-email">{{.GuestEmail}}</p>{{end}}
</div>{{end}}

{{define "notfound"}}<div class="tenant-not-found">
<h1>{{.Title}}</h1>
<p>{{.Detail}}</p>
</div>{{end}}

{{define "diagnostic"}}<div class="catalog-error">
<p><strong>{{.Message}}</strong></p>
{{if .Target}}<small class="target">Target: {{.Target}}</small>{{end}}
</div>{{end}}

{{define "bookingform"}}<form class="booking-form" method="post" action="/v1/site/bookings">
<input type="hidden" name="token" value="{{.Token}}">
<input type="hidden" name="roomId" value="{{.RoomID}}">
<input type="hidden" name="rateName" value="{{.RateName}}">
<input type="hidden" name="price" value="{{.Price}}">
<input type="hidden" name="checkIn" value="{{.CheckIn}}">
<input type="hidden" name="checkOut" value="{{.CheckOut}}">
<input type="hidden" name="guests" value="{{.Guests}}">
<label>{{call .T "booking.guestName"}}<input name="guestName" required></label>
<label>{{call .T "booking.guestEmail"}}<input name="guestEmail" type="email" required></label>
<label>{{call .T "booking.guestPhone"}}<input name="guestPhone" required></label>
<p class="booking-total">{{.Currency}} {{.Total}}</p>
<button type="submit">{{call .T "booking.submit"}}</button>
</form>{{end}}
`))

func RenderPage(w io.Writer, p Page) error       { return tpl.ExecuteTemplate(w, "page", p) }
func RenderRooms(w io.Writer, d RoomsPage) error { return tpl.ExecuteTemplate(w, "rooms", d) }
func RenderConfirmation(w io.Writer, c Confirmation) error {
	return tpl.ExecuteTemplate(w, "confirmation", c)
}
func RenderNotFound(w io.Writer, n NotFound) error { return tpl.ExecuteTemplate(w, "notfound", n) }
func RenderDiagnostic(w io.Writer, d Diagnostic) error {
	return tpl.ExecuteTemplate(w, "diagnostic", d)
}
func RenderBookingForm(w io.Writer, f BookingForm) error {
	return tpl.ExecuteTemplate(w, "bookingform", f)
}
