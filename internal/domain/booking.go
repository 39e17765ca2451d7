package domain

// BookingRequest is the payload posted to the ERP. Dates are YYYY-MM-DD and
// check-out must be strictly after check-in before a request is built.
type BookingRequest struct {
	TenantID   string  `json:"tenantId" validate:"required"`
	RoomID     string  `json:"roomId" validate:"required"`
	RateName   string  `json:"rateName" validate:"required"`
	Price      float64 `json:"price" validate:"gte=0"`
	GuestName  string  `json:"guestName" validate:"required"`
	GuestEmail string  `json:"guestEmail" validate:"required,email"`
	GuestPhone string  `json:"guestPhone" validate:"required"`
	CheckIn    string  `json:"checkIn" validate:"required"`
	CheckOut   string  `json:"checkOut" validate:"required"`
	Guests     int     `json:"guests" validate:"gte=1"`
}

// BookingConfirmation is the ERP's answer to an accepted booking.
type BookingConfirmation struct {
	ID            string  `json:"id"`
	BookingNumber string  `json:"bookingNumber"`
	Status        string  `json:"status"`
	TotalAmount   float64 `json:"totalAmount"`
}

// BookingState models the submission lifecycle of one booking form:
// Idle -> Submitting -> {Confirmed | Conflict | Failed}. Failed and Conflict
// return to Idle when the user edits and resubmits; Confirmed is terminal.
type BookingState string

const (
	BookingIdle       BookingState = "idle"
	BookingSubmitting BookingState = "submitting"
	BookingConfirmed  BookingState = "confirmed"
	BookingConflict   BookingState = "conflict"
	BookingFailed     BookingState = "failed"
)

// BookingOutcome is what a submission attempt resolved to, for the view
// layer and the booking log.
type BookingOutcome struct {
	State        BookingState
	Confirmation *BookingConfirmation
	Reason       string
}
