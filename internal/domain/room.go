package domain

type Room struct {
	ID           string   `json:"id"`
	RoomNumber   string   `json:"roomNumber"`
	RoomType     string   `json:"roomType"`
	BasePrice    float64  `json:"basePrice"`
	Floor        int      `json:"floor,omitempty"`
	BedType      string   `json:"bedType,omitempty"`
	MaxOccupancy int      `json:"maxOccupancy"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
	Description  string   `json:"description"`
	Rates        []Rate   `json:"rates,omitempty"`
}

// Rate is a priced offer for a room, distinct from the room's base price.
type Rate struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	StrikePrice float64  `json:"strikePrice"`
	Perks       []string `json:"perks"`
	IsMember    bool     `json:"isMember"`
}

// RoomPatch carries the updatable room fields for the CRUD surface; nil
// fields are left untouched by the ERP.
type RoomPatch struct {
	BasePrice    *float64 `json:"basePrice,omitempty"`
	Description  *string  `json:"description,omitempty"`
	MaxOccupancy *int     `json:"maxOccupancy,omitempty"`
}

// StayQuery scopes a rooms request to a tenant and an optional stay window.
// Dates are YYYY-MM-DD; empty means "no date filter".
type StayQuery struct {
	TenantID string
	CheckIn  string
	CheckOut string
	Guests   int
}
