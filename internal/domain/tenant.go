package domain

// Tenant is one hotel property resolved from a subdomain. Resolved once per
// request and immutable afterward.
type Tenant struct {
	TenantID string       `json:"tenantId"`
	Config   TenantConfig `json:"config"`
}

// TenantConfig carries the theme and content fields the ERP exposes for a
// property. Empty fields are skipped by the view layer.
type TenantConfig struct {
	HotelName       string `json:"hotelName,omitempty"`
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	Currency        string `json:"currency,omitempty"`

	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	AccentColor    string `json:"accentColor,omitempty"`
	FontFamily     string `json:"fontFamily,omitempty"`

	LogoURL      string `json:"logoUrl,omitempty"`
	FaviconURL   string `json:"faviconUrl,omitempty"`
	HeroImageURL string `json:"heroImageUrl,omitempty"`
	HeroTitle    string `json:"heroTitle,omitempty"`
	HeroSubtitle string `json:"heroSubtitle,omitempty"`
	FooterText   string `json:"footerText,omitempty"`

	ContactEmail string `json:"contactEmail,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	Address      string `json:"address,omitempty"`

	FacebookURL  string `json:"facebookUrl,omitempty"`
	InstagramURL string `json:"instagramUrl,omitempty"`
	TwitterURL   string `json:"twitterUrl,omitempty"`
	YoutubeURL   string `json:"youtubeUrl,omitempty"`
}

// Branch is one physical location under a multi-location tenant.
type Branch struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	City      string `json:"city"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
	RoomCount int    `json:"roomCount"`
}
