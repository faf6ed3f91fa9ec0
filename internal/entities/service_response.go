package entities

type ServiceResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
	PriceFormatted  string `json:"price"`
}

type StaffResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Bio      string `json:"bio,omitempty"`
}
