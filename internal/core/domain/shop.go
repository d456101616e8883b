package domain

// Shop is a barber shop listing as returned by the backend.
type Shop struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Address     string        `json:"address,omitempty"`
	City        string        `json:"city,omitempty"`
	State       string        `json:"state,omitempty"`
	ZipCode     string        `json:"zipCode,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	Email       string        `json:"email,omitempty"`
	Latitude    *float64      `json:"latitude,omitempty"`
	Longitude   *float64      `json:"longitude,omitempty"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	Services    []ShopService `json:"services,omitempty"`
}

// ShopService is a single offering of a shop (e.g. a haircut).
type ShopService struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	// Duration is the length of the service in minutes.
	Duration int `json:"duration"`
}
