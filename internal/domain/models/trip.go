package models

// TripTemplate is one base schedule record of a locale document, before
// daily expansion.
type TripTemplate struct {
	ID                string `json:"id"`
	StartPoint        string `json:"startPoint"`
	Destination       string `json:"destination"`
	DepartureLocation string `json:"departureLocation"`
	ArrivalLocation   string `json:"arrivalLocation"`
	DepartureTime     string `json:"departureTime"`
	Duration          string `json:"duration"`
	Price             int64  `json:"price"`
	Seats             int    `json:"seats"`
}

// TripsDocument mirrors the per-locale JSON document.
type TripsDocument struct {
	Trips []TripTemplate `json:"trips"`
}

// TripInstance is a dated departure derived from a template. It is
// identified by (ID, DepartureDate) and never persisted.
type TripInstance struct {
	ID                string `json:"id"`
	StartPoint        string `json:"startPoint"`
	Destination       string `json:"destination"`
	Duration          string `json:"duration"`
	DepartureLocation string `json:"departureLocation"`
	ArrivalLocation   string `json:"arrivalLocation"`
	DepartureTime     string `json:"departureTime"`
	ArrivalTime       string `json:"arrivalTime"`
	Price             int64  `json:"price"`
	Seats             int    `json:"seats"`
	DepartureDate     string `json:"departureDate"`
	ArrivalDate       string `json:"arrivalDate"`
}

// TripQuery holds the optional home-page search filters.
type TripQuery struct {
	StartPoint  string
	Destination string
	Date        string // YYYY-MM-DD
}
