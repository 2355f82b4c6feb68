package models

import (
	"time"

	"ukrbus/internal/domain"
)

// Preorder is the state of one run through the booking wizard. The trip is
// a snapshot of the instance selected at creation.
type Preorder struct {
	ID              string            `json:"id"`
	Locale          domain.Locale     `json:"locale"`
	Trip            TripInstance      `json:"trip"`
	Step            domain.Step       `json:"step"`
	Status          domain.Status     `json:"status"`
	PassengersCount int               `json:"passengersCount"`
	Passengers      []PassengerDetail `json:"passengers"`
	Email           string            `json:"email"`
	PhoneNumber     string            `json:"phoneNumber"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Total returns price × passenger count.
func (p Preorder) Total() int64 {
	return p.Trip.Price * int64(p.PassengersCount)
}

// PassengerDetail is one passenger form of the details step.
type PassengerDetail struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	DOB       string `json:"dob" validate:"required,datetime=2006-01-02"`
}

// PassengersInput is the payload of the details step.
type PassengersInput struct {
	Passengers  []PassengerDetail `json:"passengers" validate:"required,dive"`
	Email       string            `json:"email" validate:"required,email"`
	PhoneNumber string            `json:"phoneNumber" validate:"required,uaphone"`
}
