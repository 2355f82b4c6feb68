package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ukrbus/internal/domain"
	"ukrbus/internal/domain/models"
	"ukrbus/internal/metrics"
	"ukrbus/internal/repositories"
	"ukrbus/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PreorderService runs the booking wizard: trip selection (free seating),
// passenger count, passenger details, then payment.
type PreorderService struct {
	Schedule  ScheduleService
	Store     repositories.PreorderStore
	Tokens    TokenService
	Clock     utils.Clock
	Metrics   *metrics.Collectors
	NewID     func() string
	RequestID string
}

func (s PreorderService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

func (s PreorderService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Create starts a preorder for trip (tripID, date) and returns it with
// the bearer token required by the following steps.
func (s PreorderService) Create(ctx context.Context, locale domain.Locale, tripID, date string) (models.Preorder, string, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return models.Preorder{}, "", domain.ValidationError{Field: "tripId", Code: "required", Msg: "required"}
	}
	trip, err := s.Schedule.FindTrip(locale, tripID, strings.TrimSpace(date))
	if err != nil {
		return models.Preorder{}, "", err
	}

	now := s.now()
	p := models.Preorder{
		ID:              s.newID(),
		Locale:          locale,
		Trip:            trip,
		Step:            domain.StepPassengerCount,
		Status:          domain.StatusDraft,
		PassengersCount: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	token, err := s.Tokens.Issue(p.ID)
	if err != nil {
		return models.Preorder{}, "", domain.InternalError{Msg: "cannot issue token", Err: err}
	}
	if err := s.Store.Create(ctx, p); err != nil {
		return models.Preorder{}, "", err
	}

	s.Metrics.IncPreorders(string(locale))
	utils.LogEvent(s.RequestID, "preorder", "create", fmt.Sprintf("preorder_id=%s trip_id=%s date=%s", p.ID, trip.ID, trip.DepartureDate))
	return p, token, nil
}

func (s PreorderService) Get(ctx context.Context, id string) (models.Preorder, error) {
	return s.Store.GetByID(ctx, id)
}

// SetPassengerCount stores the number of travellers, 1..trip seats.
// Entered passenger details are dropped when the count changes.
func (s PreorderService) SetPassengerCount(ctx context.Context, id string, count int) (models.Preorder, error) {
	p, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return models.Preorder{}, err
	}
	if p.Step != domain.StepSelectTrip && p.Step != domain.StepPassengerCount {
		return models.Preorder{}, stepConflict(p.Step, domain.StepPassengerCount)
	}
	if count < 1 {
		return models.Preorder{}, domain.ValidationError{Field: "passengersCount", Code: "atLeastOnePassenger", Msg: "at least one passenger"}
	}
	if count > p.Trip.Seats {
		return models.Preorder{}, domain.ValidationError{
			Field: "passengersCount",
			Code:  "maxPassengers",
			Msg:   fmt.Sprintf("at most %d passengers", p.Trip.Seats),
		}
	}

	if count != p.PassengersCount {
		p.Passengers = nil
		p.Email = ""
		p.PhoneNumber = ""
	}
	p.PassengersCount = count
	p.Step = domain.StepPassengersInfo
	p.UpdatedAt = s.now()
	if err := s.Store.Update(ctx, p); err != nil {
		return models.Preorder{}, err
	}
	utils.LogEvent(s.RequestID, "preorder", "passenger_count", fmt.Sprintf("preorder_id=%s count=%d", p.ID, count))
	return p, nil
}

// SetPassengers stores the passenger and customer details. Exactly
// PassengersCount passengers are required.
func (s PreorderService) SetPassengers(ctx context.Context, id string, in models.PassengersInput) (models.Preorder, error) {
	p, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return models.Preorder{}, err
	}
	if p.Step != domain.StepPassengersInfo {
		return models.Preorder{}, stepConflict(p.Step, domain.StepPassengersInfo)
	}

	in = normalizePassengersInput(in)
	if err := s.validatePassengers(p, in); err != nil {
		return models.Preorder{}, err
	}

	p.Passengers = in.Passengers
	p.Email = in.Email
	p.PhoneNumber = in.PhoneNumber
	p.Step = domain.StepPayment
	p.UpdatedAt = s.now()
	if err := s.Store.Update(ctx, p); err != nil {
		return models.Preorder{}, err
	}
	utils.LogEvent(s.RequestID, "preorder", "passengers", fmt.Sprintf("preorder_id=%s passengers=%d", p.ID, len(p.Passengers)))
	return p, nil
}

// GoToStep moves the wizard back to an earlier step.
func (s PreorderService) GoToStep(ctx context.Context, id string, step domain.Step) (models.Preorder, error) {
	if step.Index() < 0 {
		return models.Preorder{}, domain.ValidationError{Field: "step", Code: "invalidStep", Msg: "unknown step"}
	}
	p, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return models.Preorder{}, err
	}
	if step.Index() >= p.Step.Index() {
		return models.Preorder{}, domain.ConflictError{Resource: "preorder", Msg: "can only go back to an earlier step"}
	}
	p.Step = step
	p.UpdatedAt = s.now()
	if err := s.Store.Update(ctx, p); err != nil {
		return models.Preorder{}, err
	}
	return p, nil
}

func (s PreorderService) validatePassengers(p models.Preorder, in models.PassengersInput) error {
	var errs domain.ValidationErrors
	if len(in.Passengers) != p.PassengersCount {
		errs = append(errs, domain.ValidationError{
			Field: "passengers",
			Code:  "passengersMismatch",
			Msg:   fmt.Sprintf("want %d passengers, got %d", p.PassengersCount, len(in.Passengers)),
		})
	}

	if err := utils.Validator().Struct(in); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return domain.InternalError{Msg: "validation failed", Err: err}
		}
		for _, fe := range ves {
			errs = append(errs, fieldError(fe))
		}
	}

	today := utils.FormatDate(s.now())
	for i, pd := range in.Passengers {
		// lexical compare is safe on YYYY-MM-DD
		if pd.DOB != "" && pd.DOB > today {
			errs = append(errs, domain.ValidationError{
				Field: fmt.Sprintf("passengers[%d].dob", i),
				Code:  "dobInFuture",
				Msg:   "date of birth is in the future",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func normalizePassengersInput(in models.PassengersInput) models.PassengersInput {
	out := models.PassengersInput{
		Email:       strings.TrimSpace(in.Email),
		PhoneNumber: strings.ReplaceAll(strings.TrimSpace(in.PhoneNumber), " ", ""),
		Passengers:  make([]models.PassengerDetail, 0, len(in.Passengers)),
	}
	for _, pd := range in.Passengers {
		out.Passengers = append(out.Passengers, models.PassengerDetail{
			FirstName: utils.NormalizeSpace(pd.FirstName),
			LastName:  utils.NormalizeSpace(pd.LastName),
			DOB:       strings.TrimSpace(pd.DOB),
		})
	}
	return out
}

// fieldError maps a validator failure to the translation keys the booking
// pages use.
func fieldError(fe validator.FieldError) domain.ValidationError {
	field := utils.FieldPath(fe.Namespace())
	code := "required"
	msg := "required"
	switch fe.Tag() {
	case "required":
		switch fe.Field() {
		case "firstName":
			code = "firstNameRequired"
		case "lastName":
			code = "lastNameRequired"
		case "dob":
			code = "dobRequired"
		}
	case "email":
		code, msg = "invalidEmail", "invalid email"
	case "uaphone":
		code, msg = "mustBeNumber", "want +380XXXXXXXXX or 0XXXXXXXXX"
	case "datetime":
		code, msg = "dobRequired", "want YYYY-MM-DD"
	case "max":
		code, msg = "tooLong", "too long"
	default:
		code, msg = fe.Tag(), "invalid value"
	}
	return domain.ValidationError{Field: field, Code: code, Msg: msg}
}

func stepConflict(current, want domain.Step) error {
	return domain.ConflictError{
		Resource: "preorder",
		Msg:      fmt.Sprintf("preorder is at step %s, not %s", current, want),
	}
}
