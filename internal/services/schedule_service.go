package services

import (
	"fmt"
	"strings"
	"time"

	"ukrbus/internal/domain"
	"ukrbus/internal/domain/models"
	"ukrbus/internal/metrics"
	"ukrbus/internal/utils"
)

// TemplateSource yields the template trips of a locale.
type TemplateSource interface {
	Templates(locale domain.Locale) ([]models.TripTemplate, error)
}

// ScheduleService answers the trip queries of the booking pages. The
// schedule is synthesized again on every call.
type ScheduleService struct {
	Catalog   TemplateSource
	Clock     utils.Clock
	Metrics   *metrics.Collectors
	RequestID string
}

func (s ScheduleService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

// Schedule returns the month schedule of locale starting today.
func (s ScheduleService) Schedule(locale domain.Locale) ([]models.TripInstance, error) {
	return s.ScheduleAt(locale, s.now())
}

// ScheduleAt returns the schedule as seen on ref.
func (s ScheduleService) ScheduleAt(locale domain.Locale, ref time.Time) ([]models.TripInstance, error) {
	templates, err := s.Catalog.Templates(locale)
	if err != nil {
		return nil, err
	}
	trips, err := SynthesizeSchedule(templates, ref)
	if err != nil {
		utils.LogEvent(s.RequestID, "schedule", "synthesize", fmt.Sprintf("locale=%s err=%v", locale, err))
		return nil, err
	}
	s.Metrics.AddTripsSynthesized(string(locale), len(trips))
	return trips, nil
}

func (s ScheduleService) StartPoints(locale domain.Locale) ([]string, error) {
	templates, err := s.Catalog.Templates(locale)
	if err != nil {
		return nil, err
	}
	return DistinctStartPoints(templates), nil
}

func (s ScheduleService) Destinations(locale domain.Locale) ([]string, error) {
	templates, err := s.Catalog.Templates(locale)
	if err != nil {
		return nil, err
	}
	return DistinctDestinations(templates), nil
}

// Search filters the current schedule by exact start point, destination
// and departure date. Empty filters match everything.
func (s ScheduleService) Search(locale domain.Locale, q models.TripQuery) ([]models.TripInstance, error) {
	return s.SearchAt(locale, q, s.now())
}

// SearchAt is Search with an explicit reference date.
func (s ScheduleService) SearchAt(locale domain.Locale, q models.TripQuery, ref time.Time) ([]models.TripInstance, error) {
	if q.Date != "" {
		if _, err := utils.ParseDate(q.Date, ref.Location()); err != nil {
			return nil, domain.ValidationError{Field: "date", Code: "invalidDate", Msg: "want YYYY-MM-DD", Err: err}
		}
	}
	trips, err := s.ScheduleAt(locale, ref)
	if err != nil {
		return nil, err
	}
	return FilterTrips(trips, q), nil
}

// FilterTrips applies the search filters to an already built schedule.
func FilterTrips(trips []models.TripInstance, q models.TripQuery) []models.TripInstance {
	start := strings.TrimSpace(q.StartPoint)
	dest := strings.TrimSpace(q.Destination)
	date := strings.TrimSpace(q.Date)

	out := make([]models.TripInstance, 0, len(trips))
	for _, t := range trips {
		if start != "" && t.StartPoint != start {
			continue
		}
		if dest != "" && t.Destination != dest {
			continue
		}
		if date != "" && t.DepartureDate != date {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FindTrip returns the instance (id, date). With an empty date the earliest
// instance of id is returned.
func (s ScheduleService) FindTrip(locale domain.Locale, id, date string) (models.TripInstance, error) {
	trips, err := s.Schedule(locale)
	if err != nil {
		return models.TripInstance{}, err
	}
	for _, t := range trips {
		if t.ID != id {
			continue
		}
		if date == "" || t.DepartureDate == date {
			return t, nil
		}
	}
	return models.TripInstance{}, domain.NotFoundError{Resource: "trip"}
}

// Suggest keeps the values containing q, ignoring case, for the origin and
// destination autocomplete. An empty q keeps everything.
func Suggest(values []string, q string) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if q == "" || strings.Contains(strings.ToLower(v), q) {
			out = append(out, v)
		}
	}
	return out
}
