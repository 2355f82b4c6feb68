package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ukrbus/internal/domain"
	"ukrbus/internal/domain/models"
	"ukrbus/internal/utils"
)

// maxDurationHours bounds a trip duration so the minute offset cannot
// overflow time.Duration.
const maxDurationHours = 10000

type parsedTemplate struct {
	tpl      models.TripTemplate
	hour     int
	minute   int
	duration time.Duration
}

// SynthesizeSchedule expands templates into one instance per template for
// every day from ref's day-of-month through the end of ref's month. Output
// is grouped by day ascending, then by template input order. Every
// template is parsed before any instance is built, so a bad record fails
// the whole call.
func SynthesizeSchedule(templates []models.TripTemplate, ref time.Time) ([]models.TripInstance, error) {
	parsed := make([]parsedTemplate, 0, len(templates))
	for _, tpl := range templates {
		hour, minute, err := utils.ParseClock(tpl.DepartureTime)
		if err != nil {
			return nil, domain.ParseError{Field: "departureTime", Input: tpl.DepartureTime, Err: err}
		}
		minutes, err := ParseTripDuration(tpl.Duration)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, parsedTemplate{
			tpl:      tpl,
			hour:     hour,
			minute:   minute,
			duration: time.Duration(minutes) * time.Minute,
		})
	}

	loc := ref.Location()
	currentDay := ref.Day()
	daysInMonth := utils.DaysInMonth(ref)

	out := make([]models.TripInstance, 0, (daysInMonth-currentDay+1)*len(parsed))
	for day := currentDay; day <= daysInMonth; day++ {
		for _, p := range parsed {
			hour := shiftHourForDay(p.hour, day)
			departure := time.Date(ref.Year(), ref.Month(), day, hour, p.minute, 0, 0, loc)
			arrival := departure.Add(p.duration)
			out = append(out, newTripInstance(p.tpl, departure, arrival))
		}
	}
	return out, nil
}

// shiftHourForDay keeps the hour on even days and moves it by twelve hours
// on odd days.
func shiftHourForDay(hour, day int) int {
	if day%2 == 0 {
		return hour
	}
	if hour >= 12 {
		return hour - 12
	}
	return hour + 12
}

func newTripInstance(tpl models.TripTemplate, departure, arrival time.Time) models.TripInstance {
	return models.TripInstance{
		ID:                tpl.ID,
		StartPoint:        tpl.StartPoint,
		Destination:       tpl.Destination,
		Duration:          tpl.Duration,
		DepartureLocation: tpl.DepartureLocation,
		ArrivalLocation:   tpl.ArrivalLocation,
		DepartureTime:     utils.FormatClock(departure),
		ArrivalTime:       utils.FormatClock(arrival),
		Price:             tpl.Price,
		Seats:             tpl.Seats,
		DepartureDate:     utils.FormatDate(departure),
		ArrivalDate:       utils.FormatDate(arrival),
	}
}

// ParseTripDuration reads "<hours> hours <minutes> minutes" into total
// minutes. Tokens 0 and 2 must be non-negative integers; the unit words
// are not checked.
func ParseTripDuration(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return 0, domain.ParseError{Field: "duration", Input: s, Err: errors.New("want \"<h> hours <m> minutes\"")}
	}
	hours, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, domain.ParseError{Field: "duration", Input: s, Err: err}
	}
	minutes, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, domain.ParseError{Field: "duration", Input: s, Err: err}
	}
	if hours < 0 || minutes < 0 {
		return 0, domain.ParseError{Field: "duration", Input: s, Err: errors.New("negative value")}
	}
	if hours > maxDurationHours || minutes > maxDurationHours*60 || hours*60+minutes > maxDurationHours*60 {
		return 0, domain.ParseError{Field: "duration", Input: s, Err: fmt.Errorf("longer than %d hours", maxDurationHours)}
	}
	return hours*60 + minutes, nil
}

// DistinctStartPoints returns each startPoint once, first-seen order.
func DistinctStartPoints(templates []models.TripTemplate) []string {
	values := make([]string, 0, len(templates))
	for _, t := range templates {
		values = append(values, t.StartPoint)
	}
	return utils.DistinctInOrder(values)
}

// DistinctDestinations returns each destination once, first-seen order.
func DistinctDestinations(templates []models.TripTemplate) []string {
	values := make([]string, 0, len(templates))
	for _, t := range templates {
		values = append(values, t.Destination)
	}
	return utils.DistinctInOrder(values)
}
