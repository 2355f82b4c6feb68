package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	LayoutDate  = "2006-01-02"
	LayoutClock = "15:04"
)

// Clock supplies the current time so callers can pin it in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the given location (Local when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location != nil {
		return time.Now().In(c.Location)
	}
	return time.Now()
}

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// ParseDate parses YYYY-MM-DD in loc (Local when nil).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(LayoutDate, strings.TrimSpace(s), loc)
}

// ParseClock parses an HH:mm wall-clock time into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(LayoutClock, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("want HH:mm: %w", err)
	}
	return t.Hour(), t.Minute(), nil
}

// FormatDate formats t as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string {
	return t.Format(LayoutDate)
}

// FormatClock formats t as HH:mm in its own location.
func FormatClock(t time.Time) string {
	return t.Format(LayoutClock)
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
