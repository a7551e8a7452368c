// Package timeparse turns the free-text date and time-of-day inputs into
// absolute timestamps in the configured location.
package timeparse

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrInvalidDateFormat indicates the base date is not a valid YYYY-MM-DD value.
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD (e.g. 2026-09-01)")
	// ErrInvalidTimeFormat indicates a time token is not a valid 24-hour HH:MM value.
	ErrInvalidTimeFormat = errors.New("invalid time format, use HH:MM,HH:MM,HH:MM (e.g. 09:00,12:00,15:00)")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(input string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(input), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, input)
	}
	return t, nil
}

// ParseTimes splits a comma-separated list of HH:MM tokens and applies each
// onto baseDate, zeroing seconds and sub-seconds. The result is sorted
// ascending. Any malformed token fails the whole call with
// ErrInvalidTimeFormat; partial results are never returned. Duplicate tokens
// are allowed and each produces its own slot.
func ParseTimes(input string, baseDate time.Time) ([]time.Time, error) {
	tokens := strings.Split(input, ",")
	slots := make([]time.Time, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		// time.Parse accepts single-digit hours for the "15" layout, so the
		// exact HH:MM shape has to be checked up front.
		if len(token) != 5 || token[2] != ':' {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, token)
		}
		tod, err := time.Parse(timeLayout, token)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, token)
		}
		slots = append(slots, time.Date(
			baseDate.Year(), baseDate.Month(), baseDate.Day(),
			tod.Hour(), tod.Minute(), 0, 0, baseDate.Location(),
		))
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots, nil
}
