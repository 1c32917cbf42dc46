// Package humandate resolves partial human-entered date-time strings
// against a reference timestamp. Missing components default from the
// reference: a bare time gets the reference date, a bare date gets the
// reference time, and missing seconds become ":00".
package humandate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate marks inputs that cannot be resolved to a timestamp.
var ErrInvalidDate = errors.New("invalid date")

const layout = "2006-01-02T15:04:05"

// Resolve turns input into a full timestamp, defaulting missing parts from
// ref. An empty input or "now" (case-insensitive) returns ref unchanged.
// Resolve never consults the wall clock; callers pass the real "now".
func Resolve(input string, ref time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "now") {
		return ref, nil
	}

	parts := strings.SplitN(strings.ReplaceAll(input, " ", "T"), "T", 2)
	if len(parts) == 1 {
		if strings.Contains(parts[0], ":") {
			parts = []string{ref.Format("2006-01-02"), parts[0]}
		} else {
			parts = append(parts, ref.Format("15:04:05"))
		}
	}

	// HH:MM gets zero seconds.
	if strings.Count(parts[1], ":") == 1 {
		parts[1] += ":00"
	}

	t, err := time.ParseInLocation(layout, parts[0]+"T"+parts[1], ref.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unable to parse %q", ErrInvalidDate, input)
	}
	return t, nil
}
