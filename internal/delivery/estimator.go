// Package delivery estimates whether and when a product reaches a postal code.
//
// The estimate is a display heuristic based on postal-code prefix proximity.
// It is not a logistics guarantee and never returns an error.
package delivery

import (
	"fmt"
	"strings"
	"time"
)

// Window is a delivery range in calendar days.
type Window struct {
	MinDays int
	MaxDays int
}

var (
	windowNearby   = Window{MinDays: 2, MaxDays: 4}
	windowRegional = Window{MinDays: 4, MaxDays: 6}
	windowDefault  = Window{MinDays: 3, MaxDays: 6}
)

// Result is the estimator output. EstimatedDate and RangeLabel are nil when
// no window applies.
type Result struct {
	Deliverable   bool       `json:"deliverable"`
	EstimatedDate *time.Time `json:"estimated_date"`
	RangeLabel    *string    `json:"range_label"`
	MinDays       int        `json:"min_days,omitempty"`
	MaxDays       int        `json:"max_days,omitempty"`
}

// Estimate maps a product's deliverable postal codes and a destination to a
// result:
//   - no destination: not deliverable, no date
//   - no deliverable codes: ships everywhere, deliverable with no date
//   - otherwise deliverable iff the destination is listed, with a window from
//     the closest prefix match
//
// The estimated date is today plus the window's max days, moved to Monday when
// it lands on a weekend.
func Estimate(deliverable []string, destination string, today time.Time) Result {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return Result{}
	}

	codes := normalizeCodes(deliverable)
	if len(codes) == 0 {
		return Result{Deliverable: true}
	}

	listed := false
	for _, code := range codes {
		if code == destination {
			listed = true
			break
		}
	}

	window := windowFor(codes, destination)
	date := rollOffWeekend(dateOnly(today).AddDate(0, 0, window.MaxDays))
	label := fmt.Sprintf("%d-%d days", window.MinDays, window.MaxDays)
	return Result{
		Deliverable:   listed,
		EstimatedDate: &date,
		RangeLabel:    &label,
		MinDays:       window.MinDays,
		MaxDays:       window.MaxDays,
	}
}

func windowFor(codes []string, destination string) Window {
	if prefixShared(codes, destination, 2) {
		return windowNearby
	}
	if prefixShared(codes, destination, 1) {
		return windowRegional
	}
	return windowDefault
}

func prefixShared(codes []string, destination string, n int) bool {
	if len(destination) < n {
		return false
	}
	prefix := destination[:n]
	for _, code := range codes {
		if strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if code = strings.TrimSpace(code); code != "" {
			out = append(out, code)
		}
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func rollOffWeekend(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}
	return t
}
