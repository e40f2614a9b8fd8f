// Package biztime provides utilities for business timezone calculations.
// All storage and transport use UTC. The business timezone is only used for
// calculating date boundaries, most importantly the calendar month that
// gates the monthly social bonus.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "UTC"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
// If tz is empty, defaults to UTC.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone location, auto-initializing with
// the default timezone when Init was never called.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfMonth returns the first instant of t's calendar month in the
// business timezone, converted back to UTC.
func StartOfMonth(t time.Time) time.Time {
	local := t.In(Location())
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, Location()).UTC()
}

// SameCalendarMonth reports whether a and b fall in the same calendar
// month and year of the business timezone. A claim on Jan 31 followed by
// one on Feb 1 is two distinct months, deliberately not a rolling window.
func SameCalendarMonth(a, b time.Time) bool {
	la := a.In(Location())
	lb := b.In(Location())
	return la.Year() == lb.Year() && la.Month() == lb.Month()
}
