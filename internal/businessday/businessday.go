// Package businessday resolves the one canonical "today" used for every read,
// write and header label.
package businessday

import (
	"fmt"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
)

// Clock maps wall-clock time onto business dates in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New builds a clock for the IANA zone name.
func New(zone string) (Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Clock{}, fmt.Errorf("load business timezone %q: %w", zone, err)
	}
	return Clock{loc: loc, now: time.Now}, nil
}

// Fixed returns a clock frozen at t, for tests and reruns of a past day.
func Fixed(loc *time.Location, t time.Time) Clock {
	return Clock{loc: loc, now: func() time.Time { return t }}
}

// Location is the zone business dates are evaluated in.
func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Now is the current instant in the business zone.
func (c Clock) Now() time.Time {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	return now().In(c.Location())
}

// Today is the current business date as midnight UTC, the form pgx and the
// store's date columns use.
func (c Clock) Today() time.Time {
	return DateOf(c.Now())
}

// TodayKey is Today formatted as YYYY-MM-DD.
func (c Clock) TodayKey() string {
	return Key(c.Today())
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Key formats a business date.
func Key(date time.Time) string {
	return date.Format(domain.DateLayout)
}

// Parse reads a YYYY-MM-DD business date.
func Parse(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}
