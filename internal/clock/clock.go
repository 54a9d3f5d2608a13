// Package clock pins all day-boundary arithmetic to a single reference time
// zone, so that "today" for guide data stays unambiguous even when the
// presentation layer renders in the device-local zone.
package clock

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmilne/telegrid/internal/errors"
)

// DefaultZone is the reference zone of the guide feed.
const DefaultZone = "Europe/London"

// Calendar performs day-boundary computations in a fixed reference zone.
// All methods are pure functions of their inputs.
type Calendar struct {
	loc *time.Location
}

// NewCalendar creates a calendar pinned to the named IANA zone.
func NewCalendar(zone string) (*Calendar, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("unknown time zone %q", zone), err)
	}
	return &Calendar{loc: loc}, nil
}

// MustCalendar is NewCalendar for zones known at compile time.
func MustCalendar(zone string) *Calendar {
	cal, err := NewCalendar(zone)
	if err != nil {
		panic(err)
	}
	return cal
}

// Location returns the fixed reference zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// StartOfDay returns midnight of t's calendar day in the reference zone.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// AddDays returns the start of the day `days` calendar days after t.
func (c *Calendar) AddDays(t time.Time, days int) time.Time {
	return c.StartOfDay(t).AddDate(0, 0, days)
}

// SameDay reports whether a and b fall on the same calendar day in the
// reference zone.
func (c *Calendar) SameDay(a, b time.Time) bool {
	return c.StartOfDay(a).Equal(c.StartOfDay(b))
}

// ResolveDay maps a day selector to a concrete day start. Accepted forms are
// "today", "tomorrow", an ISO date (2006-01-02), or empty for today.
func (c *Calendar) ResolveDay(selector string, now time.Time) (time.Time, error) {
	selector = strings.TrimSpace(selector)
	switch strings.ToLower(selector) {
	case "", "today":
		return c.StartOfDay(now), nil
	case "tomorrow":
		return c.AddDays(now, 1), nil
	}

	t, err := time.ParseInLocation("2006-01-02", selector, c.loc)
	if err != nil {
		return time.Time{}, errors.ValidationError(fmt.Sprintf("invalid day selector %q", selector))
	}
	return t, nil
}
