// Package timeline turns program timestamps into grid coordinates: slot
// boundaries, x-offsets, and pixel widths relative to a configurable day
// start. Everything here is a pure function of the configuration; callers
// may compute geometry concurrently without synchronization.
package timeline

import (
	"time"

	"github.com/cmilne/telegrid/internal/models"
)

// Defaults for the grid scale. One hour at the default scale is just under
// 160 points wide.
const (
	DefaultStartHour       = 9
	DefaultPointsPerMinute = 2.666
	DefaultMinProgramWidth = 30.0
	DefaultRowHeight       = 60.0

	// DefaultEndHour and DefaultSlotStepHours shape the slot header row:
	// half-hour boundaries up to, but excluding, midnight.
	DefaultEndHour       = 24.0
	DefaultSlotStepHours = 0.5
)

// Config is the geometry configuration for one rendered day. ReferenceDay is
// the start of that day in the reference zone; StartHour shifts the visible
// window within it.
type Config struct {
	StartHour       int
	PointsPerMinute float64
	MinProgramWidth float64
	RowHeight       float64
	ReferenceDay    time.Time
}

// NewConfig returns a config for the given day with default scale values.
func NewConfig(referenceDay time.Time) Config {
	return Config{
		StartHour:       DefaultStartHour,
		PointsPerMinute: DefaultPointsPerMinute,
		MinProgramWidth: DefaultMinProgramWidth,
		RowHeight:       DefaultRowHeight,
		ReferenceDay:    referenceDay,
	}
}

// TimelineStart returns ReferenceDay at StartHour:00:00. It is recomputed
// from the two inputs on every call; the engine holds no state of its own.
func (c Config) TimelineStart() time.Time {
	d := c.ReferenceDay
	return time.Date(d.Year(), d.Month(), d.Day(), c.StartHour, 0, 0, 0, d.Location())
}

// TimeSlots returns the half-hour slot boundaries from StartHour up to but
// excluding midnight. Recomputing with the same config yields the same
// sequence.
func (c Config) TimeSlots() []time.Time {
	return c.TimeSlotsRange(DefaultEndHour, DefaultSlotStepHours)
}

// TimeSlotsRange enumerates slot boundaries on ReferenceDay from StartHour to
// endHour (exclusive) in steps of stepHours.
func (c Config) TimeSlotsRange(endHour, stepHours float64) []time.Time {
	if stepHours <= 0 {
		return nil
	}

	d := c.ReferenceDay
	var slots []time.Time
	for hour := float64(c.StartHour); hour < endHour; hour += stepHours {
		whole := int(hour)
		minute := int((hour - float64(whole)) * 60)
		slots = append(slots, time.Date(d.Year(), d.Month(), d.Day(), whole, minute, 0, 0, d.Location()))
	}
	return slots
}

// XPosition returns the horizontal offset of a program: minutes elapsed from
// the timeline start to the program's start, scaled by PointsPerMinute.
// An absent program sits at offset 0.
func (c Config) XPosition(p *models.Program) float64 {
	if p == nil {
		return 0
	}
	return float64(minutesBetween(c.TimelineStart(), p.Start)) * c.PointsPerMinute
}

// Width returns the rendered width of a program, floored at MinProgramWidth
// so short programs remain tappable. An absent program has no width.
func (c Config) Width(p *models.Program) float64 {
	if p == nil {
		return 0
	}
	width := float64(minutesBetween(p.Start, p.Stop)) * c.PointsPerMinute
	if width < c.MinProgramWidth {
		return c.MinProgramWidth
	}
	return width
}

// NowOffset returns the offset of the current-time marker inside a program's
// cell: minutes from the program's start to now, scaled by PointsPerMinute.
func (c Config) NowOffset(p *models.Program, now time.Time) float64 {
	if p == nil {
		return 0
	}
	return float64(minutesBetween(p.Start, now)) * c.PointsPerMinute
}

// minutesBetween counts whole minutes from one instant to the next.
// Fractional seconds are discarded by truncation, so two programs starting
// under a minute apart can land on the same offset; at 30-minute slot
// granularity that is accepted.
func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from).Minutes())
}
