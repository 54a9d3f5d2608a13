// Package settings holds the mutable guide configuration the presentation
// layer reads and writes: start hour and chosen day, plus the static grid
// scale. Changes are pushed to subscribers so derived values such as the
// timeline start are recomputed explicitly rather than through implicit
// property observation.
package settings

import (
	"fmt"
	"sync"
	"time"

	"github.com/cmilne/telegrid/internal/clock"
	apperrors "github.com/cmilne/telegrid/internal/errors"
	"github.com/cmilne/telegrid/internal/timeline"
)

// Snapshot is an immutable view of the current settings, including the
// derived timeline start.
type Snapshot struct {
	StartHour       int       `json:"start_hour"`
	ChosenDay       time.Time `json:"chosen_day"`
	TimelineStart   time.Time `json:"timeline_start"`
	PointsPerMinute float64   `json:"points_per_minute"`
	MinProgramWidth float64   `json:"min_program_width"`
	RowHeight       float64   `json:"row_height"`
}

// Store is a concurrency-safe settings holder with change notification.
type Store struct {
	mu              sync.RWMutex
	startHour       int
	chosenDay       time.Time
	pointsPerMinute float64
	minProgramWidth float64
	rowHeight       float64
	cal             *clock.Calendar
	subscribers     []func(Snapshot)
	persistHour     func(int) error
}

// Options configures a new Store. Zero scale values fall back to the
// timeline defaults.
type Options struct {
	StartHour       int
	ChosenDay       time.Time
	PointsPerMinute float64
	MinProgramWidth float64
	RowHeight       float64

	// PersistStartHour, when set, is called after a start hour change so
	// the value survives restarts.
	PersistStartHour func(int) error
}

// New creates a settings store. The chosen day defaults to today in the
// reference zone when unset.
func New(cal *clock.Calendar, opts Options) *Store {
	if opts.PointsPerMinute == 0 {
		opts.PointsPerMinute = timeline.DefaultPointsPerMinute
	}
	if opts.MinProgramWidth == 0 {
		opts.MinProgramWidth = timeline.DefaultMinProgramWidth
	}
	if opts.RowHeight == 0 {
		opts.RowHeight = timeline.DefaultRowHeight
	}
	day := opts.ChosenDay
	if day.IsZero() {
		day = cal.StartOfDay(time.Now())
	} else {
		day = cal.StartOfDay(day)
	}

	return &Store{
		startHour:       opts.StartHour,
		chosenDay:       day,
		pointsPerMinute: opts.PointsPerMinute,
		minProgramWidth: opts.MinProgramWidth,
		rowHeight:       opts.RowHeight,
		cal:             cal,
		persistHour:     opts.PersistStartHour,
	}
}

// Subscribe registers a callback invoked with a fresh snapshot after every
// change. Callbacks run synchronously on the mutating goroutine and must not
// call back into the store.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Snapshot returns the current settings with derived values filled in.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Timeline returns the geometry configuration derived from the current
// settings.
func (s *Store) Timeline() timeline.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return timeline.Config{
		StartHour:       s.startHour,
		PointsPerMinute: s.pointsPerMinute,
		MinProgramWidth: s.minProgramWidth,
		RowHeight:       s.rowHeight,
		ReferenceDay:    s.chosenDay,
	}
}

// ChosenDay returns the currently selected day start.
func (s *Store) ChosenDay() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chosenDay
}

// SetStartHour updates the grid's start hour and notifies subscribers. The
// hour is persisted before the running value changes: a persistence failure
// leaves the store's state, and its subscribers, exactly as they were.
func (s *Store) SetStartHour(hour int) error {
	if hour < 0 || hour > 23 {
		return apperrors.ValidationError(fmt.Sprintf("start hour %d out of range 0-23", hour))
	}

	s.mu.Lock()
	if hour == s.startHour {
		s.mu.Unlock()
		return nil
	}
	persist := s.persistHour
	s.mu.Unlock()

	if persist != nil {
		if err := persist(hour); err != nil {
			return apperrors.PersistenceError("failed to persist start hour", err)
		}
	}

	s.mu.Lock()
	if hour == s.startHour {
		s.mu.Unlock()
		return nil
	}
	s.startHour = hour
	snap := s.snapshotLocked()
	subs := append([]func(Snapshot){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return nil
}

// SetChosenDay updates the selected day, truncated to a day start in the
// reference zone, and notifies subscribers.
func (s *Store) SetChosenDay(day time.Time) {
	day = s.cal.StartOfDay(day)

	s.mu.Lock()
	if day.Equal(s.chosenDay) {
		s.mu.Unlock()
		return
	}
	s.chosenDay = day
	snap := s.snapshotLocked()
	subs := append([]func(Snapshot){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	cfg := timeline.Config{StartHour: s.startHour, ReferenceDay: s.chosenDay}
	return Snapshot{
		StartHour:       s.startHour,
		ChosenDay:       s.chosenDay,
		TimelineStart:   cfg.TimelineStart(),
		PointsPerMinute: s.pointsPerMinute,
		MinProgramWidth: s.minProgramWidth,
		RowHeight:       s.rowHeight,
	}
}
