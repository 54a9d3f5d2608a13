package settings

import (
	"errors"
	"testing"
	"time"

	"github.com/cmilne/telegrid/internal/clock"
	"github.com/cmilne/telegrid/internal/timeline"
)

var cal = clock.MustCalendar("Europe/London")

func newTestStore(startHour int) *Store {
	return New(cal, Options{
		StartHour: startHour,
		ChosenDay: time.Date(2025, 1, 1, 0, 0, 0, 0, cal.Location()),
	})
}

func TestNew_Defaults(t *testing.T) {
	s := newTestStore(9)
	snap := s.Snapshot()

	if snap.PointsPerMinute != timeline.DefaultPointsPerMinute {
		t.Errorf("expected default scale, got %f", snap.PointsPerMinute)
	}
	if snap.MinProgramWidth != timeline.DefaultMinProgramWidth {
		t.Errorf("expected default min width, got %f", snap.MinProgramWidth)
	}

	want := time.Date(2025, 1, 1, 9, 0, 0, 0, cal.Location())
	if !snap.TimelineStart.Equal(want) {
		t.Errorf("TimelineStart = %v, want %v", snap.TimelineStart, want)
	}
}

func TestSetStartHour_RecomputesTimelineStart(t *testing.T) {
	s := newTestStore(9)

	var notified []Snapshot
	s.Subscribe(func(snap Snapshot) { notified = append(notified, snap) })

	if err := s.SetStartHour(6); err != nil {
		t.Fatalf("SetStartHour failed: %v", err)
	}

	if len(notified) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notified))
	}
	want := time.Date(2025, 1, 1, 6, 0, 0, 0, cal.Location())
	if !notified[0].TimelineStart.Equal(want) {
		t.Errorf("notified TimelineStart = %v, want %v", notified[0].TimelineStart, want)
	}
	if s.Timeline().StartHour != 6 {
		t.Errorf("Timeline().StartHour = %d, want 6", s.Timeline().StartHour)
	}
}

func TestSetStartHour_Validation(t *testing.T) {
	s := newTestStore(9)
	if err := s.SetStartHour(24); err == nil {
		t.Error("expected error for hour 24")
	}
	if err := s.SetStartHour(-1); err == nil {
		t.Error("expected error for hour -1")
	}
	if s.Snapshot().StartHour != 9 {
		t.Errorf("rejected change must not apply, got %d", s.Snapshot().StartHour)
	}
}

func TestSetStartHour_NoOpChange(t *testing.T) {
	s := newTestStore(9)

	count := 0
	s.Subscribe(func(Snapshot) { count++ })

	if err := s.SetStartHour(9); err != nil {
		t.Fatalf("SetStartHour failed: %v", err)
	}
	if count != 0 {
		t.Errorf("setting the same hour must not notify, got %d notifications", count)
	}
}

func TestSetStartHour_Persists(t *testing.T) {
	var persisted []int
	s := New(cal, Options{
		StartHour:        9,
		ChosenDay:        time.Date(2025, 1, 1, 0, 0, 0, 0, cal.Location()),
		PersistStartHour: func(h int) error { persisted = append(persisted, h); return nil },
	})

	if err := s.SetStartHour(7); err != nil {
		t.Fatalf("SetStartHour failed: %v", err)
	}
	if len(persisted) != 1 || persisted[0] != 7 {
		t.Errorf("expected persisted hour 7, got %v", persisted)
	}
}

func TestSetStartHour_PersistFailureRollsBack(t *testing.T) {
	s := New(cal, Options{
		StartHour:        9,
		ChosenDay:        time.Date(2025, 1, 1, 0, 0, 0, 0, cal.Location()),
		PersistStartHour: func(int) error { return errors.New("disk full") },
	})

	notifications := 0
	s.Subscribe(func(Snapshot) { notifications++ })

	if err := s.SetStartHour(7); err == nil {
		t.Error("expected persistence failure to surface")
	}
	if got := s.Snapshot().StartHour; got != 9 {
		t.Errorf("a failed persist must not change the running value, got %d", got)
	}
	if notifications != 0 {
		t.Errorf("a failed persist must not notify, got %d notifications", notifications)
	}
}

func TestSetChosenDay(t *testing.T) {
	s := newTestStore(9)

	var notified []Snapshot
	s.Subscribe(func(snap Snapshot) { notified = append(notified, snap) })

	// Mid-afternoon instant truncates to the day start.
	s.SetChosenDay(time.Date(2025, 1, 2, 15, 30, 0, 0, cal.Location()))

	wantDay := time.Date(2025, 1, 2, 0, 0, 0, 0, cal.Location())
	if !s.ChosenDay().Equal(wantDay) {
		t.Errorf("ChosenDay = %v, want %v", s.ChosenDay(), wantDay)
	}

	if len(notified) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notified))
	}
	wantStart := time.Date(2025, 1, 2, 9, 0, 0, 0, cal.Location())
	if !notified[0].TimelineStart.Equal(wantStart) {
		t.Errorf("TimelineStart = %v, want %v", notified[0].TimelineStart, wantStart)
	}

	// Re-selecting the same day is a no-op.
	s.SetChosenDay(wantDay.Add(20 * time.Hour))
	if len(notified) != 1 {
		t.Errorf("expected no further notification, got %d", len(notified))
	}
}

func TestTimeline_ReflectsSettings(t *testing.T) {
	s := newTestStore(10)
	cfg := s.Timeline()

	if cfg.StartHour != 10 {
		t.Errorf("StartHour = %d, want 10", cfg.StartHour)
	}
	if !cfg.ReferenceDay.Equal(s.ChosenDay()) {
		t.Errorf("ReferenceDay = %v, want %v", cfg.ReferenceDay, s.ChosenDay())
	}
	if len(cfg.TimeSlots()) != 28 {
		t.Errorf("expected 28 slots for 10-24, got %d", len(cfg.TimeSlots()))
	}
}
