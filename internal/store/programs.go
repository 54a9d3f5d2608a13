// Package store owns the day-scoped program collection. The store holds
// programs for a single day at a time: a refresh replaces everything, there
// is no cross-day retention.
package store

import (
	"time"

	"github.com/cmilne/telegrid/internal/clock"
	apperrors "github.com/cmilne/telegrid/internal/errors"
	"github.com/cmilne/telegrid/internal/logger"
	"github.com/cmilne/telegrid/internal/models"
	"gorm.io/gorm"
)

// Filter narrows a Query. Zero values leave a dimension unconstrained.
type Filter struct {
	ChannelID   string    // XMLTV id of the owning channel
	Day         time.Time // any instant within the wanted day
	SortByStart bool
}

// ProgramStore is the GORM-backed program collection.
type ProgramStore struct {
	db  *gorm.DB
	cal *clock.Calendar
	log *logger.Logger
}

// New creates a program store over the given database handle and reference
// calendar.
func New(db *gorm.DB, cal *clock.Calendar) *ProgramStore {
	return &ProgramStore{db: db, cal: cal, log: logger.AppLogger()}
}

// IsFresh reports whether stored data already covers the given day: true iff
// the earliest stored program's start falls on that day in the reference
// zone. An empty store is always stale, and so is a store we failed to read;
// both err toward re-fetching.
func (s *ProgramStore) IsFresh(day time.Time) bool {
	var first models.Program
	err := s.db.Order("start asc").First(&first).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.Error("freshness check failed, treating store as stale", err)
		}
		return false
	}
	return s.cal.SameDay(first.Start, day)
}

// ReplaceAll atomically removes every stored program, regardless of day, and
// inserts the new set. Readers see either the old complete set or the new
// one, never a partial delete.
func (s *ProgramStore) ReplaceAll(day time.Time, programs []models.Program) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.Program{}).Error; err != nil {
			return err
		}
		if len(programs) == 0 {
			return nil
		}
		return tx.CreateInBatches(programs, 100).Error
	})
	if err != nil {
		return apperrors.PersistenceError("failed to replace stored programs", err).
			WithContext("day", s.cal.StartOfDay(day).Format("2006-01-02"))
	}

	s.log.WithFields(map[string]interface{}{
		"day":      s.cal.StartOfDay(day).Format("2006-01-02"),
		"programs": len(programs),
	}).Info("program store replaced")
	return nil
}

// Query returns stored programs matching the filter. Read failures are
// logged and reported as an empty result rather than propagated; a renderer
// with nothing to show beats one stuck on an error.
func (s *ProgramStore) Query(f Filter) []models.Program {
	q := s.db.Model(&models.Program{})
	if f.ChannelID != "" {
		q = q.Where("channel_id = ?", f.ChannelID)
	}
	if !f.Day.IsZero() {
		// Bounds go over the wire in UTC to match the stored rows; the
		// window itself is still a reference-zone day.
		dayStart := s.cal.StartOfDay(f.Day)
		q = q.Where("start >= ? AND start < ?", dayStart.UTC(), s.cal.AddDays(dayStart, 1).UTC())
	}
	if f.SortByStart {
		q = q.Order("start asc")
	}

	var programs []models.Program
	if err := q.Find(&programs).Error; err != nil {
		s.log.Error("program query failed, returning empty result", err)
		return []models.Program{}
	}
	return programs
}

// Count returns the number of stored programs, zero on read failure.
func (s *ProgramStore) Count() int64 {
	var count int64
	if err := s.db.Model(&models.Program{}).Count(&count).Error; err != nil {
		s.log.Error("program count failed", err)
		return 0
	}
	return count
}
