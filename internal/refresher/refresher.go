// Package refresher coordinates guide refreshes: it decides with the program
// store whether data for the selected day is stale, fetches the feed when it
// is, and commits the filtered result in one replace.
package refresher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmilne/telegrid/internal/catalog"
	"github.com/cmilne/telegrid/internal/clock"
	"github.com/cmilne/telegrid/internal/feed"
	"github.com/cmilne/telegrid/internal/logger"
	"github.com/cmilne/telegrid/internal/models"
	"github.com/cmilne/telegrid/internal/store"
)

// State is the refresher's position in its fetch cycle.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateCommitting
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// Fetcher retrieves a parsed guide document.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (*feed.Guide, error)
}

// Options configures a Refresher.
type Options struct {
	FeedURL     string
	Fetcher     Fetcher
	Store       *store.ProgramStore
	Catalog     *catalog.Catalog
	Calendar    *clock.Calendar
	MinDuration time.Duration // programs shorter than this are dropped
}

// Refresher is the single-flight download coordinator. At most one refresh
// runs at a time; triggers while one is in flight are ignored, not queued.
type Refresher struct {
	mu          sync.Mutex
	state       atomic.Int32
	feedURL     string
	fetcher     Fetcher
	store       *store.ProgramStore
	catalog     *catalog.Catalog
	cal         *clock.Calendar
	minDuration time.Duration
	log         *logger.Logger
}

// DefaultMinDuration is the ingestion floor for program length.
const DefaultMinDuration = 300 * time.Second

// New creates a refresher.
func New(opts Options) *Refresher {
	if opts.MinDuration == 0 {
		opts.MinDuration = DefaultMinDuration
	}
	return &Refresher{
		feedURL:     opts.FeedURL,
		fetcher:     opts.Fetcher,
		store:       opts.Store,
		catalog:     opts.Catalog,
		cal:         opts.Calendar,
		minDuration: opts.MinDuration,
		log:         logger.AppLogger(),
	}
}

// State returns the current refresh state.
func (r *Refresher) State() State {
	return State(r.state.Load())
}

// Refreshing reports whether a refresh is in flight.
func (r *Refresher) Refreshing() bool {
	return r.State() != StateIdle
}

// Trigger runs one refresh cycle for the given day. It returns immediately
// with no error when another refresh is in flight or when stored data is
// already fresh. A fetch failure leaves the store untouched and the
// refresher back at idle; a commit failure is surfaced so the caller does
// not report a success it did not achieve.
func (r *Refresher) Trigger(ctx context.Context, day time.Time) error {
	if !r.mu.TryLock() {
		r.log.Debug("refresh already in flight, trigger ignored")
		return nil
	}
	defer r.mu.Unlock()
	defer r.state.Store(int32(StateIdle))

	day = r.cal.StartOfDay(day)
	if r.store.IsFresh(day) {
		r.log.WithFields(map[string]interface{}{
			"day": day.Format("2006-01-02"),
		}).Debug("stored programs already cover the selected day")
		return nil
	}

	r.state.Store(int32(StateFetching))
	guide, err := r.fetcher.Fetch(ctx, r.feedURL)
	if err != nil {
		r.log.WithFields(map[string]interface{}{
			"day": day.Format("2006-01-02"),
		}).Error("guide fetch failed, keeping existing data", err)
		return err
	}

	favorites, err := r.catalog.Favorites()
	if err != nil {
		return err
	}

	programs := r.collect(guide, favorites, day)

	r.state.Store(int32(StateCommitting))
	if err := r.store.ReplaceAll(day, programs); err != nil {
		return err
	}

	r.log.WithFields(map[string]interface{}{
		"day":      day.Format("2006-01-02"),
		"channels": len(favorites),
		"programs": len(programs),
	}).Info("guide refresh committed")
	return nil
}

// TriggerAsync runs Trigger off the calling goroutine and reports the
// outcome through done, which may be nil.
func (r *Refresher) TriggerAsync(ctx context.Context, day time.Time, done func(error)) {
	go func() {
		err := r.Trigger(ctx, day)
		if done != nil {
			done(err)
		}
	}()
}

// collect filters the fetched guide down to what the store should hold:
// programs of favorited channels, on the target day, meeting the minimum
// duration. Channels with no favorite mapping are skipped entirely.
func (r *Refresher) collect(guide *feed.Guide, favorites []models.Channel, day time.Time) []models.Program {
	var programs []models.Program
	for _, channel := range favorites {
		for _, raw := range guide.ProgramsByChannel[channel.XMLTVID] {
			if raw.Start.IsZero() || !r.cal.SameDay(raw.Start, day) {
				continue
			}
			stop := raw.Stop
			if stop.IsZero() {
				stop = raw.Start.Add(time.Hour)
			}
			if stop.Sub(raw.Start) < r.minDuration {
				continue
			}

			title := raw.Title
			if title == "" {
				title = "No Title"
			}
			programs = append(programs, models.Program{
				Start:       raw.Start,
				Stop:        stop,
				ChannelID:   channel.XMLTVID,
				ChannelName: channel.Name,
				Title:       title,
				Description: optional(raw.Description),
				AiredDate:   optional(raw.Date),
				Episode:     optional(raw.Episode),
				Icon:        optional(raw.Icon),
			})
		}
	}
	return programs
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
