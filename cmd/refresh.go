package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmilne/telegrid/internal/catalog"
	"github.com/cmilne/telegrid/internal/clock"
	"github.com/cmilne/telegrid/internal/config"
	"github.com/cmilne/telegrid/internal/database"
	apperrors "github.com/cmilne/telegrid/internal/errors"
	"github.com/cmilne/telegrid/internal/feed"
	"github.com/cmilne/telegrid/internal/refresher"
	"github.com/cmilne/telegrid/internal/retry"
	"github.com/cmilne/telegrid/internal/store"
)

var refreshDay string

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the feed and replace the stored guide day once",
	Long: `Download the XMLTV feed and replace the stored listings for one day,
limited to favorited channels. Transient feed and connection failures are
retried with exponential backoff; a day whose data is already stored is
left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRefresh(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	refreshCmd.Flags().StringVar(&refreshDay, "day", "today", "guide day: today, tomorrow, or YYYY-MM-DD")
}

func runRefresh() error {
	cfg := config.Get()

	if err := database.Initialize(); err != nil {
		return err
	}
	defer database.Close()

	cal, err := clock.NewCalendar(cfg.Guide.Timezone)
	if err != nil {
		return err
	}

	day, err := cal.ResolveDay(refreshDay, time.Now())
	if err != nil {
		return err
	}

	db := database.Get()
	programs := store.New(db, cal)
	ref := refresher.New(refresher.Options{
		FeedURL:     cfg.Feed.URL,
		Fetcher:     feed.NewClient(time.Duration(cfg.Feed.TimeoutSeconds) * time.Second),
		Store:       programs,
		Catalog:     catalog.New(db),
		Calendar:    cal,
		MinDuration: time.Duration(cfg.Guide.MinProgramDurationSeconds) * time.Second,
	})

	ctx := context.Background()
	err = retry.Do(ctx, retry.DefaultConfig(), func() error {
		return ref.Trigger(ctx, day)
	}, apperrors.IsRetryable)
	if err != nil {
		return err
	}

	fmt.Printf("Guide refreshed for %s: %d programs stored\n", day.Format("2006-01-02"), programs.Count())
	return nil
}
