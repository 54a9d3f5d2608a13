package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmilne/telegrid/internal/api"
	"github.com/cmilne/telegrid/internal/catalog"
	"github.com/cmilne/telegrid/internal/clock"
	"github.com/cmilne/telegrid/internal/config"
	"github.com/cmilne/telegrid/internal/database"
	"github.com/cmilne/telegrid/internal/feed"
	"github.com/cmilne/telegrid/internal/logger"
	"github.com/cmilne/telegrid/internal/refresher"
	"github.com/cmilne/telegrid/internal/settings"
	"github.com/cmilne/telegrid/internal/shutdown"
	"github.com/cmilne/telegrid/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the guide API server",
	Long: `Start the HTTP API: channel discovery, favorites, settings, the
positioned guide grid, and the refresh trigger. The store is warmed with
today's listings on startup.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func runServe() error {
	cfg := config.Get()
	log := logger.AppLogger()

	if err := database.Initialize(); err != nil {
		return err
	}

	cal, err := clock.NewCalendar(cfg.Guide.Timezone)
	if err != nil {
		return err
	}

	db := database.Get()
	cat := catalog.New(db)
	programs := store.New(db, cal)
	fetcher := feed.NewClient(time.Duration(cfg.Feed.TimeoutSeconds) * time.Second)

	ref := refresher.New(refresher.Options{
		FeedURL:     cfg.Feed.URL,
		Fetcher:     fetcher,
		Store:       programs,
		Catalog:     cat,
		Calendar:    cal,
		MinDuration: time.Duration(cfg.Guide.MinProgramDurationSeconds) * time.Second,
	})

	st := settings.New(cal, settings.Options{
		StartHour:        cfg.Guide.StartHour,
		PointsPerMinute:  cfg.Guide.PointsPerMinute,
		MinProgramWidth:  cfg.Guide.MinProgramWidth,
		RowHeight:        cfg.Guide.RowHeight,
		PersistStartHour: config.SaveStartHour,
	})

	// A day change makes the store stale for the new day.
	st.Subscribe(func(snap settings.Snapshot) {
		ref.TriggerAsync(context.Background(), snap.ChosenDay, nil)
	})

	srv := api.NewServer(api.Options{
		Catalog:     cat,
		Programs:    programs,
		Settings:    st,
		Refresher:   ref,
		Fetcher:     fetcher,
		Calendar:    cal,
		FeedURL:     cfg.Feed.URL,
		HealthCheck: database.HealthCheck,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: srv.Handler(),
	}

	sd := shutdown.New(30 * time.Second)
	sd.Register("database", func(ctx context.Context) error {
		return database.Close()
	})
	sd.Register("http server", func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})

	// Warm the store with today's listings before the first guide request.
	ref.TriggerAsync(context.Background(), time.Now(), nil)

	go func() {
		log.WithFields(map[string]interface{}{
			"port": cfg.API.Port,
		}).Info("api server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("api server failed", err)
		}
	}()

	sd.Wait()
	return nil
}
