// Package shutdown coordinates graceful teardown. Handlers run in LIFO
// order so resources close in the reverse of their start order.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cmilne/telegrid/internal/logger"
)

// Handler is a named teardown step
type Handler struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Manager collects teardown handlers and runs them on shutdown
type Manager struct {
	mu       sync.Mutex
	handlers []Handler
	timeout  time.Duration
	log      *logger.Logger
}

// New creates a shutdown manager with the given per-run timeout
func New(timeout time.Duration) *Manager {
	return &Manager{
		timeout: timeout,
		log:     logger.AppLogger(),
	}
}

// Register adds a teardown handler. Handlers run in reverse registration order.
func (m *Manager) Register(name string, fn func(ctx context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, Handler{Name: name, Fn: fn})
}

// Wait blocks until SIGINT or SIGTERM arrives, then runs all handlers.
func (m *Manager) Wait() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig

	m.log.WithFields(map[string]interface{}{
		"signal": received.String(),
	}).Info("shutdown signal received")
	m.Run()
}

// Run executes all registered handlers in LIFO order, logging failures
// but never aborting the sequence.
func (m *Manager) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.mu.Lock()
	handlers := make([]Handler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		h := handlers[i]
		if err := h.Fn(ctx); err != nil {
			m.log.WithFields(map[string]interface{}{
				"handler": h.Name,
			}).Error("shutdown handler failed", err)
			continue
		}
		m.log.WithFields(map[string]interface{}{
			"handler": h.Name,
		}).Debug("shutdown handler completed")
	}
}
