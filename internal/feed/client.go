// Package feed retrieves and parses the remote XMLTV guide document.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/cmilne/telegrid/internal/errors"
	"github.com/cmilne/telegrid/internal/logger"
)

// RawChannel is a channel as listed by the feed. Name and Icon may be empty.
type RawChannel struct {
	ID   string
	Name string
	Icon string
}

// RawProgram is a programme as listed by the feed. Start or Stop may be the
// zero instant when the document omitted or mangled them; consumers decide
// how to treat those.
type RawProgram struct {
	Start       time.Time
	Stop        time.Time
	Channel     string
	Title       string
	Description string
	Date        string
	Episode     string
	Icon        string
}

// Guide is the parsed intermediate representation of one feed document.
type Guide struct {
	Channels          []RawChannel
	ProgramsByChannel map[string][]RawProgram
}

// ProgramCount returns the total number of programmes across all channels.
func (g *Guide) ProgramCount() int {
	n := 0
	for _, progs := range g.ProgramsByChannel {
		n += len(progs)
	}
	return n
}

// Client fetches guide documents. Each Fetch issues an independent request;
// there is no shared response cache and no retry. Retry policy, if any,
// belongs to whoever drives the refresh.
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a feed client. A zero timeout means no bound on the
// request; a hung feed then blocks the caller indefinitely.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.AppLogger(),
	}
}

// NewClientWithLogger creates a feed client with a custom logger.
func NewClientWithLogger(timeout time.Duration, log *logger.Logger) *Client {
	c := NewClient(timeout)
	c.logger = log
	return c
}

// Fetch retrieves and parses the guide document at feedURL. The caller gets
// either a complete channel and programme set or an error; partial parses are
// never surfaced. Transport failures and non-2xx responses report as
// FEED_UNAVAILABLE, undecodable documents as FEED_UNPARSABLE.
func (c *Client) Fetch(ctx context.Context, feedURL string) (*Guide, error) {
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, apperrors.ValidationError(fmt.Sprintf("invalid feed URL %q", feedURL))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.FeedUnavailable("feed request failed", err).
			WithContext("url", feedURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.FeedUnavailable(
			fmt.Sprintf("feed returned status %d", resp.StatusCode), nil).
			WithContext("url", feedURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.FeedUnavailable("failed to read feed response", err).
			WithContext("url", feedURL)
	}

	guide, err := parseGuide(data)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"url":        feedURL,
		"channels":   len(guide.Channels),
		"programs":   guide.ProgramCount(),
		"elapsed_ms": time.Since(started).Milliseconds(),
	}).Info("guide feed fetched")

	return guide, nil
}
