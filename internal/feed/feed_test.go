package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/cmilne/telegrid/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<tv generator-info-name="test">
  <channel id="bbc1.uk">
    <display-name>BBC One</display-name>
    <icon src="http://example.com/bbc1.png"/>
  </channel>
  <channel id="itv.uk">
    <display-name>ITV</display-name>
  </channel>
  <channel id="mystery.uk"/>
  <programme start="20250101100000 +0000" stop="20250101110000 +0000" channel="bbc1.uk">
    <title>Morning News</title>
    <desc>The day's headlines.</desc>
    <date>20250101</date>
    <episode-num system="onscreen">S01E01</episode-num>
    <icon src="http://example.com/news.png"/>
  </programme>
  <programme start="20250101110000 +0000" stop="20250101113000 +0000" channel="bbc1.uk">
    <title>Weather</title>
  </programme>
  <programme start="20250101100000 +0000" stop="20250101120000 +0000" channel="itv.uk">
    <title>Breakfast Show</title>
  </programme>
</tv>`

func TestFetch_ParsesDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleDocument))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	guide, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	require.Len(t, guide.Channels, 3)
	assert.Equal(t, "bbc1.uk", guide.Channels[0].ID)
	assert.Equal(t, "BBC One", guide.Channels[0].Name)
	assert.Equal(t, "http://example.com/bbc1.png", guide.Channels[0].Icon)

	// Optional fields default to empty, never fail the parse.
	assert.Equal(t, "", guide.Channels[1].Icon)
	assert.Equal(t, "", guide.Channels[2].Name)

	require.Len(t, guide.ProgramsByChannel["bbc1.uk"], 2)
	require.Len(t, guide.ProgramsByChannel["itv.uk"], 1)
	assert.Equal(t, 3, guide.ProgramCount())

	news := guide.ProgramsByChannel["bbc1.uk"][0]
	assert.Equal(t, "Morning News", news.Title)
	assert.Equal(t, "The day's headlines.", news.Description)
	assert.Equal(t, "S01E01", news.Episode)
	assert.Equal(t, "20250101", news.Date)
	assert.True(t, news.Start.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, news.Stop.Equal(time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)))
}

func TestFetch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFeedUnavailable, apperrors.GetErrorCode(err))
}

func TestFetch_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(time.Second)
	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFeedUnavailable, apperrors.GetErrorCode(err))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestFetch_MalformedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<tv><channel id="x">`))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFeedUnparsable, apperrors.GetErrorCode(err))
	assert.False(t, apperrors.IsRetryable(err))
}

func TestFetch_EmptyDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<tv></tv>`))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFeedUnparsable, apperrors.GetErrorCode(err))
}

func TestParseXMLTVTime(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"20250101100000 +0000", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"20250601193000 +0100", time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC)},
		{"20250101100000", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"not-a-time", time.Time{}},
	}

	for _, tc := range tests {
		got := parseXMLTVTime(tc.value)
		if !got.Equal(tc.want) {
			t.Errorf("parseXMLTVTime(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestFetch_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(0)
	_, err := client.Fetch(ctx, server.URL)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFeedUnavailable, apperrors.GetErrorCode(err))
}
