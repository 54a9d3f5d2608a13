package models

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestChannel_TableName(t *testing.T) {
	ch := Channel{}
	expected := "channels"
	if ch.TableName() != expected {
		t.Errorf("expected table name %s, got %s", expected, ch.TableName())
	}
}

func TestProgram_TableName(t *testing.T) {
	p := Program{}
	expected := "programs"
	if p.TableName() != expected {
		t.Errorf("expected table name %s, got %s", expected, p.TableName())
	}
}

func TestNewChannel_SortKey(t *testing.T) {
	tests := []struct {
		name     string
		wantSort string
	}{
		{"BBC One", "BBC One"},
		{"  ITV ", "ITV"},
		{"\tChannel 4", "Channel 4"},
	}

	for _, tc := range tests {
		ch := NewChannel(tc.name, "", "ch.example")
		if ch.SortName != tc.wantSort {
			t.Errorf("NewChannel(%q): expected sort key %q, got %q", tc.name, tc.wantSort, ch.SortName)
		}
		if ch.Name != tc.name {
			t.Errorf("NewChannel(%q): display name must be kept verbatim, got %q", tc.name, ch.Name)
		}
	}
}

func TestNewChannel_XMLTVIDFallback(t *testing.T) {
	ch := NewChannel("BBC One", "", "")
	if ch.XMLTVID != "BBC One" {
		t.Errorf("expected XMLTVID to fall back to name, got %q", ch.XMLTVID)
	}

	ch = NewChannel("BBC One", "", "bbc1.uk")
	if ch.XMLTVID != "bbc1.uk" {
		t.Errorf("expected XMLTVID 'bbc1.uk', got %q", ch.XMLTVID)
	}
}

func TestNewChannel_Defaults(t *testing.T) {
	ch := NewChannel("BBC One", "", "bbc1.uk")
	if !ch.Favorite {
		t.Error("a channel added by the user starts out favorited")
	}
}

func TestProgram_BeforeCreate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&Program{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	p := Program{
		Start:     time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		Stop:      time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC),
		ChannelID: "bbc1.uk",
		Title:     "News",
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to create program: %v", err)
	}
	if p.ID == "" {
		t.Error("expected a generated id")
	}

	fixed := Program{
		ID:        "fixed-id",
		Start:     p.Start,
		Stop:      p.Stop,
		ChannelID: "bbc1.uk",
		Title:     "News",
	}
	if err := db.Create(&fixed).Error; err != nil {
		t.Fatalf("failed to create program: %v", err)
	}
	if fixed.ID != "fixed-id" {
		t.Errorf("a preset id must not be overwritten, got %q", fixed.ID)
	}
}

func TestProgram_BeforeCreatePinsUTC(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&Program{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}
	start := time.Date(2025, 7, 1, 0, 30, 0, 0, london) // 23:30 UTC the day before

	p := Program{
		Start:     start,
		Stop:      start.Add(time.Hour),
		ChannelID: "bbc1.uk",
		Title:     "Midnight Movie",
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to create program: %v", err)
	}

	if p.Start.Location() != time.UTC {
		t.Errorf("expected start pinned to UTC, got %v", p.Start.Location())
	}
	if p.Stop.Location() != time.UTC {
		t.Errorf("expected stop pinned to UTC, got %v", p.Stop.Location())
	}
	if !p.Start.Equal(start) {
		t.Errorf("pinning must not shift the instant: %v != %v", p.Start, start)
	}
}

func TestProgram_Duration(t *testing.T) {
	p := Program{
		Start: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		Stop:  time.Date(2025, 1, 1, 11, 30, 0, 0, time.UTC),
	}
	if p.Duration() != 90*time.Minute {
		t.Errorf("expected 90m, got %v", p.Duration())
	}
}
