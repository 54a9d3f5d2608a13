package testing

import (
	"testing"
	"time"

	"github.com/cmilne/telegrid/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB creates an in-memory SQLite database for testing
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Channel{},
		&models.Program{},
	); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// CreateChannel creates a test favorite channel
func CreateChannel(t *testing.T, db *gorm.DB, overrides ...func(*models.Channel)) *models.Channel {
	t.Helper()

	channel := models.NewChannel("BBC One", "http://example.com/bbc1.png", "bbc1.uk")
	for _, override := range overrides {
		override(&channel)
	}

	if err := db.Create(&channel).Error; err != nil {
		t.Fatalf("failed to create test channel: %v", err)
	}
	return &channel
}

// CreateProgram creates a test program starting at the given instant
func CreateProgram(t *testing.T, db *gorm.DB, start time.Time, overrides ...func(*models.Program)) *models.Program {
	t.Helper()

	program := models.Program{
		Start:       start,
		Stop:        start.Add(time.Hour),
		ChannelID:   "bbc1.uk",
		ChannelName: "BBC One",
		Title:       "Test Program",
	}
	for _, override := range overrides {
		override(&program)
	}

	if err := db.Create(&program).Error; err != nil {
		t.Fatalf("failed to create test program: %v", err)
	}
	return &program
}
