package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Program is a single guide entry belonging to exactly one channel.
// Rows are created in bulk after a successful feed fetch and destroyed in
// bulk before the next one; there is no incremental update path.
type Program struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Start       time.Time `gorm:"not null;index" json:"start"`
	Stop        time.Time `gorm:"not null" json:"stop"`
	ChannelID   string    `gorm:"type:varchar(255);not null;index" json:"channel_id"`
	ChannelName string    `gorm:"type:varchar(255)" json:"channel_name"`
	Title       string    `gorm:"type:varchar(512);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	AiredDate   *string   `gorm:"type:varchar(32)" json:"aired_date,omitempty"`
	Episode     *string   `gorm:"type:varchar(64)" json:"episode,omitempty"`
	Icon        *string   `gorm:"type:text" json:"icon,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for Program
func (Program) TableName() string {
	return "programs"
}

// BeforeCreate assigns a generated identity when none is set and pins the
// instants to UTC. SQLite compares stored timestamps as text, so every row
// must carry the same offset for range filters and ordering to hold.
func (p *Program) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Start = p.Start.UTC()
	p.Stop = p.Stop.UTC()
	return nil
}

// Duration returns the scheduled length of the program
func (p *Program) Duration() time.Duration {
	return p.Stop.Sub(p.Start)
}
