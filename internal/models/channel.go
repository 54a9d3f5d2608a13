package models

import (
	"strings"
	"time"
)

// Channel represents a channel the user has added to their personal guide.
// Channels are only ever created and removed by explicit user action; the
// feed ingestion never touches this table.
type Channel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Icon      string    `gorm:"type:text" json:"icon"`
	XMLTVID   string    `gorm:"type:varchar(255);not null;index" json:"xmltv_id"`
	SortName  string    `gorm:"type:varchar(255);not null;index" json:"sort_name"`
	Favorite  bool      `gorm:"not null;default:true" json:"favorite"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for Channel
func (Channel) TableName() string {
	return "channels"
}

// NewChannel builds a channel record. The sort key is derived from the name
// once, here; a rename upstream requires creating a new record.
func NewChannel(name, icon, xmltvID string) Channel {
	if xmltvID == "" {
		xmltvID = name
	}
	return Channel{
		Name:     name,
		Icon:     icon,
		XMLTVID:  xmltvID,
		SortName: strings.TrimSpace(name),
		Favorite: true,
	}
}
