// Package catalog merges feed channels with the user's favorites. Row order
// and row count of the rendered grid are driven entirely by the favorites
// set, never by the full feed catalog.
package catalog

import (
	"strings"

	apperrors "github.com/cmilne/telegrid/internal/errors"
	"github.com/cmilne/telegrid/internal/feed"
	"github.com/cmilne/telegrid/internal/logger"
	"github.com/cmilne/telegrid/internal/models"
	"gorm.io/gorm"
)

// unknownChannelName is the placeholder for feed channels with no display name.
const unknownChannelName = "Unknown"

// Entry is one discoverable channel, as presented to the selection screen.
type Entry struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	XMLTVID   string `json:"xmltv_id"`
	SortName  string `json:"sort_name"`
	Favorited bool   `json:"favorited"`
}

// Discover converts raw feed channels into catalog entries: names are
// defaulted and trimmed for the sort key, icons default to empty, and a
// missing external id falls back to the display name. Pure; two calls with
// the same input produce the same catalog.
func Discover(raw []feed.RawChannel) []Entry {
	entries := make([]Entry, 0, len(raw))
	for _, ch := range raw {
		name := ch.Name
		if name == "" {
			name = unknownChannelName
		}
		id := ch.ID
		if id == "" {
			id = name
		}
		entries = append(entries, Entry{
			Name:     name,
			Icon:     ch.Icon,
			XMLTVID:  id,
			SortName: strings.TrimSpace(name),
		})
	}
	return entries
}

// Merge annotates entries with whether a favorite of the same display name
// already exists. Matching by name rather than external id mirrors the feed's
// own favorite semantics; see DESIGN.md for the trade-off.
func Merge(entries []Entry, favorites []models.Channel) []Entry {
	byName := make(map[string]bool, len(favorites))
	for _, fav := range favorites {
		byName[fav.Name] = true
	}

	merged := make([]Entry, len(entries))
	for i, e := range entries {
		e.Favorited = byName[e.Name]
		merged[i] = e
	}
	return merged
}

// Catalog manages the persistent favorites set.
type Catalog struct {
	db  *gorm.DB
	log *logger.Logger
}

// New creates a catalog over the given database handle.
func New(db *gorm.DB) *Catalog {
	return &Catalog{db: db, log: logger.AppLogger()}
}

// Favorites returns all favorited channels ordered by sort key.
func (c *Catalog) Favorites() ([]models.Channel, error) {
	var channels []models.Channel
	err := c.db.
		Where("favorite = ?", true).
		Order("sort_name asc").
		Find(&channels).Error
	if err != nil {
		return nil, apperrors.PersistenceError("failed to load favorites", err)
	}
	return channels, nil
}

// FavoriteList is Favorites with the store's read-failure policy: failures
// are logged and reported as an empty list rather than propagated.
func (c *Catalog) FavoriteList() []models.Channel {
	channels, err := c.Favorites()
	if err != nil {
		c.log.Error("favorite list unavailable, rendering empty grid", err)
		return []models.Channel{}
	}
	return channels
}

// HasFavorite reports whether a favorite with the given display name exists.
// Callers adding favorites are expected to check first; AddFavorite itself
// does not deduplicate.
func (c *Catalog) HasFavorite(name string) (bool, error) {
	var count int64
	err := c.db.Model(&models.Channel{}).
		Where("name = ? AND favorite = ?", name, true).
		Count(&count).Error
	if err != nil {
		return false, apperrors.PersistenceError("failed to check favorite", err)
	}
	return count > 0, nil
}

// AddFavorite stores a new favorite built from a catalog entry.
func (c *Catalog) AddFavorite(entry Entry) (models.Channel, error) {
	channel := models.NewChannel(entry.Name, entry.Icon, entry.XMLTVID)
	if err := c.db.Create(&channel).Error; err != nil {
		return models.Channel{}, apperrors.PersistenceError("failed to add favorite", err)
	}
	c.log.WithFields(map[string]interface{}{
		"name":     channel.Name,
		"xmltv_id": channel.XMLTVID,
	}).Info("favorite added")
	return channel, nil
}

// RemoveFavorite deletes a favorite by its identity.
func (c *Catalog) RemoveFavorite(id uint) error {
	result := c.db.Delete(&models.Channel{}, id)
	if result.Error != nil {
		return apperrors.PersistenceError("failed to remove favorite", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFoundError("channel", "requested id")
	}
	c.log.WithFields(map[string]interface{}{"id": id}).Info("favorite removed")
	return nil
}
