package api

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ChannelResponse is one discoverable channel from the feed catalog
type ChannelResponse struct {
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	XMLTVID   string `json:"xmltv_id"`
	SortName  string `json:"sort_name"`
	Favorited bool   `json:"favorited"`
}

// FavoriteResponse is one stored favorite channel
type FavoriteResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	XMLTVID  string `json:"xmltv_id"`
	SortName string `json:"sort_name"`
}

// AddFavoriteRequest represents a favorite creation request
type AddFavoriteRequest struct {
	Name    string `json:"name" binding:"required"`
	Icon    string `json:"icon"`
	XMLTVID string `json:"xmltv_id"`
}

// UpdateSettingsRequest carries partial settings updates. Absent fields
// are left unchanged.
type UpdateSettingsRequest struct {
	StartHour *int    `json:"start_hour,omitempty"`
	ChosenDay *string `json:"chosen_day,omitempty"`
}

// ProgramResponse is one positioned program cell
type ProgramResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Episode     *string   `json:"episode,omitempty"`
	AiredDate   *string   `json:"aired_date,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	Start       time.Time `json:"start"`
	Stop        time.Time `json:"stop"`
	X           float64   `json:"x"`
	Width       float64   `json:"width"`
	NowOffset   *float64  `json:"now_offset,omitempty"`
}

// GuideRow is one favorite channel with its positioned programs
type GuideRow struct {
	Channel  FavoriteResponse  `json:"channel"`
	Programs []ProgramResponse `json:"programs"`
}

// GuideResponse is the rendered guide for one day
type GuideResponse struct {
	Day           string      `json:"day"`
	TimelineStart time.Time   `json:"timeline_start"`
	Slots         []time.Time `json:"slots"`
	RowHeight     float64     `json:"row_height"`
	Rows          []GuideRow  `json:"rows"`
}

// RefreshResponse reports the outcome of a refresh trigger
type RefreshResponse struct {
	State    string `json:"state"`
	Programs int64  `json:"programs"`
}
