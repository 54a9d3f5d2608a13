package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cmilne/telegrid/internal/catalog"
	apperrors "github.com/cmilne/telegrid/internal/errors"
	"github.com/cmilne/telegrid/internal/models"
	"github.com/cmilne/telegrid/internal/store"
)

const dayFormat = "2006-01-02"

func (s *Server) healthCheck(c *gin.Context) {
	if err := s.health(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (s *Server) listChannels(c *gin.Context) {
	guide, err := s.fetcher.Fetch(c.Request.Context(), s.feedURL)
	if err != nil {
		abortWithError(c, err)
		return
	}

	entries := catalog.Merge(catalog.Discover(guide.Channels), s.catalog.FavoriteList())

	channels := make([]ChannelResponse, len(entries))
	for i, e := range entries {
		channels[i] = ChannelResponse{
			Name:      e.Name,
			Icon:      e.Icon,
			XMLTVID:   e.XMLTVID,
			SortName:  e.SortName,
			Favorited: e.Favorited,
		}
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

func (s *Server) listFavorites(c *gin.Context) {
	favorites, err := s.catalog.Favorites()
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]FavoriteResponse, len(favorites))
	for i, fav := range favorites {
		out[i] = favoriteResponse(fav)
	}
	c.JSON(http.StatusOK, gin.H{"favorites": out})
}

func (s *Server) addFavorite(c *gin.Context) {
	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	exists, err := s.catalog.HasFavorite(req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if exists {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "already favorited",
			Message: "a favorite with this name already exists",
		})
		return
	}

	channel, err := s.catalog.AddFavorite(catalog.Entry{
		Name:    req.Name,
		Icon:    req.Icon,
		XMLTVID: req.XMLTVID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, favoriteResponse(channel))
}

func (s *Server) removeFavorite(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid id",
			Message: "favorite id must be a positive integer",
		})
		return
	}

	if err := s.catalog.RemoveFavorite(uint(id)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.settings.Snapshot())
}

func (s *Server) updateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	if req.StartHour != nil {
		if err := s.settings.SetStartHour(*req.StartHour); err != nil {
			abortWithError(c, err)
			return
		}
	}
	if req.ChosenDay != nil {
		day, err := s.cal.ResolveDay(*req.ChosenDay, s.now())
		if err != nil {
			abortWithError(c, err)
			return
		}
		s.settings.SetChosenDay(day)
	}

	c.JSON(http.StatusOK, s.settings.Snapshot())
}

func (s *Server) getGuide(c *gin.Context) {
	// Without an explicit ?day= the grid renders the day chosen through the
	// settings surface, so the two stay in step.
	day := s.settings.ChosenDay()
	if selector := c.Query("day"); selector != "" {
		var err error
		day, err = s.cal.ResolveDay(selector, s.now())
		if err != nil {
			abortWithError(c, err)
			return
		}
	}

	tl := s.settings.Timeline()
	tl.ReferenceDay = day
	now := s.now()

	favorites := s.catalog.FavoriteList()
	rows := make([]GuideRow, len(favorites))
	for i, fav := range favorites {
		programs := s.programs.Query(store.Filter{
			ChannelID:   fav.XMLTVID,
			Day:         day,
			SortByStart: true,
		})

		cells := make([]ProgramResponse, len(programs))
		for j := range programs {
			p := &programs[j]
			cell := ProgramResponse{
				ID:          p.ID,
				Title:       p.Title,
				Description: p.Description,
				Episode:     p.Episode,
				AiredDate:   p.AiredDate,
				Icon:        p.Icon,
				Start:       p.Start,
				Stop:        p.Stop,
				X:           tl.XPosition(p),
				Width:       tl.Width(p),
			}
			if !now.Before(p.Start) && now.Before(p.Stop) {
				offset := tl.NowOffset(p, now)
				cell.NowOffset = &offset
			}
			cells[j] = cell
		}

		rows[i] = GuideRow{
			Channel:  favoriteResponse(fav),
			Programs: cells,
		}
	}

	c.JSON(http.StatusOK, GuideResponse{
		Day:           day.Format(dayFormat),
		TimelineStart: tl.TimelineStart(),
		Slots:         tl.TimeSlots(),
		RowHeight:     tl.RowHeight,
		Rows:          rows,
	})
}

func (s *Server) triggerRefresh(c *gin.Context) {
	day, err := s.cal.ResolveDay(c.Query("day"), s.now())
	if err != nil {
		abortWithError(c, err)
		return
	}

	if s.refresher.Refreshing() {
		c.JSON(http.StatusConflict, RefreshResponse{
			State:    s.refresher.State().String(),
			Programs: s.programs.Count(),
		})
		return
	}

	err = s.breaker.Execute(func() error {
		return s.refresher.Trigger(c.Request.Context(), day)
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		State:    s.refresher.State().String(),
		Programs: s.programs.Count(),
	})
}

func favoriteResponse(ch models.Channel) FavoriteResponse {
	return FavoriteResponse{
		ID:       ch.ID,
		Name:     ch.Name,
		Icon:     ch.Icon,
		XMLTVID:  ch.XMLTVID,
		SortName: ch.SortName,
	}
}

// abortWithError maps application error codes onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetErrorCode(err) {
	case apperrors.CodeValidation, apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeFeedUnavailable, apperrors.CodeFeedUnparsable:
		status = http.StatusBadGateway
	case apperrors.CodeCircuitOpen:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, ErrorResponse{
		Error:   string(apperrors.GetErrorCode(err)),
		Message: err.Error(),
	})
}
