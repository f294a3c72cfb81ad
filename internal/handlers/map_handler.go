package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andex/events-backend/internal/helpers"
	"github.com/andex/events-backend/internal/middleware"
	"github.com/andex/events-backend/internal/models"
)

// MapBoundsRequest uses pointer fields so boundary values of 0 still satisfy
// the required binding.
type MapBoundsRequest struct {
	North    *float64 `form:"north" binding:"required"`
	South    *float64 `form:"south" binding:"required"`
	East     *float64 `form:"east" binding:"required"`
	West     *float64 `form:"west" binding:"required"`
	Category string   `form:"category"`
}

type EventsMapResponse struct {
	Events     []models.Event `json:"events"`
	TotalCount int            `json:"total_count"`
}

// GetEventsInBounds returns active events inside the closed rectangle
// [south, north] x [west, east]. A box with west > east matches nothing.
func GetEventsInBounds(c *gin.Context) {
	var req MapBoundsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing or invalid map bounds.")
		return
	}

	gormDB := middleware.GetDB(c)

	query := gormDB.Model(&models.Event{}).
		Where("is_active = ?", true).
		Where("latitude >= ? AND latitude <= ?", *req.South, *req.North).
		Where("longitude >= ? AND longitude <= ?", *req.West, *req.East)

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	events := []models.Event{}
	if err := query.Preload("Organizer").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, EventsMapResponse{
		Events:     events,
		TotalCount: len(events),
	})
}

// GetEventCategories returns the distinct non-null categories across all
// events, served through the redis cache when one is configured.
func GetEventCategories(c *gin.Context) {
	ctx := c.Request.Context()

	if cacheClient := middleware.GetCache(c); cacheClient != nil {
		if categories, err := cacheClient.GetCategories(ctx); err == nil {
			c.JSON(http.StatusOK, categories)
			return
		}
	}

	gormDB := middleware.GetDB(c)

	categories := []string{}
	err := gormDB.Model(&models.Event{}).
		Distinct().
		Where("category IS NOT NULL").
		Pluck("category", &categories).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving categories.")
		return
	}

	if cacheClient := middleware.GetCache(c); cacheClient != nil {
		// Best effort; a failed write just means the next request hits the
		// database again.
		_ = cacheClient.SetCategories(ctx, categories)
	}

	c.JSON(http.StatusOK, categories)
}
