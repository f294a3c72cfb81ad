package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andex/events-backend/internal/geo"
	"github.com/andex/events-backend/internal/helpers"
	"github.com/andex/events-backend/internal/middleware"
	"github.com/andex/events-backend/internal/models"
)

type EventCreateRequest struct {
	Title         string    `json:"title" binding:"required"`
	Description   *string   `json:"description"`
	StartDatetime time.Time `json:"start_datetime" binding:"required"`
	EndDatetime   time.Time `json:"end_datetime" binding:"required"`
	LocationName  string    `json:"location_name" binding:"required"`
	Address       string    `json:"address" binding:"required"`
	Latitude      *float64  `json:"latitude" binding:"required"`
	Longitude     *float64  `json:"longitude" binding:"required"`
	Category      *string   `json:"category"`
	Price         float64   `json:"price"`
	MaxAttendees  *int      `json:"max_attendees"`
	ImageURL      *string   `json:"image_url"`
}

// EventUpdateRequest carries a sparse patch: only non-nil fields are applied.
type EventUpdateRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	StartDatetime *time.Time `json:"start_datetime"`
	EndDatetime   *time.Time `json:"end_datetime"`
	LocationName  *string    `json:"location_name"`
	Address       *string    `json:"address"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	Category      *string    `json:"category"`
	Price         *float64   `json:"price"`
	MaxAttendees  *int       `json:"max_attendees"`
	ImageURL      *string    `json:"image_url"`
}

func CreateEvent(c *gin.Context) {
	var req EventCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	gormDB := middleware.GetDB(c)

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	event := models.Event{
		Title:         req.Title,
		Description:   req.Description,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		LocationName:  req.LocationName,
		Address:       req.Address,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		Category:      req.Category,
		Price:         req.Price,
		MaxAttendees:  req.MaxAttendees,
		ImageURL:      req.ImageURL,
		IsActive:      true,
		OrganizerID:   user.ID,
	}

	if err := gormDB.Omit(clause.Associations).Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	event.Organizer = user
	c.JSON(http.StatusOK, event)
}

func ListEvents(c *gin.Context) {
	gormDB := middleware.GetDB(c)

	skip, err := helpers.StringToInt(c.DefaultQuery("skip", "0"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid skip value.")
		return
	}
	limit, err := helpers.StringToInt(c.DefaultQuery("limit", "100"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit value.")
		return
	}

	lat, err := helpers.OptionalFloatQuery(c, "lat")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid lat value.")
		return
	}
	lng, err := helpers.OptionalFloatQuery(c, "lng")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid lng value.")
		return
	}
	radiusKm, err := helpers.OptionalFloatQuery(c, "radius_km")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid radius_km value.")
		return
	}

	query := gormDB.Model(&models.Event{}).Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	events := []models.Event{}
	if err := query.Preload("Organizer").Offset(skip).Limit(limit).Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	// The radius filter runs on the already-paginated page, so a full page can
	// shrink or empty out when lat/lng/radius_km are present.
	if lat != nil && lng != nil && radiusKm != nil {
		filtered := []models.Event{}
		for _, event := range events {
			if geo.DistanceKm(*lat, *lng, event.Latitude, event.Longitude) <= *radiusKm {
				filtered = append(filtered, event)
			}
		}
		events = filtered
	}

	c.JSON(http.StatusOK, events)
}

func GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	gormDB := middleware.GetDB(c)

	// Soft-deleted events stay fetchable here; is_active only gates the list
	// and map queries.
	var event models.Event
	if err := gormDB.Preload("Organizer").Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req EventUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := middleware.GetDB(c)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	if event.OrganizerID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "Not authorized to update this event.")
		return
	}

	applyEventPatch(&event, &req)

	if err := gormDB.Omit(clause.Associations).Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	if err := gormDB.Where("id = ?", event.OrganizerID).First(&event.Organizer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event organizer.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func applyEventPatch(event *models.Event, req *EventUpdateRequest) {
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.StartDatetime != nil {
		event.StartDatetime = *req.StartDatetime
	}
	if req.EndDatetime != nil {
		event.EndDatetime = *req.EndDatetime
	}
	if req.LocationName != nil {
		event.LocationName = *req.LocationName
	}
	if req.Address != nil {
		event.Address = *req.Address
	}
	if req.Latitude != nil {
		event.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		event.Longitude = *req.Longitude
	}
	if req.Category != nil {
		event.Category = req.Category
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.MaxAttendees != nil {
		event.MaxAttendees = req.MaxAttendees
	}
	if req.ImageURL != nil {
		event.ImageURL = req.ImageURL
	}
}

func DeleteEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	gormDB := middleware.GetDB(c)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	if event.OrganizerID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "Not authorized to delete this event.")
		return
	}

	// Logical delete only; registrations are left untouched.
	if err := gormDB.Model(&event).Update("is_active", false).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

func RegisterForEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	gormDB := middleware.GetDB(c)

	// Inactive or past events and max_attendees are deliberately not checked
	// here; see DESIGN.md.
	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	var existing models.EventRegistration
	result := gormDB.Where("user_id = ? AND event_id = ?", userID, eventID).First(&existing)
	if result.Error == nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Already registered for this event.")
		return
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking registration.")
		return
	}

	registration := models.EventRegistration{
		UserID:  userID,
		EventID: eventID,
	}

	if err := gormDB.Omit(clause.Associations).Create(&registration).Error; err != nil {
		// The unique index closes the window between the check above and this
		// insert under concurrent requests.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			helpers.RespondWithError(c, http.StatusBadRequest, "Already registered for this event.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to register for event.")
		return
	}

	c.JSON(http.StatusOK, registration)
}
