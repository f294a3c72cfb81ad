package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/andex/events-backend/config"
	"github.com/andex/events-backend/internal/middleware"
	"github.com/andex/events-backend/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Andex Events", Version: "test"},
		JWT: config.JWTConfig{
			Secret:         "test-secret",
			AccessTokenTTL: 30 * time.Minute,
		},
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A uniquely named shared in-memory database so every pooled connection
	// sees the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Event{}, &models.EventRegistration{}))
	return db
}

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	cfg := testConfig()

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.ConfigMiddleware(cfg))
	r.Use(middleware.CacheMiddleware(nil))

	public := r.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", Register)
			auth.POST("/login", Login)
		}
		events := public.Group("/events")
		{
			events.GET("", ListEvents)
			events.GET("/:id", GetEvent)
		}
		mapData := public.Group("/map")
		{
			mapData.GET("/events", GetEventsInBounds)
			mapData.GET("/categories", GetEventCategories)
		}
	}

	protected := r.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		events := protected.Group("/events")
		{
			events.POST("", CreateEvent)
			events.PUT("/:id", UpdateEvent)
			events.DELETE("/:id", DeleteEvent)
			events.POST("/:id/register", RegisterForEvent)
		}
		users := protected.Group("/users")
		{
			users.GET("/me", GetCurrentUser)
			users.PUT("/me", UpdateCurrentUser)
			users.GET("/me/events", GetUserEvents)
			users.GET("/me/registrations", GetUserRegistrations)
		}
	}

	return r, db, cfg
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Email:          email,
		Username:       username,
		HashedPassword: string(hashed),
		IsActive:       true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, cfg *config.Config, user models.User) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"exp":     time.Now().Add(cfg.JWT.AccessTokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)
	return signed
}

func createTestEvent(t *testing.T, db *gorm.DB, organizer models.User, lat, lng float64, category *string, active bool) models.Event {
	t.Helper()

	event := models.Event{
		Title:         "Test Event",
		StartDatetime: time.Now().Add(24 * time.Hour),
		EndDatetime:   time.Now().Add(26 * time.Hour),
		LocationName:  "Test Venue",
		Address:       "1 Test Street",
		Latitude:      lat,
		Longitude:     lng,
		Category:      category,
		IsActive:      active,
		OrganizerID:   organizer.ID,
	}
	require.NoError(t, db.Omit("Organizer").Create(&event).Error)
	if !active {
		// GORM substitutes the default:true for a zero-value bool on insert,
		// so force the column after create.
		require.NoError(t, db.Model(&event).UpdateColumn("is_active", false).Error)
	}
	return event
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func strPtr(s string) *string { return &s }
