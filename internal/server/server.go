package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andex/events-backend/config"
	"github.com/andex/events-backend/internal/cache"
	"github.com/andex/events-backend/internal/handlers"
	"github.com/andex/events-backend/internal/middleware"
)

func Start(cfg *config.Config, log *zap.Logger) error {
	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	var cacheClient *cache.Client
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		cacheClient, err = cache.New(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CategoryTTL)
		cancel()
		if err != nil {
			// The cache is an optimization; run without it rather than fail.
			log.Warn("redis unavailable, category cache disabled", zap.Error(err))
			cacheClient = nil
		} else {
			defer cacheClient.Close()
			log.Info("redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	setupRoutes(r, db, cfg, cacheClient)

	log.Info("server listening",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)
	return r.Run(cfg.Server.Addr())
}

func setupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, cacheClient *cache.Client) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.ConfigMiddleware(cfg))
	r.Use(middleware.CacheMiddleware(cacheClient))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": cfg.App.Name + " API is running"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	public := r.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
		}

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
		}

		mapData := public.Group("/map")
		{
			mapData.GET("/events", handlers.GetEventsInBounds)
			mapData.GET("/categories", handlers.GetEventCategories)
		}
	}

	protected := r.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
			eventProtected.POST("/:id/register", handlers.RegisterForEvent)
		}

		users := protected.Group("/users")
		{
			users.GET("/me", handlers.GetCurrentUser)
			users.PUT("/me", handlers.UpdateCurrentUser)
			users.GET("/me/events", handlers.GetUserEvents)
			users.GET("/me/registrations", handlers.GetUserRegistrations)
		}
	}
}
