package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/andex/events-backend/config"
	"github.com/andex/events-backend/internal/cache"
)

func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}

func GetDB(c *gin.Context) *gorm.DB {
	db, exists := c.Get("db")
	if !exists {
		return nil
	}
	return db.(*gorm.DB)
}

func ConfigMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	}
}

func GetConfig(c *gin.Context) *config.Config {
	cfg, exists := c.Get("config")
	if !exists {
		return nil
	}
	return cfg.(*config.Config)
}

// CacheMiddleware injects the redis cache client. The client may be nil when
// redis is disabled or unreachable; handlers treat a nil cache as a miss.
func CacheMiddleware(client *cache.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client != nil {
			c.Set("cache", client)
		}
		c.Next()
	}
}

func GetCache(c *gin.Context) *cache.Client {
	client, exists := c.Get("cache")
	if !exists {
		return nil
	}
	return client.(*cache.Client)
}
