package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/jwt"
	"gorm.io/gorm"

	"github.com/eimonte/estate/internal/middleware"
	"github.com/eimonte/estate/internal/pkg"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules    []Module
	DB         *gorm.DB
	JWTService jwt.Service
	UploadDir  string
	PublicPath string
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if deps.JWTService == nil {
		return errors.New("jwt service is required")
	}

	// Uploaded images are served directly from disk.
	if deps.UploadDir != "" {
		r.Static(deps.PublicPath, deps.UploadDir)
	}

	api := r.Group("/api")
	api.GET("/health", healthHandler(deps.DB))

	// Public reads need no credentials; mutations require an admin token.
	public := api.Group("")
	admin := api.Group("")
	admin.Use(middleware.Auth(deps.JWTService), middleware.RequireAdmin())

	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(public, admin)
	}

	r.NoRoute(noRouteHandler())

	return nil
}

// healthHandler reports service and database health.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"success":   false,
					"message":   "Database unavailable",
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// noRouteHandler answers unknown paths with the same JSON envelope as the
// rest of the API.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, pkg.Response{
			Success: false,
			Message: "Route not found",
		})
	}
}
