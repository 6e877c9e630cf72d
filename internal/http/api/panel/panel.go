// Package panel registers the management-panel API surface.
package panel

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/novaray/panel/internal/adminlink"
	"github.com/novaray/panel/internal/config"
	handlers "github.com/novaray/panel/internal/http/api/panel/handlers"
	"gorm.io/gorm"
)

// RegisterPanelRoutes registers the panel routes and handlers.
func RegisterPanelRoutes(r *gin.Engine, db *gorm.DB, gate *adminlink.Gate, cfg config.ServerConfig) {
	if r == nil || db == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Healthz)

	userHandler := handlers.NewUserHandler(db)
	r.GET("/users", userHandler.List)
	r.GET("/users/:id", userHandler.Get)
	r.POST("/users", userHandler.Create)
	r.PUT("/users/:id", userHandler.Update)
	r.DELETE("/users/:id", userHandler.Delete)

	domainHandler := handlers.NewDomainHandler(db)
	r.GET("/domains", domainHandler.List)
	r.GET("/domains/:id", domainHandler.Get)
	r.POST("/domains", domainHandler.Create)
	r.PUT("/domains/:id", domainHandler.Update)
	r.DELETE("/domains/:id", domainHandler.Delete)

	settingHandler := handlers.NewSettingHandler(db)
	r.GET("/settings/admin", settingHandler.ListAll)
	r.POST("/settings", settingHandler.Create)
	r.PUT("/settings/:id", settingHandler.Update)
	r.DELETE("/settings/:id", settingHandler.Delete)

	subscriptionHandler := handlers.NewSubscriptionHandler(db, cfg.SubscriptionBaseURL)
	r.GET("/settings/subscription/:uuid", subscriptionHandler.Info)
	r.GET("/settings/copy-config/:uuid", subscriptionHandler.CopyConfig)
	r.GET("/settings/generate-link/:uuid", subscriptionHandler.GenerateLink)

	adminHandler := handlers.NewAdminLinkHandler(gate, cfg.ServerIP)
	r.GET("/retrieve-admin-link", adminHandler.Retrieve)

	// The admin token shares its path segment with the "admin-" prefix, which
	// gin route parameters cannot express, so the gate hangs off NoRoute.
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/admin-") {
			adminHandler.Entry(c)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "The requested resource was not found."})
	})
}
