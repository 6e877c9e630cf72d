package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novaray/panel/internal/models"
	"github.com/novaray/panel/internal/validation"
)

// respondError writes the process-wide error envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// respondValidation writes a 422 envelope with field-level details.
func respondValidation(c *gin.Context, details []*validation.FieldError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "Validation error occurred.",
		"details": details,
	})
}

// respondNotFound writes the normalized 404 envelope.
func respondNotFound(c *gin.Context, message string) {
	respondError(c, http.StatusNotFound, message)
}

// userView maps a user row to its stable response shape.
func userView(u *models.User) gin.H {
	return gin.H{
		"id":                       u.ID,
		"username":                 u.Username,
		"uuid":                     u.UUID,
		"traffic_limit":            u.TrafficLimit,
		"usage_duration":           u.UsageDuration,
		"simultaneous_connections": u.SimultaneousConnections,
		"is_active":                u.Active,
		"created_at":               u.CreatedAt,
		"updated_at":               u.UpdatedAt,
	}
}

// domainView maps a domain row to its stable response shape.
func domainView(d *models.Domain) gin.H {
	return gin.H{
		"id":          d.ID,
		"name":        d.Name,
		"description": d.Description,
		"owner_id":    d.OwnerID,
		"created_at":  d.CreatedAt,
		"updated_at":  d.UpdatedAt,
	}
}

// settingView maps a settings row to its stable response shape.
func settingView(s *models.Setting) gin.H {
	return gin.H{
		"id":                   s.ID,
		"language":             s.Language,
		"theme":                s.Theme,
		"enable_notifications": s.EnableNotifications,
		"preferences":          s.Preferences,
		"created_at":           s.CreatedAt,
		"updated_at":           s.UpdatedAt,
	}
}

// subscriptionView is the reduced user view served to subscription consumers.
func subscriptionView(u *models.User) gin.H {
	return gin.H{
		"username":                 u.Username,
		"uuid":                     u.UUID,
		"traffic_limit":            u.TrafficLimit,
		"usage_duration":           u.UsageDuration,
		"simultaneous_connections": u.SimultaneousConnections,
	}
}
