package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/novaray/panel/internal/models"
	"gorm.io/gorm"
)

// SubscriptionHandler serves the reduced user view keyed by UUID and builds
// subscription links. The subscription-info and copy-config endpoints are
// thin callers over one lookup.
type SubscriptionHandler struct {
	db      *gorm.DB
	baseURL string
}

// NewSubscriptionHandler constructs a SubscriptionHandler.
func NewSubscriptionHandler(db *gorm.DB, baseURL string) *SubscriptionHandler {
	return &SubscriptionHandler{db: db, baseURL: baseURL}
}

// lookup fetches a user by UUID and writes the reduced view, or a 404.
func (h *SubscriptionHandler) lookup(c *gin.Context) {
	userUUID := strings.TrimSpace(c.Param("uuid"))
	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).Where("uuid = ?", userUUID).First(&user).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondNotFound(c, "User not found.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}
	c.JSON(http.StatusOK, subscriptionView(&user))
}

// Info returns the subscription view for a user UUID.
func (h *SubscriptionHandler) Info(c *gin.Context) {
	h.lookup(c)
}

// CopyConfig returns the same reduced view for config copying.
func (h *SubscriptionHandler) CopyConfig(c *gin.Context) {
	h.lookup(c)
}

// GenerateLink templates the subscription link for a UUID. The UUID is not
// checked against the store; the link resolves through Info later.
func (h *SubscriptionHandler) GenerateLink(c *gin.Context) {
	userUUID := strings.TrimSpace(c.Param("uuid"))
	c.JSON(http.StatusOK, gin.H{"link": h.baseURL + userUUID})
}
