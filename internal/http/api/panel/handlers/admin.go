package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/novaray/panel/internal/adminlink"
	log "github.com/sirupsen/logrus"
)

// AdminLinkHandler serves the admin-link gate endpoints.
type AdminLinkHandler struct {
	gate     *adminlink.Gate
	serverIP string
}

// NewAdminLinkHandler constructs an AdminLinkHandler.
func NewAdminLinkHandler(gate *adminlink.Gate, serverIP string) *AdminLinkHandler {
	return &AdminLinkHandler{gate: gate, serverIP: serverIP}
}

// rotateSuffix is the trailing segment of the gated rotation endpoint.
const rotateSuffix = "/rotate"

// Entry handles any request under /admin-{token}: the gated admin entry on
// GET and the rotation operation on POST .../rotate. Token paths cannot be
// routed as parameters because the token shares a segment with the "admin-"
// prefix, so this runs from the router's NoRoute fallback.
func (h *AdminLinkHandler) Entry(c *gin.Context) {
	requestPath := c.Request.URL.Path

	if c.Request.Method == http.MethodPost && strings.HasSuffix(requestPath, rotateSuffix) {
		h.rotate(c, strings.TrimSuffix(requestPath, rotateSuffix))
		return
	}
	if c.Request.Method != http.MethodGet {
		c.Status(http.StatusNotFound)
		return
	}

	ok, errAuth := h.authorize(c, requestPath)
	if errAuth != nil || !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the admin panel!"})
}

// rotate replaces the admin link after the current one authorizes.
func (h *AdminLinkHandler) rotate(c *gin.Context, gatePath string) {
	ok, errAuth := h.authorize(c, gatePath)
	if errAuth != nil || !ok {
		return
	}
	link, errRotate := h.gate.Rotate(c.Request.Context(), h.serverIP)
	if errRotate != nil {
		respondError(c, http.StatusInternalServerError, "Rotate admin link failed.")
		return
	}
	log.Info("admin link rotated")
	c.JSON(http.StatusOK, gin.H{"admin_link": link})
}

// authorize runs the gate check and writes the failure response itself.
func (h *AdminLinkHandler) authorize(c *gin.Context, requestPath string) (bool, error) {
	ok, errAuth := h.gate.Authorize(requestPath)
	if errAuth != nil {
		if errors.Is(errAuth, adminlink.ErrNotIssued) {
			respondNotFound(c, "Admin link not found. Please reinstall the panel.")
			return false, errAuth
		}
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return false, errAuth
	}
	if !ok {
		respondError(c, http.StatusForbidden, "Invalid admin link.")
		return false, nil
	}
	return true, nil
}

// Retrieve returns the issued admin link, or an advisory message.
func (h *AdminLinkHandler) Retrieve(c *gin.Context) {
	link, errLink := h.gate.Link()
	if errLink != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Admin link not found. Please reinstall the panel."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin_link": link})
}
