package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	dbutil "github.com/novaray/panel/internal/db"
	"github.com/novaray/panel/internal/models"
	"github.com/novaray/panel/internal/validation"
	"gorm.io/gorm"
)

// UserHandler manages user account endpoints.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// createUserRequest defines the request body for user creation.
type createUserRequest struct {
	Username                string `json:"username"`
	TrafficLimit            int64  `json:"traffic_limit"`
	UsageDuration           int64  `json:"usage_duration"`
	SimultaneousConnections int    `json:"simultaneous_connections"`
	IsActive                *bool  `json:"is_active"`
}

// Create validates input, generates the user UUID, and persists the record.
func (h *UserHandler) Create(c *gin.Context) {
	var body createUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	body.Username = strings.TrimSpace(body.Username)

	var details []*validation.FieldError
	if errField := validation.Username(body.Username); errField != nil {
		details = append(details, errField)
	}
	if errField := validation.TrafficLimit(body.TrafficLimit); errField != nil {
		details = append(details, errField)
	}
	if errField := validation.UsageDuration(body.UsageDuration); errField != nil {
		details = append(details, errField)
	}
	if errField := validation.SimultaneousConnections(body.SimultaneousConnections); errField != nil {
		details = append(details, errField)
	}
	if len(details) > 0 {
		respondValidation(c, details)
		return
	}

	ctx := c.Request.Context()
	var existing models.User
	if errFind := h.db.WithContext(ctx).Where("username = ?", body.Username).First(&existing).Error; errFind == nil {
		respondError(c, http.StatusConflict, "Username already exists.")
		return
	} else if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}

	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}
	now := time.Now().UTC()
	user := models.User{
		Username:                body.Username,
		UUID:                    uuid.NewString(),
		TrafficLimit:            body.TrafficLimit,
		UsageDuration:           body.UsageDuration,
		SimultaneousConnections: body.SimultaneousConnections,
		Active:                  active,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if errCreate := h.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
		respondError(c, http.StatusInternalServerError, "Create user failed.")
		return
	}
	c.JSON(http.StatusCreated, userView(&user))
}

// List returns users with optional case-insensitive filters.
func (h *UserHandler) List(c *gin.Context) {
	var (
		usernameQ = strings.TrimSpace(c.Query("username"))
		activeQ   = strings.TrimSpace(c.Query("active"))
	)

	q := h.db.WithContext(c.Request.Context()).Model(&models.User{})
	if usernameQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+usernameQ+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "username"), pattern)
	}
	if activeQ != "" {
		if active, errParse := strconv.ParseBool(activeQ); errParse == nil {
			q = q.Where("active = ?", active)
		}
	}

	var rows []models.User
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		respondError(c, http.StatusInternalServerError, "List users failed.")
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, userView(&rows[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns a user by ID.
func (h *UserHandler) Get(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respondError(c, http.StatusBadRequest, "Invalid id.")
		return
	}
	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondNotFound(c, "User not found.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}
	c.JSON(http.StatusOK, userView(&user))
}

// updateUserRequest defines the partial-update body: absent fields stay
// unchanged.
type updateUserRequest struct {
	Username                *string `json:"username"`
	TrafficLimit            *int64  `json:"traffic_limit"`
	UsageDuration           *int64  `json:"usage_duration"`
	SimultaneousConnections *int    `json:"simultaneous_connections"`
	IsActive                *bool   `json:"is_active"`
}

// Update applies only the supplied fields and always bumps updated_at.
func (h *UserHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respondError(c, http.StatusBadRequest, "Invalid id.")
		return
	}
	var body updateUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	var details []*validation.FieldError
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Username != nil {
		username := strings.TrimSpace(*body.Username)
		if errField := validation.Username(username); errField != nil {
			details = append(details, errField)
		} else {
			updates["username"] = username
		}
	}
	if body.TrafficLimit != nil {
		if errField := validation.TrafficLimit(*body.TrafficLimit); errField != nil {
			details = append(details, errField)
		} else {
			updates["traffic_limit"] = *body.TrafficLimit
		}
	}
	if body.UsageDuration != nil {
		if errField := validation.UsageDuration(*body.UsageDuration); errField != nil {
			details = append(details, errField)
		} else {
			updates["usage_duration"] = *body.UsageDuration
		}
	}
	if body.SimultaneousConnections != nil {
		if errField := validation.SimultaneousConnections(*body.SimultaneousConnections); errField != nil {
			details = append(details, errField)
		} else {
			updates["simultaneous_connections"] = *body.SimultaneousConnections
		}
	}
	if body.IsActive != nil {
		updates["active"] = *body.IsActive
	}
	if len(details) > 0 {
		respondValidation(c, details)
		return
	}

	ctx := c.Request.Context()
	var user models.User
	if errFind := h.db.WithContext(ctx).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondNotFound(c, "User not found.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}

	if newName, ok := updates["username"].(string); ok && newName != user.Username {
		var conflict models.User
		if errFind := h.db.WithContext(ctx).Where("username = ? AND id <> ?", newName, id).First(&conflict).Error; errFind == nil {
			respondError(c, http.StatusConflict, "Username already exists.")
			return
		} else if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusInternalServerError, "Storage error.")
			return
		}
	}

	if errUpdate := h.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; errUpdate != nil {
		respondError(c, http.StatusInternalServerError, "Update user failed.")
		return
	}
	if errReload := h.db.WithContext(ctx).First(&user, id).Error; errReload != nil {
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}
	c.JSON(http.StatusOK, userView(&user))
}

// Delete removes a user and detaches its domains in one transaction.
func (h *UserHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respondError(c, http.StatusBadRequest, "Invalid id.")
		return
	}

	ctx := c.Request.Context()
	var user models.User
	if errFind := h.db.WithContext(ctx).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondNotFound(c, "User not found.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}

	errTx := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errDetach := tx.Model(&models.Domain{}).Where("owner_id = ?", id).
			Update("owner_id", nil).Error; errDetach != nil {
			return errDetach
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if errTx != nil {
		respondError(c, http.StatusInternalServerError, "Delete user failed.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
}
