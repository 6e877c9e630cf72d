package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novaray/panel/internal/models"
	"github.com/novaray/panel/internal/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SettingHandler manages panel settings rows.
type SettingHandler struct {
	db *gorm.DB
}

// NewSettingHandler constructs a SettingHandler.
func NewSettingHandler(db *gorm.DB) *SettingHandler {
	return &SettingHandler{db: db}
}

// ListAll returns every settings row, 404 when none exist.
func (h *SettingHandler) ListAll(c *gin.Context) {
	var rows []models.Setting
	if errFind := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&rows).Error; errFind != nil {
		respondError(c, http.StatusInternalServerError, "List settings failed.")
		return
	}
	if len(rows) == 0 {
		respondNotFound(c, "No settings found.")
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, settingView(&rows[i]))
	}
	c.JSON(http.StatusOK, out)
}

// createSettingRequest defines the request body for settings creation.
type createSettingRequest struct {
	Language            string          `json:"language"`
	Theme               string          `json:"theme"`
	EnableNotifications *bool           `json:"enable_notifications"`
	Preferences         json.RawMessage `json:"preferences"`
}

// Create validates input and persists a settings row.
func (h *SettingHandler) Create(c *gin.Context) {
	var body createSettingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	body.Language = strings.TrimSpace(body.Language)
	body.Theme = strings.TrimSpace(body.Theme)

	var details []*validation.FieldError
	if errField := validation.Language(body.Language); errField != nil {
		details = append(details, errField)
	}
	if errField := validation.Theme(body.Theme); errField != nil {
		details = append(details, errField)
	}
	if len(details) > 0 {
		respondValidation(c, details)
		return
	}

	enableNotifications := true
	if body.EnableNotifications != nil {
		enableNotifications = *body.EnableNotifications
	}
	now := time.Now().UTC()
	setting := models.Setting{
		Language:            body.Language,
		Theme:               body.Theme,
		EnableNotifications: enableNotifications,
		Preferences:         datatypes.JSON(body.Preferences),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&setting).Error; errCreate != nil {
		respondError(c, http.StatusInternalServerError, "Create setting failed.")
		return
	}
	c.JSON(http.StatusCreated, settingView(&setting))
}

// updateSettingRequest defines the partial-update body for settings.
type updateSettingRequest struct {
	Language            *string          `json:"language"`
	Theme               *string          `json:"theme"`
	EnableNotifications *bool            `json:"enable_notifications"`
	Preferences         *json.RawMessage `json:"preferences"`
}

// Update applies only the supplied fields and always bumps updated_at.
func (h *SettingHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respondError(c, http.StatusBadRequest, "Invalid id.")
		return
	}
	var body updateSettingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	var details []*validation.FieldError
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Language != nil {
		language := strings.TrimSpace(*body.Language)
		if errField := validation.Language(language); errField != nil {
			details = append(details, errField)
		} else {
			updates["language"] = language
		}
	}
	if body.Theme != nil {
		theme := strings.TrimSpace(*body.Theme)
		if errField := validation.Theme(theme); errField != nil {
			details = append(details, errField)
		} else {
			updates["theme"] = theme
		}
	}
	if body.EnableNotifications != nil {
		updates["enable_notifications"] = *body.EnableNotifications
	}
	if body.Preferences != nil {
		updates["preferences"] = datatypes.JSON(*body.Preferences)
	}
	if len(details) > 0 {
		respondValidation(c, details)
		return
	}

	ctx := c.Request.Context()
	var setting models.Setting
	if errFind := h.db.WithContext(ctx).First(&setting, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Setting not found.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}
	if errUpdate := h.db.WithContext(ctx).Model(&models.Setting{}).Where("id = ?", id).Updates(updates).Error; errUpdate != nil {
		respondError(c, http.StatusInternalServerError, "Update setting failed.")
		return
	}
	if errReload := h.db.WithContext(ctx).First(&setting, id).Error; errReload != nil {
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}
	c.JSON(http.StatusOK, settingView(&setting))
}

// Delete removes a settings row by ID.
func (h *SettingHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respondError(c, http.StatusBadRequest, "Invalid id.")
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Setting{}, id)
	if res.Error != nil {
		respondError(c, http.StatusInternalServerError, "Delete setting failed.")
		return
	}
	if res.RowsAffected == 0 {
		respondNotFound(c, "Setting not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Setting deleted successfully."})
}
