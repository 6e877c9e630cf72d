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

// DomainHandler manages domain endpoints.
type DomainHandler struct {
	db *gorm.DB
}

// NewDomainHandler constructs a DomainHandler.
func NewDomainHandler(db *gorm.DB) *DomainHandler {
	return &DomainHandler{db: db}
}

// createDomainRequest defines the request body for domain creation.
type createDomainRequest struct {
	Name        string          `json:"name"`
	Description json.RawMessage `json:"description"`
	OwnerID     *uint64         `json:"owner_id"`
}

// Create validates input and persists a new domain.
func (h *DomainHandler) Create(c *gin.Context) {
	var body createDomainRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	body.Name = strings.TrimSpace(body.Name)

	if errField := validation.DomainName(body.Name); errField != nil {
		respondValidation(c, []*validation.FieldError{errField})
		return
	}

	ctx := c.Request.Context()
	if body.OwnerID != nil {
		var owner models.User
		if errFind := h.db.WithContext(ctx).First(&owner, *body.OwnerID).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				respondValidation(c, []*validation.FieldError{
					{Field: "owner_id", Message: "references an unknown user"},
				})
				return
			}
			respondError(c, http.StatusInternalServerError, "Storage error.")
			return
		}
	}

	var existing models.Domain
	if errFind := h.db.WithContext(ctx).Where("name = ?", body.Name).First(&existing).Error; errFind == nil {
		respondError(c, http.StatusConflict, "Domain name already exists.")
		return
	} else if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}

	now := time.Now().UTC()
	domain := models.Domain{
		Name:        body.Name,
		Description: datatypes.JSON(body.Description),
		OwnerID:     body.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if errCreate := h.db.WithContext(ctx).Create(&domain).Error; errCreate != nil {
		respondError(c, http.StatusInternalServerError, "Create domain failed.")
		return
	}
	c.JSON(http.StatusCreated, domainView(&domain))
}

// List returns all domains regardless of owner.
func (h *DomainHandler) List(c *gin.Context) {
	var rows []models.Domain
	if errFind := h.db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&rows).Error; errFind != nil {
		respondError(c, http.StatusInternalServerError, "List domains failed.")
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, domainView(&rows[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns a domain by ID.
func (h *DomainHandler) Get(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respondError(c, http.StatusBadRequest, "Invalid id.")
		return
	}
	var domain models.Domain
	if errFind := h.db.WithContext(c.Request.Context()).First(&domain, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Domain not found.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}
	c.JSON(http.StatusOK, domainView(&domain))
}

// updateDomainRequest defines the partial-update body. An owner_id of 0
// clears the ownership.
type updateDomainRequest struct {
	Name        *string          `json:"name"`
	Description *json.RawMessage `json:"description"`
	OwnerID     *uint64          `json:"owner_id"`
}

// Update applies only the supplied fields and always bumps updated_at.
func (h *DomainHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respondError(c, http.StatusBadRequest, "Invalid id.")
		return
	}
	var body updateDomainRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if errField := validation.DomainName(name); errField != nil {
			respondValidation(c, []*validation.FieldError{errField})
			return
		}
		updates["name"] = name
	}
	if body.Description != nil {
		updates["description"] = datatypes.JSON(*body.Description)
	}

	ctx := c.Request.Context()
	if body.OwnerID != nil {
		if *body.OwnerID == 0 {
			updates["owner_id"] = nil
		} else {
			var owner models.User
			if errFind := h.db.WithContext(ctx).First(&owner, *body.OwnerID).Error; errFind != nil {
				if errors.Is(errFind, gorm.ErrRecordNotFound) {
					respondValidation(c, []*validation.FieldError{
						{Field: "owner_id", Message: "references an unknown user"},
					})
					return
				}
				respondError(c, http.StatusInternalServerError, "Storage error.")
				return
			}
			updates["owner_id"] = *body.OwnerID
		}
	}

	var domain models.Domain
	if errFind := h.db.WithContext(ctx).First(&domain, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Domain not found.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}

	if newName, ok := updates["name"].(string); ok && newName != domain.Name {
		var conflict models.Domain
		if errFind := h.db.WithContext(ctx).Where("name = ? AND id <> ?", newName, id).First(&conflict).Error; errFind == nil {
			respondError(c, http.StatusConflict, "Domain name already exists.")
			return
		} else if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusInternalServerError, "Storage error.")
			return
		}
	}

	if errUpdate := h.db.WithContext(ctx).Model(&models.Domain{}).Where("id = ?", id).Updates(updates).Error; errUpdate != nil {
		respondError(c, http.StatusInternalServerError, "Update domain failed.")
		return
	}
	if errReload := h.db.WithContext(ctx).First(&domain, id).Error; errReload != nil {
		respondError(c, http.StatusInternalServerError, "Storage error.")
		return
	}
	c.JSON(http.StatusOK, domainView(&domain))
}

// Delete removes a domain by ID.
func (h *DomainHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respondError(c, http.StatusBadRequest, "Invalid id.")
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Domain{}, id)
	if res.Error != nil {
		respondError(c, http.StatusInternalServerError, "Delete domain failed.")
		return
	}
	if res.RowsAffected == 0 {
		respondNotFound(c, "Domain not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Domain deleted successfully."})
}
