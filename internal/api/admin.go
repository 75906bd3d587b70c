package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LionStoreTeam/ecometrics/internal/api/middleware"
	activitysvc "github.com/LionStoreTeam/ecometrics/internal/service/activity"
)

// updateActivityRequest is the admin correction body. Absent fields are
// left unchanged.
type updateActivityRequest struct {
	Title             *string    `json:"title" binding:"omitempty,max=255"`
	Description       *string    `json:"description" binding:"omitempty,max=2000"`
	Type              *string    `json:"type"`
	Quantity          *float64   `json:"quantity" binding:"omitempty,gt=0"`
	Unit              *string    `json:"unit" binding:"omitempty,max=50"`
	Status            *string    `json:"status"`
	Date              *time.Time `json:"date"`
	EvidencesToDelete []uint     `json:"evidencesToDelete"`
}

// UpdateActivity handles PATCH /api/v1/admin/activities/:id.
func (h *Handler) UpdateActivity(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	id, err := h.parseID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req updateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.validationError(c, err)
		return
	}

	act, warnings, err := h.activities.AdminUpdate(c.Request.Context(), actor, id, activitysvc.UpdateInput{
		Title:             req.Title,
		Description:       req.Description,
		Type:              req.Type,
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		Status:            req.Status,
		Date:              req.Date,
		EvidencesToDelete: req.EvidencesToDelete,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": act,
		"warnings": warnings,
	})
}

// DeleteActivity handles DELETE /api/v1/admin/activities/:id.
func (h *Handler) DeleteActivity(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	id, err := h.parseID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	warnings, err := h.activities.AdminDelete(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "activity deleted",
		"warnings": warnings,
	})
}
