package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/LionStoreTeam/ecometrics/internal/api/middleware"
	activitysvc "github.com/LionStoreTeam/ecometrics/internal/service/activity"
)

// createActivityRequest is the multipart form for activity submission.
type createActivityRequest struct {
	Title       string  `form:"title" binding:"required,max=255"`
	Description string  `form:"description" binding:"max=2000"`
	Type        string  `form:"type" binding:"required"`
	Quantity    float64 `form:"quantity" binding:"required,gt=0"`
	Unit        string  `form:"unit" binding:"max=50"`
	Date        string  `form:"date" binding:"required"`
}

// CreateActivity handles POST /api/v1/activities (multipart).
func (h *Handler) CreateActivity(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createActivityRequest
	if err := c.ShouldBind(&req); err != nil {
		h.validationError(c, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "multipart form required")
		return
	}
	files := form.File["evidences"]

	act, warnings, err := h.activities.Create(c.Request.Context(), user.ID, activitysvc.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Date:        date,
		Files:       files,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"activity": act,
		"warnings": warnings,
	})
}

// ListActivities handles GET /api/v1/activities.
// Admins see every activity, users only their own.
func (h *Handler) ListActivities(c *gin.Context) {
	user := middleware.CurrentUser(c)

	activities, err := h.activities.List(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": activities,
		"total":      len(activities),
	})
}

// GetActivity handles GET /api/v1/activities/:id.
func (h *Handler) GetActivity(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := h.parseID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	act, err := h.activities.GetByID(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": act})
}

// parseID parses the :id path parameter.
func (h *Handler) parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// validationError reports binding failures with field-level detail.
func (h *Handler) validationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); ok {
		fields := make([]gin.H, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, gin.H{
				"field":      fe.Field(),
				"constraint": fe.Tag(),
			})
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": fields,
		})
		return
	}
	h.errorResponse(c, http.StatusBadRequest, "malformed request")
}
