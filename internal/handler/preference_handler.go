package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonSnow1807/student-scheduler/internal/service"
	appErrors "github.com/JonSnow1807/student-scheduler/pkg/errors"
	"github.com/JonSnow1807/student-scheduler/pkg/response"
)

// PreferenceHandler exposes preference endpoints.
type PreferenceHandler struct {
	preferences *service.PreferenceService
}

// NewPreferenceHandler constructs PreferenceHandler.
func NewPreferenceHandler(preferences *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences}
}

// ListByStudent returns a student's ranked preferences.
func (h *PreferenceHandler) ListByStudent(c *gin.Context) {
	studentID := c.Query("student_id")
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student_id required"))
		return
	}
	preferences, err := h.preferences.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preferences)
}

// Upsert stores a ranked preference.
func (h *PreferenceHandler) Upsert(c *gin.Context) {
	var req service.PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	pref, err := h.preferences.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref)
}

// Delete removes a preference.
func (h *PreferenceHandler) Delete(c *gin.Context) {
	if err := h.preferences.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
