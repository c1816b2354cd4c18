package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonSnow1807/student-scheduler/internal/dto"
	"github.com/JonSnow1807/student-scheduler/internal/service"
	appErrors "github.com/JonSnow1807/student-scheduler/pkg/errors"
	"github.com/JonSnow1807/student-scheduler/pkg/response"
)

// ScheduleHandler exposes the scheduling pass endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// Optimize runs a scheduling pass for a term.
func (h *ScheduleHandler) Optimize(c *gin.Context) {
	var req dto.OptimizeScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.schedules.RunPass(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Report returns the quality report for a term.
func (h *ScheduleHandler) Report(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "term required"))
		return
	}
	report, cached, err := h.schedules.Report(c.Request.Context(), term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, map[string]interface{}{"cached": cached})
}

// Assignments lists the persisted schedule for a term.
func (h *ScheduleHandler) Assignments(c *gin.Context) {
	query := dto.AssignmentQuery{
		Term:      c.Query("term"),
		StudentID: c.Query("student_id"),
	}
	assignments, err := h.schedules.Assignments(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments)
}

// Export streams the term report as CSV or PDF.
func (h *ScheduleHandler) Export(c *gin.Context) {
	query := dto.ExportQuery{
		Term:   c.Query("term"),
		Format: c.DefaultQuery("format", "csv"),
	}
	payload, filename, contentType, err := h.schedules.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, payload)
}
