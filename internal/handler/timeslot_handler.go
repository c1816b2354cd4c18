package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonSnow1807/student-scheduler/internal/service"
	appErrors "github.com/JonSnow1807/student-scheduler/pkg/errors"
	"github.com/JonSnow1807/student-scheduler/pkg/response"
)

// TimeSlotHandler exposes timeslot catalog endpoints.
type TimeSlotHandler struct {
	timeslots *service.TimeSlotService
}

// NewTimeSlotHandler constructs TimeSlotHandler.
func NewTimeSlotHandler(timeslots *service.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{timeslots: timeslots}
}

// List returns every timeslot.
func (h *TimeSlotHandler) List(c *gin.Context) {
	slots, err := h.timeslots.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}

// Create adds a timeslot to the catalog.
func (h *TimeSlotHandler) Create(c *gin.Context) {
	var req service.TimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.timeslots.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Delete removes a timeslot.
func (h *TimeSlotHandler) Delete(c *gin.Context) {
	if err := h.timeslots.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
