package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Medivue/middlewares"
	"Medivue/schedule"
	"Medivue/services"
)

// DefaultSlots is the clinic's fixed daily grid, used when a caller does not
// supply its own slot list.
var DefaultSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "14:00", "14:30", "15:00", "15:30",
	"16:00", "16:30", "17:00", "17:30",
}

type SlotHandler struct {
	service *services.ScheduleService
}

func NewSlotHandler(service *services.ScheduleService) *SlotHandler {
	return &SlotHandler{service: service}
}

// AssignSlot books a patient into a doctor's time slot.
func (h *SlotHandler) AssignSlot(c *gin.Context) {
	var input schedule.AssignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.DoctorID = c.Param("doctor_id")

	assignment, warning, err := h.service.AssignSlot(c, input)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	body := gin.H{"assignment": assignment}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusCreated, body)
}

// RemoveSlot deletes an assignment outright.
func (h *SlotHandler) RemoveSlot(c *gin.Context) {
	if err := h.service.RemoveSlot(c, c.Param("assignment_id")); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "assignment removed"})
}

// AvailableSlots lists the free slots of a doctor's day. Callers may narrow
// the grid with a comma-separated "slots" query parameter.
func (h *SlotHandler) AvailableSlots(c *gin.Context) {
	date := c.Query("date")
	allSlots := DefaultSlots
	if raw := c.Query("slots"); raw != "" {
		allSlots = strings.Split(raw, ",")
	}

	free, err := h.service.AvailableSlots(c.Param("doctor_id"), date, allSlots)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": free})
}

// DaySchedule lists the persisted assignments for a doctor's day.
func (h *SlotHandler) DaySchedule(c *gin.Context) {
	assignments, err := h.service.DaySchedule(c, c.Param("doctor_id"), c.Query("date"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}
