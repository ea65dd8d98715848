package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Medivue/errs"
	"Medivue/ledger"
	"Medivue/middlewares"
	"Medivue/services"
)

type VisitHandler struct {
	service *services.VisitService
}

func NewVisitHandler(service *services.VisitService) *VisitHandler {
	return &VisitHandler{service: service}
}

// MarkVisit records or overwrites a visit/payment for a patient and day.
func (h *VisitHandler) MarkVisit(c *gin.Context) {
	var input ledger.MarkVisitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.PatientID = c.Param("patient_id")

	record, err := h.service.MarkVisit(c, input)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// UnmarkVisit removes the visit and any payment for the day.
func (h *VisitHandler) UnmarkVisit(c *gin.Context) {
	patientID := c.Param("patient_id")
	date := c.Param("date")

	if err := h.service.UnmarkVisit(c, patientID, date); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "visit unmarked"})
}

// BulkMarkVisits marks several dates with identical payment parameters.
// Mixed outcomes come back as 207 with the per-date report.
func (h *VisitHandler) BulkMarkVisits(c *gin.Context) {
	var input ledger.BulkMarkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.PatientID = c.Param("patient_id")

	result, err := h.service.BulkMarkVisits(c, input)
	if err != nil {
		if errs.IsPartialFailure(err) {
			c.JSON(http.StatusMultiStatus, result)
			return
		}
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// LastPaidAmount returns the most recent positive payment, used by the
// front desk as a fee default.
func (h *VisitHandler) LastPaidAmount(c *gin.Context) {
	amount, found := h.service.LastPaidAmount(c.Param("patient_id"))
	c.JSON(http.StatusOK, gin.H{"amount": amount, "found": found})
}
