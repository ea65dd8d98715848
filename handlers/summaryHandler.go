package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Medivue/ledger"
	"Medivue/middlewares"
	"Medivue/services"
)

type SummaryHandler struct {
	service *services.SummaryService
}

func NewSummaryHandler(service *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// PeriodSummary computes fee/paid/due rollups. The period is either a
// "month" query parameter (YYYY-MM) or explicit "start"/"end" day bounds;
// all filters are optional.
func (h *SummaryHandler) PeriodSummary(c *gin.Context) {
	filter := ledger.SummaryFilter{
		PatientID: c.Query("patient_id"),
		DoctorID:  c.Query("doctor_id"),
	}

	if month := c.Query("month"); month != "" {
		start, end, err := ledger.MonthRange(month)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		filter.Start, filter.End = start, end
	} else {
		if start := c.Query("start"); start != "" {
			day, err := ledger.ParseDayKey(start)
			if err != nil {
				middlewares.RespondError(c, err)
				return
			}
			filter.Start = day
		}
		if end := c.Query("end"); end != "" {
			day, err := ledger.ParseDayKey(end)
			if err != nil {
				middlewares.RespondError(c, err)
				return
			}
			filter.End = day
		}
	}

	c.JSON(http.StatusOK, h.service.Period(c, filter))
}
