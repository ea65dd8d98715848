package controllers

import (
	"Medivue/handlers"

	"github.com/gin-gonic/gin"
)

// SetupLedgerRoutes registers the visit ledger, slot scheduler and summary
// endpoints.
func SetupLedgerRoutes(router *gin.Engine, visitHandler *handlers.VisitHandler, slotHandler *handlers.SlotHandler, summaryHandler *handlers.SummaryHandler) {
	router.POST("/patients/:patient_id/visits", visitHandler.MarkVisit)
	router.POST("/patients/:patient_id/visits/bulk", visitHandler.BulkMarkVisits)
	router.DELETE("/patients/:patient_id/visits/:date", visitHandler.UnmarkVisit)
	router.GET("/patients/:patient_id/visits/last-paid", visitHandler.LastPaidAmount)

	router.GET("/summary", summaryHandler.PeriodSummary)

	router.POST("/doctors/:doctor_id/slots", slotHandler.AssignSlot)
	router.GET("/doctors/:doctor_id/slots", slotHandler.DaySchedule)
	router.GET("/doctors/:doctor_id/slots/available", slotHandler.AvailableSlots)
	router.DELETE("/slots/:assignment_id", slotHandler.RemoveSlot)
}
