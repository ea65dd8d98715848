package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Medivue/config"
	"Medivue/controllers"
	"Medivue/handlers"
	"Medivue/ledger"
	"Medivue/middlewares"
	"Medivue/repositories"
	"Medivue/schedule"
	"Medivue/services"
)

// SetupRoutes initializes the routes and middleware for the server. The
// stores arrive already hydrated from durable storage.
func SetupRoutes(config *config.AppConfig, ledgerStore *ledger.Store, slotStore *schedule.Store, visitRepo *repositories.VisitRepository, slotRepo *repositories.SlotRepository) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://admin.medivue.clinic"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Core engines over the hydrated stores
	engine := ledger.NewEngine(ledgerStore)
	scheduler := schedule.NewScheduler(slotStore)
	aggregator := ledger.NewAggregator(ledgerStore)

	// Services and handlers
	visitService := services.NewVisitService(engine, visitRepo)
	scheduleService := services.NewScheduleService(scheduler, slotRepo, services.NoLeaveCalendar())
	summaryService := services.NewSummaryService(aggregator, visitRepo)

	visitHandler := handlers.NewVisitHandler(visitService)
	slotHandler := handlers.NewSlotHandler(scheduleService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)

	// Register routes
	controllers.SetupLedgerRoutes(router, visitHandler, slotHandler, summaryHandler)
	controllers.SetupRootRoute(router)

	return router
}
