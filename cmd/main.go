package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Medivue/cache"
	"Medivue/config"
	"Medivue/database"
	"Medivue/ledger"
	"Medivue/repositories"
	"Medivue/routes"
	"Medivue/schedule"
)

func main() {
	// Load configuration from config package
	config, err := loadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize the database
	if _, err := database.InitDB(context.Background(), config.DBURL); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Initialize Redis
	if err := database.InitializeRedis(); err != nil {
		log.Fatalf("failed to initialize Redis client: %v", err)
	}

	// Initialize the cache utility
	cache, err := cache.NewCache()
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}

	// Hydrate the in-memory stores from durable storage. Invariants are
	// checked against these; the database only sees full resulting records.
	visitRepo := repositories.NewVisitRepository(cache)
	slotRepo := repositories.NewSlotRepository(cache)

	ledgerStore := ledger.NewStore()
	slotStore := schedule.NewStore()

	hydrateCtx, cancelHydrate := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancelHydrate()

	records, visited, err := visitRepo.LoadAll(hydrateCtx)
	if err != nil {
		log.Fatalf("failed to load ledger state: %v", err)
	}
	ledgerStore.Hydrate(records, visited)

	assignments, err := slotRepo.LoadAll(hydrateCtx)
	if err != nil {
		log.Fatalf("failed to load slot assignments: %v", err)
	}
	slotStore.Hydrate(assignments)

	log.Printf("Hydrated %d visit records, %d visited days, %d slot assignments",
		len(records), len(visited), len(assignments))

	// Pass the config and hydrated stores to SetupRoutes
	handler := routes.SetupRoutes(config, ledgerStore, slotStore, visitRepo, slotRepo)

	// Configure and start the server
	srv := &http.Server{
		Addr:           ":8930",
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		log.Println("Starting server on :8930")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listenAndServe(): %v", err)
		}
	}()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	// Create a context with a timeout for shutdown
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Println("Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %+v", err)
	}

	wg.Wait() // Wait for all goroutines to finish before exiting
	log.Println("Server exited gracefully")
}

// loadConfig loads configuration from environment variables.
func loadConfig() (*config.AppConfig, error) {
	// Get the database URL
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return nil, errors.New("missing DB_URL environment variable")
	}

	// Get the Redis URL
	redisAddress := os.Getenv("REDIS_URL")
	if redisAddress == "" {
		return nil, errors.New("missing REDIS_URL environment variable")
	}

	// Get the Bearer Token
	bearerToken := os.Getenv("BEARER_TOKEN")
	if bearerToken == "" {
		return nil, errors.New("missing BEARER_TOKEN environment variable")
	}

	// Returning the AppConfig with dynamic database name and other values
	return &config.AppConfig{
		DBURL:        dbURL,
		RedisAddress: redisAddress,
		BearerToken:  bearerToken,
	}, nil
}
