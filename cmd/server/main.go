package main

import (
	"log"
	"net/http"
	"os"

	"tccs_backend/internal/config"
	"tccs_backend/internal/logger"
	"tccs_backend/internal/middleware"
	"tccs_backend/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database, migrate and seed
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	// Setup Gin router
	r := routes.SetupRouter(db)

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}

	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
