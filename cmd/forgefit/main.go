package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgefit/forgefit/internal/database"
	"github.com/forgefit/forgefit/internal/fingerprint"
	"github.com/forgefit/forgefit/internal/logging"
	"github.com/forgefit/forgefit/internal/server"
)

func main() {
	port := os.Getenv("FORGEFIT_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("FORGEFIT_DB_PATH")
	if dbPath == "" {
		dbPath = "forgefit.db"
	}

	logger := logging.Setup(os.Getenv("FORGEFIT_LOG_LEVEL"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Vendor fingerprint SDK adapters register themselves outside the
	// core; without one, templates are compared byte for byte.
	srv := server.New(db, fingerprint.BytewiseMatcher{}, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("ForgeFit running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
