/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the reimbursement settlement server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Build the computation engine (defaults or rules file)
  4. Wire the settlement service and API handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: subsidy.db)
           Use ":memory:" for in-memory database
  -rules   Optional JSON rules file overriding percentages, carency,
           vigency limits, and holidays

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and default rules
  ./server -db="./data/fund.db"

  # Run with a national-holiday calendar
  ./server -rules="./config/rules.json"

SEE ALSO:
  - api/server.go: Router configuration
  - factory/rules.go: Rules file format
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/previsio/subsidy-engine/api"
	"github.com/previsio/subsidy-engine/claims"
	"github.com/previsio/subsidy-engine/engine"
	"github.com/previsio/subsidy-engine/factory"
	"github.com/previsio/subsidy-engine/payroll"
	"github.com/previsio/subsidy-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "subsidy.db", "SQLite database path")
	rulesPath := flag.String("rules", "", "JSON rules file (optional)")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Build the engine: defaults unless a rules file overrides them
	eng := engine.New()
	if *rulesPath != "" {
		data, err := os.ReadFile(*rulesPath)
		if err != nil {
			log.Fatalf("Failed to read rules file: %v", err)
		}
		eng, err = factory.ParseRules(data)
		if err != nil {
			log.Fatalf("Failed to parse rules file: %v", err)
		}
		log.Printf("Loaded rules from %s", *rulesPath)
	}

	// Wire services
	wages := payroll.NewWages(store)
	service := claims.NewService(eng, wages, store)
	handler := api.NewHandler(eng, service, store)

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
