package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"spendlens/backend/database"
	"spendlens/backend/handlers"
	"spendlens/backend/logger"
	"spendlens/backend/middleware"
	"spendlens/backend/migrations"
	"spendlens/backend/security"
	"spendlens/backend/services"
)

func main() {
	noExit := flag.Bool("no-exit", false, "Don't exit after database reset")
	resetDB := flag.Bool("reset-db", false, "Force reset the database")
	flag.Parse()

	appLog := logger.New()
	log.Logger = appLog

	isResetDB := os.Getenv("RESET_DB") == "true" || *resetDB
	if isResetDB {
		appLog.Info().Msg("Running in database reset mode")
	}

	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		appLog.Warn().Msg("ENCRYPTION_KEY not set, using a default key. This is NOT secure for production!")
		encryptionKey = "default-key-for-development-only"
	}
	security.InitializeEncryption(encryptionKey)

	if err := database.InitDB(); err != nil {
		appLog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	if err := migrations.RunMigrations(database.DB); err != nil {
		appLog.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// If running in reset mode, exit after database setup is complete
	// unless --no-exit is provided
	if isResetDB && !*noExit {
		appLog.Info().Msg("Database reset completed successfully. Exiting.")
		return
	}

	// Seed per-user payment credentials from environment
	services.LoadEnvVariables(database.DB)

	if err := middleware.InitializeFirebase(); err != nil {
		appLog.Warn().Err(err).Msg("Failed to initialize Firebase, auth token verification disabled")
	}

	// Wire the import pipeline: one shared metadata cache behind the place
	// lookup client, one importer for handlers and the scheduler
	metadataCache := services.NewMetadataCache(services.MetadataTTL)
	placesClient := services.NewPlacesClient(
		os.Getenv("PLACES_API_URL"),
		os.Getenv("PLACES_API_KEY"),
		metadataCache,
	)
	paymentsClient := services.NewPaymentsClient(
		os.Getenv("PAYMENT_API_URL"),
		os.Getenv("PAYMENT_KEY_ID"),
		os.Getenv("PAYMENT_KEY_SECRET"),
	)
	importer := services.NewImporter(database.DB, paymentsClient, placesClient)

	services.StartScheduler(database.DB, importer)

	transactionHandler := handlers.NewTransactionHandler(database.DB, importer)

	r := mux.NewRouter()
	r.Use(middleware.EnableCORS)

	// Register routes with both direct paths and /api prefix to maintain
	// compatibility with the frontend
	registerRoutes(r, transactionHandler)
	apiRouter := r.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter, transactionHandler)

	// Serve the built frontend
	fs := http.FileServer(http.Dir("./dist"))
	r.PathPrefix("/assets/").Handler(http.StripPrefix("", fs))
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/assets/") {
			appLog.Debug().Str("path", r.URL.Path).Msg("Serving index.html")
		}
		http.ServeFile(w, r, "./dist/index.html")
	}).Methods("GET")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	appLog.Info().Str("port", port).Msg("Starting server...")
	appLog.Fatal().Err(srv.ListenAndServe()).Msg("Server stopped")
}

// registerRoutes sets up all API routes
func registerRoutes(r *mux.Router, th *handlers.TransactionHandler) {
	// Public routes (no auth required)
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET", "OPTIONS")

	// Authenticated routes
	protectedRouter := r.PathPrefix("").Subrouter()
	protectedRouter.Use(middleware.AuthMiddleware)
	protectedRouter.Use(middleware.AuditLog)

	// Transactions
	protectedRouter.HandleFunc("/transactions/import", th.ImportTransactions).Methods("POST")
	protectedRouter.HandleFunc("/transactions", th.GetTransactions).Methods("GET")
	protectedRouter.HandleFunc("/transactions/analyze", th.AnalyzeSpending).Methods("GET")
	protectedRouter.HandleFunc("/transactions/budget", th.SetBudget).Methods("POST")
	protectedRouter.HandleFunc("/transactions/budget", th.GetBudget).Methods("GET")
	protectedRouter.HandleFunc("/transactions/export", th.ExportTransactions).Methods("GET")
	protectedRouter.HandleFunc("/transactions/clear", th.ClearTransactions).Methods("POST")
	protectedRouter.HandleFunc("/transactions/recommendations", th.GetRecommendations).Methods("GET")

	// Payment source configuration
	protectedRouter.HandleFunc("/payments/config", handlers.GetPaymentConfig).Methods("GET")
	protectedRouter.HandleFunc("/payments/config", handlers.UpdatePaymentConfig).Methods("PUT")

	// Users
	protectedRouter.HandleFunc("/users/me", handlers.GetCurrentUser).Methods("GET")
	protectedRouter.HandleFunc("/users/me", handlers.DeleteCurrentUser).Methods("DELETE")
	protectedRouter.HandleFunc("/users/sync", handlers.SyncUser).Methods("POST")
}
