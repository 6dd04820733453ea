package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"familyhub/internal/config"
	"familyhub/internal/database"
	"familyhub/internal/handlers"
	"familyhub/internal/identity"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/service"
	"familyhub/internal/tutor"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	accessRepo := repository.NewAccessRepository(db)
	secretsRepo := repository.NewSecretsRepository(db)

	// Pick the identity store backend
	identities := newIdentityStore(cfg, db)

	// Email notices are optional; a missing from-address disables them
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize services
	familyService := service.NewFamilyService(familyRepo, profileRepo, identities, emailService)
	provisioningService := service.NewProvisioningService(identities, profileRepo, familyService, emailService, cfg.ChildEmailDomain)
	credentialService := service.NewCredentialService(identities, profileRepo, familyService, emailService)
	accessService := service.NewAccessService(accessRepo, familyService)
	secretsService := service.NewSecretsService(secretsRepo, familyService)

	tutorClient := tutor.NewClient(cfg.ProviderBaseURL, cfg.ProviderModel, cfg.ProviderTimeout)
	tutorService := service.NewTutorService(tutorClient, secretsRepo, familyService, accessService, cfg.ProviderTimeout)

	// Initialize handlers
	tokens := security.NewTokenManager(cfg.SessionSecret, cfg.SessionDuration)
	loginLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(tokens, profileRepo, loginLimiter)

	authHandler := handlers.NewAuthHandler(identities, tokens, profileRepo)
	childrenHandler := handlers.NewChildrenHandler(provisioningService, credentialService, familyService)
	accessHandler := handlers.NewAccessHandler(accessService)
	settingsHandler := handlers.NewSettingsHandler(secretsService)
	tutorHandler := handlers.NewTutorHandler(tutorService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(authHandler.Me))

	mux.HandleFunc("POST /api/children", middleware.RequireAuth(middleware.RequireParent(childrenHandler.Create)))
	mux.HandleFunc("GET /api/children", middleware.RequireAuth(middleware.RequireParent(childrenHandler.List)))
	mux.HandleFunc("POST /api/children/{id}/credentials", middleware.RequireAuth(middleware.RequireParent(childrenHandler.Rotate)))
	mux.HandleFunc("DELETE /api/children/{id}", middleware.RequireAuth(middleware.RequireParent(childrenHandler.Detach)))

	mux.HandleFunc("GET /api/children/{id}/access", middleware.RequireAuth(middleware.RequireParent(accessHandler.Get)))
	mux.HandleFunc("PUT /api/children/{id}/access", middleware.RequireAuth(middleware.RequireParent(accessHandler.Set)))

	mux.HandleFunc("GET /api/settings/api-key", middleware.RequireAuth(middleware.RequireParent(settingsHandler.GetKeyStatus)))
	mux.HandleFunc("PUT /api/settings/api-key", middleware.RequireAuth(middleware.RequireParent(settingsHandler.PutKey)))

	mux.HandleFunc("POST /api/tutor", middleware.RequireAuth(tutorHandler.Ask))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// newIdentityStore selects the identity backend: the local SQL store by
// default, or the hosted provider's admin API when configured.
func newIdentityStore(cfg *config.Config, db *database.DB) identity.Store {
	if cfg.IdentityMode == "hosted" {
		log.Printf("Using hosted identity provider at %s", cfg.IdentityBaseURL)
		return identity.NewHTTPStore(identity.HTTPStoreConfig{
			BaseURL:      cfg.IdentityBaseURL,
			TokenURL:     cfg.IdentityTokenURL,
			ClientID:     cfg.IdentityClientID,
			ClientSecret: cfg.IdentityClientSecret,
		})
	}

	log.Println("Using local identity store")
	return identity.NewSQLStore(db)
}
