package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/formflow/formflow/airtable"
	"github.com/formflow/formflow/authenticator"
	"github.com/formflow/formflow/config"
	"github.com/formflow/formflow/controllers"
	"github.com/formflow/formflow/database"
	authmiddleware "github.com/formflow/formflow/middleware"
	"github.com/formflow/formflow/repositories"
	"github.com/formflow/formflow/services"
	"github.com/formflow/formflow/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize database
	if err := database.InitializeDatabase(cfg.DatabasePath); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.CloseDB()

	db := database.GetDB()

	// Initialize repositories
	repos := repositories.NewRepositories(db)

	// Outbound Airtable client and OAuth provider
	client := airtable.NewClient(logger)
	provider, err := authenticator.NewAirtableProvider(authenticator.AirtableConfig{
		ClientID:     cfg.AirtableClientID,
		ClientSecret: cfg.AirtableClientSecret,
		RedirectURL:  cfg.AirtableRedirectURI,
	}, client)
	if err != nil {
		logger.Fatal("failed to initialize airtable provider", zap.Error(err))
	}

	sessions, err := session.NewManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		logger.Fatal("failed to initialize session manager", zap.Error(err))
	}

	// Initialize services
	srvs := services.NewServices(repos, provider, client, cfg.BackendURL, logger)

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs, provider, repos.Users, sessions, client, controllers.Options{
		FrontendURL:   cfg.FrontendURL,
		SecureCookies: cfg.UseHTTPS,
		SessionTTL:    cfg.SessionTTL,
	}, logger)

	r := setupRouter(ctrl, srvs, repos, sessions, cfg, logger)

	logger.Info("formflow starting",
		zap.String("port", cfg.Port),
		zap.String("database", cfg.DatabasePath),
	)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

// setupRouter configures all routes
func setupRouter(
	ctrl *controllers.Controllers,
	srvs *services.Services,
	repos *repositories.Repositories,
	sessions *session.Manager,
	cfg config.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(authmiddleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second)) // covers the OAuth callback exchange
	r.Use(chimiddleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	requireAuth := authmiddleware.RequireAuth(sessions, repos.Users)
	ensureFresh := authmiddleware.EnsureFreshToken(srvs.Tokens)
	audit := authmiddleware.AuditLogger(repos.Audit, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy", "service": "formflow"}`))
	})

	// Authorization handshake and session endpoints
	r.Route("/auth", func(r chi.Router) {
		r.Get("/airtable", ctrl.Auth.Login)
		r.Get("/airtable/callback", ctrl.Auth.Callback)
		r.Post("/logout", ctrl.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/check", ctrl.Auth.Check)
		})
	})

	// Provider metadata proxy (session + fresh token required)
	r.Route("/api", func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(ensureFresh)

		r.Get("/bases", ctrl.Airtable.Bases)
		r.Get("/tables/{baseId}", ctrl.Airtable.Tables)
		r.Get("/fields/{tableId}", ctrl.Airtable.Fields)
	})

	// Form lifecycle
	r.Route("/forms", func(r chi.Router) {
		// Public endpoints: rendering and submission
		r.Get("/{formId}", ctrl.Form.View)
		r.Post("/{formId}/submit", ctrl.Form.Submit)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(ensureFresh)
			r.Use(audit)

			r.Post("/", ctrl.Form.Create)
			r.Get("/", ctrl.Form.List)
			r.Delete("/{formId}", ctrl.Form.Delete)
			r.Get("/{formId}/responses", ctrl.Form.Responses)
		})
	})

	// Inbound provider notifications
	r.Post("/webhooks/airtable", ctrl.Webhook.Receive)

	return r
}
