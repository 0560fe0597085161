package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"redline/internal/config"
	"redline/internal/db"
	"redline/internal/email"
	"redline/internal/handlers"
	"redline/internal/handlers/api"
	"redline/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, yamlCfg *config.YAMLConfig) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.Store, database)

	// Initialize handlers
	notifier := email.NewNotifier(s.Cfg, database)
	requestHandler := api.NewRequestHandler(database, s.Cfg, notifier)
	documentHandler := api.NewDocumentHandler(database, s.Cfg)
	templateHandler := api.NewTemplateHandler(database, s.Cfg)
	maintenanceHandler := api.NewMaintenanceHandler(database)
	healthHandler := api.NewHealthHandler(database)

	// Auth routes - OIDC is always required for API access
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. All users must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, yamlCfg, database)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	// Liveness and metrics
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Approval request lifecycle
	v1 := s.App.Group("/api/v1", authMiddleware.RequireAuth)
	v1.Post("/requests", requestHandler.Create)
	v1.Get("/requests/pending", requestHandler.ListPending)
	v1.Get("/requests/history", requestHandler.ListHistory)
	v1.Get("/requests/:id", requestHandler.Get)
	v1.Post("/requests/:id/decision", requestHandler.Decide)
	v1.Get("/requests/:id/diff", requestHandler.Diff)

	// Documents, version history, rollback
	v1.Post("/documents", documentHandler.Create)
	v1.Get("/documents", documentHandler.List)
	v1.Get("/documents/:id", documentHandler.Get)
	v1.Get("/documents/:id/versions", documentHandler.Versions)
	v1.Post("/documents/:id/rollback", documentHandler.Rollback)

	// Auto-approval templates
	v1.Post("/templates", templateHandler.Create)
	v1.Get("/templates", templateHandler.List)
	v1.Put("/templates/:id", templateHandler.Update)
	v1.Delete("/templates/:id", templateHandler.Delete)

	// Maintenance trigger for external schedulers
	v1.Post("/maintenance/expire-sweep", maintenanceHandler.ExpireSweep)

	return nil
}
