package http

import (
	"log/slog"
	"net/http"

	"certinvite/internal/delivery/http/controllers"
	"certinvite/internal/delivery/http/middleware"
	"certinvite/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig collects what NewRouter needs beyond the controllers.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
}

// NewRouter initializes the HTTP router with all application routes wrapped
// in request id, logging and CORS middleware.
func NewRouter(cfg RouterConfig, invitations *controllers.InvitationController, health *controllers.HealthController) http.Handler {
	mux := http.NewServeMux()
	admin := middleware.RequireRole(cfg.Verifier, domain.AdminRole, cfg.Logger)

	// Public
	mux.HandleFunc("GET /accountstatus", invitations.AccountStatus)

	// Admin
	mux.HandleFunc("POST /admin/profiles/{profileID}/invitations", admin(invitations.CreateInvitation))
	mux.HandleFunc("GET /admin/profiles/{profileID}/invitations", admin(invitations.ListInvitations))
	mux.HandleFunc("POST /admin/invitations/{token}/revoke", admin(invitations.RevokeInvitation))
	mux.HandleFunc("POST /admin/invitations/{token}/certificates", admin(invitations.IssueCertificate))

	// Operations
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.RequestID(middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.AllowedOrigins, mux)))
}
