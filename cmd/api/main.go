// @title Certificate Invitation API
// @version 1.0
// @description Invitation ledger for client certificate provisioning.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin JWT.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"certinvite/config"
	_ "certinvite/docs"
	"certinvite/internal/adapters/auth"
	"certinvite/internal/adapters/email"
	"certinvite/internal/adapters/metrics"
	delivery "certinvite/internal/delivery/http"
	"certinvite/internal/delivery/http/controllers"
	"certinvite/internal/domain"
	"certinvite/internal/repository/postgres"
	"certinvite/internal/services"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		log.New(os.Stderr, "", log.LstdFlags).Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger()
	if _, err := services.BuildInvitationLink(cfg.PublicBaseURL, true, "probe"); err != nil {
		return fmt.Errorf("PUBLIC_BASE_URL: %w", err)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics, err := metrics.NewLedger(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}

	invitationRepo := postgres.NewInvitationRepository(db)
	certificateRepo := postgres.NewCertificateRepository(db)
	clock := domain.SystemClock()
	ledger := services.NewInvitationLedger(invitationRepo, certificateRepo, clock, ledgerMetrics, logger, services.LedgerConfig{
		Validity:       cfg.InvitationValidity,
		ContextTimeout: cfg.ContextTimeout,
	})
	certificates := services.NewCertificateService(ledger, certificateRepo, clock, ledgerMetrics, logger)

	router := delivery.NewRouter(delivery.RouterConfig{
		Logger:         logger,
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Gatherer:       reg,
	},
		controllers.NewInvitationController(logger, ledger, certificates, notifier, cfg.PublicBaseURL),
		controllers.NewHealthController(logger, db),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server shutdown error", "err", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newNotifier(cfg *config.Config, logger *slog.Logger) (domain.InvitationNotifier, error) {
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("email templates: %w", err)
	}
	return services.NewEmailService(mailer, renderer, services.InvitationMailBranding{
		ConsortiumName: cfg.Email.ConsortiumName,
		ProductName:    cfg.Email.ProductName,
	}, logger), nil
}
