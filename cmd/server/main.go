package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cavidescun/314q34wefasd/internal/homologation/handler"
	"github.com/cavidescun/314q34wefasd/internal/homologation/jobs"
	hmetrics "github.com/cavidescun/314q34wefasd/internal/homologation/metrics"
	"github.com/cavidescun/314q34wefasd/internal/homologation/service"
	httpapi "github.com/cavidescun/314q34wefasd/internal/http"
	jwttoken "github.com/cavidescun/314q34wefasd/internal/jwt_token"
	"github.com/cavidescun/314q34wefasd/internal/platform/config"
	"github.com/cavidescun/314q34wefasd/internal/platform/httpserver"
	"github.com/cavidescun/314q34wefasd/internal/platform/logger"
	"github.com/cavidescun/314q34wefasd/internal/platform/metrics"
	"github.com/cavidescun/314q34wefasd/pkg/platform/audit/publisher"
	authmw "github.com/cavidescun/314q34wefasd/pkg/platform/middleware/auth"
)

const auditBufferSize = 1024

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	workflowMetrics := hmetrics.New()
	collaborators, resolver, err := buildCollaborators(cfg, infra, workflowMetrics, log)
	if err != nil {
		return err
	}

	auditSink, err := buildAudit(ctx, cfg, infra, log)
	if err != nil {
		return err
	}
	auditPublisher := publisher.NewPublisher(auditSink.store,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithLogger(log),
	)
	defer auditPublisher.Close()

	svc, err := service.New(buildStores(infra), collaborators, buildLocker(cfg, infra),
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(workflowMetrics),
		service.WithTimeouts(cfg.Timeouts),
	)
	if err != nil {
		return err
	}

	snapshot := jobs.NewStatusSnapshot(svc, workflowMetrics, log)
	if err := snapshot.Start(cfg.Jobs.StatusSnapshotSpec); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		snapshot.Stop(stopCtx)
	}()

	var validator authmw.JWTValidator
	if cfg.Auth.Required {
		validator = jwttoken.NewJWTServiceAdapter(
			jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience),
		)
	} else {
		log.Warn("service authentication disabled; /v1 is open")
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:        log,
		Metrics:       metrics.New(),
		Validator:     validator,
		RateLimit:     buildRateLimit(cfg, infra, log),
		AdminToken:    cfg.Server.AdminToken,
		Health:        infra.HealthChecks(),
		Homologations: handler.New(svc, resolver, log),
		Counter:       svc,
		AuditLog:      auditSink.log,
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting homologation service", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
