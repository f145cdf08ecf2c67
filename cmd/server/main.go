package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/auth-shell/config"
	"github.com/ErlanBelekov/auth-shell/internal/authclient"
	"github.com/ErlanBelekov/auth-shell/internal/dashboard"
	"github.com/ErlanBelekov/auth-shell/internal/health"
	ctxlog "github.com/ErlanBelekov/auth-shell/internal/log"
	"github.com/ErlanBelekov/auth-shell/internal/metrics"
	"github.com/ErlanBelekov/auth-shell/internal/session"
	"github.com/ErlanBelekov/auth-shell/internal/tokenstore"
	httptransport "github.com/ErlanBelekov/auth-shell/internal/transport/http"
	"github.com/ErlanBelekov/auth-shell/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	store, err := tokenstore.Open(ctx, tokenstore.Options{
		Kind:        cfg.TokenStore,
		File:        cfg.TokenFile,
		DatabaseURL: cfg.DatabaseURL,
		Slot:        cfg.TokenSlot,
	})
	if err != nil {
		stop()
		log.Fatalf("token store: %v", err)
	}
	defer store.Close()

	client := authclient.New(cfg.AuthBaseURL, nil)
	deps := map[string]health.Pinger{"auth_service": client}
	if store.Pinger != nil {
		deps["token_store"] = store.Pinger
	}

	metrics.Register()
	checker := health.NewChecker(deps, logger, prometheus.DefaultRegisterer)

	// The session validates any stored token once, in the background.
	// Until that finishes the guards see "checking".
	sess := session.New(ctx, client, store.Store, logger)

	layout := dashboard.NewLayout(sess)
	handlers := httptransport.Handlers{
		Auth:      handler.NewAuthHandler(sess, logger),
		Dashboard: handler.NewDashboardHandler(layout, logger),
		Session:   handler.NewSessionHandler(sess),
	}

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, sess, handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "auth_base_url", cfg.AuthBaseURL, "token_store", cfg.TokenStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
