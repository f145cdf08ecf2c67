// devauth runs a local stand-in for the remote auth service.
// Run: JWT_SECRET=... go run ./cmd/devauth
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
	"github.com/ErlanBelekov/auth-shell/internal/devauth"
	ctxlog "github.com/ErlanBelekov/auth-shell/internal/log"
	"github.com/ErlanBelekov/auth-shell/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"

	sloggin "github.com/samber/slog-gin"
)

func main() {
	cfg, err := config.LoadDevAuth()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	var inner slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	if cfg.Env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.SlogLevel(), TimeFormat: time.Kitchen})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := slog.New(ctxlog.NewContextHandler(inner))

	svc := devauth.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err := svc.SeedUsers(cfg.Users); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	logger.Info("seeded users", "count", len(cfg.Users))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(sloggin.New(logger))
	devauth.NewHandler(svc, logger).Register(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Info("dev auth server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
}
