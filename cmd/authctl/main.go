// authctl drives the auth session from a terminal, sharing the token store
// the shell server is configured with.
//
//	authctl status
//	authctl login -email me@example.com -password secret
//	authctl logout
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/auth-shell/config"
	"github.com/ErlanBelekov/auth-shell/internal/authclient"
	"github.com/ErlanBelekov/auth-shell/internal/domain"
	ctxlog "github.com/ErlanBelekov/auth-shell/internal/log"
	"github.com/ErlanBelekov/auth-shell/internal/session"
	"github.com/ErlanBelekov/auth-shell/internal/tokenstore"
	"github.com/lmittmann/tint"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.TokenStore == "memory" {
		log.Fatal("authctl needs a persistent token store, set TOKEN_STORE=file or postgres")
	}

	// only warnings and up: stdout is for the command's own output
	logger := slog.New(ctxlog.NewContextHandler(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelWarn,
		TimeFormat: time.Kitchen,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := tokenstore.Open(ctx, tokenstore.Options{
		Kind:        cfg.TokenStore,
		File:        cfg.TokenFile,
		DatabaseURL: cfg.DatabaseURL,
		Slot:        cfg.TokenSlot,
	})
	if err != nil {
		log.Fatalf("token store: %v", err)
	}
	defer store.Close()

	sess := session.New(ctx, authclient.New(cfg.AuthBaseURL, nil), store.Store, logger)
	select {
	case <-sess.Initialized():
	case <-ctx.Done():
		log.Fatal("interrupted while checking the stored token")
	}

	if err := run(ctx, sess, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, sess *session.Session, cmd string, args []string) error {
	switch cmd {
	case "status":
		printStatus(sess)
		return nil

	case "login":
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		email := fs.String("email", os.Getenv("AUTHCTL_EMAIL"), "account email")
		password := fs.String("password", os.Getenv("AUTHCTL_PASSWORD"), "account password")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if _, err := sess.Login(ctx, *email, *password); err != nil {
			var loginErr *domain.LoginError
			if errors.As(err, &loginErr) {
				return fmt.Errorf("login refused: %s", loginErr.Message)
			}
			return fmt.Errorf("login: %w", err)
		}
		printStatus(sess)
		return nil

	case "logout":
		sess.Logout(ctx)
		printStatus(sess)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printStatus(sess *session.Session) {
	fmt.Printf("status: %s\n", sess.AuthStatus())
	if u := sess.CurrentUser(); u != nil {
		fmt.Printf("user:   %s <%s>\n", u.Name, u.Email)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: authctl status|login|logout [flags]")
}
