package tokenstore

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/auth-shell/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/auth-shell/internal/repository"
)

// Options selects and configures a token store backend.
type Options struct {
	Kind        string // memory, file or postgres
	File        string
	DatabaseURL string
	Slot        string
}

// Pinger is implemented by backends that can be probed for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Opened is a ready to use store. Close releases backend resources and Pinger
// is nil for backends that have nothing to probe.
type Opened struct {
	Store  repository.TokenStore
	Pinger Pinger
	Close  func()
}

func Open(ctx context.Context, opts Options) (*Opened, error) {
	switch opts.Kind {
	case "memory":
		return &Opened{Store: NewMemoryStore(), Close: func() {}}, nil
	case "file":
		return &Opened{Store: NewFileStore(opts.File), Close: func() {}}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repo := postgres.NewTokenRepository(pool, opts.Slot)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Opened{Store: repo, Pinger: repo, Close: pool.Close}, nil
	default:
		return nil, fmt.Errorf("unknown token store %q", opts.Kind)
	}
}
