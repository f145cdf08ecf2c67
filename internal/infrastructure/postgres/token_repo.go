package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTokenTable = `
	CREATE TABLE IF NOT EXISTS session_tokens (
		slot       TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// TokenRepository stores the shell's bearer token in a single keyed row.
type TokenRepository struct {
	pool *pgxpool.Pool
	slot string
}

func NewTokenRepository(pool *pgxpool.Pool, slot string) *TokenRepository {
	if slot == "" {
		slot = "default"
	}
	return &TokenRepository{pool: pool, slot: slot}
}

// EnsureSchema creates the session_tokens table when it is missing.
func (r *TokenRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createTokenTable); err != nil {
		return fmt.Errorf("create session_tokens: %w", err)
	}
	return nil
}

func (r *TokenRepository) Get(ctx context.Context) (string, bool, error) {
	var token string
	err := r.pool.QueryRow(ctx,
		`SELECT token FROM session_tokens WHERE slot = $1`,
		r.slot,
	).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select token: %w", err)
	}
	return token, true, nil
}

func (r *TokenRepository) Set(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO session_tokens (slot, token, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot) DO UPDATE SET token = EXCLUDED.token, updated_at = now()`,
		r.slot, token,
	)
	if err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Remove(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM session_tokens WHERE slot = $1`, r.slot); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Ping lets the readiness check cover the token store.
func (r *TokenRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
