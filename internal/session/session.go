// Package session owns the process-wide auth state: who is signed in and
// whether that has been confirmed by the auth service.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ErlanBelekov/auth-shell/internal/domain"
	"github.com/ErlanBelekov/auth-shell/internal/metrics"
	"github.com/ErlanBelekov/auth-shell/internal/repository"
)

// authClient is the subset of authclient.Client the session needs.
// Defined here (point of use) so tests can inject a fake.
type authClient interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	CheckToken(ctx context.Context, token string) (*domain.User, string, error)
}

// Session is safe for concurrent use. Login and CheckAuthStatus do their
// network I/O outside the lock and apply their result when the response
// arrives, so two overlapping calls resolve as "last response wins".
type Session struct {
	client authClient
	tokens repository.TokenStore
	logger *slog.Logger

	// applyMu serializes applying a result: the in-memory change and the
	// matching token store write happen together, in the same order.
	applyMu sync.Mutex

	mu     sync.RWMutex
	user   *domain.User
	status domain.AuthStatus

	initialized chan struct{}
}

// New returns a session in the checking state and starts the one initial
// CheckAuthStatus in the background. ctx bounds that initial check only.
func New(ctx context.Context, client authClient, tokens repository.TokenStore, logger *slog.Logger) *Session {
	s := &Session{
		client:      client,
		tokens:      tokens,
		logger:      logger.With("component", "session"),
		status:      domain.AuthStatusChecking,
		initialized: make(chan struct{}),
	}
	metrics.SessionStatus.WithLabelValues(string(domain.AuthStatusChecking)).Set(1)

	go func() {
		defer close(s.initialized)
		ok := s.CheckAuthStatus(ctx)
		s.logger.Info("initial auth check finished", "authenticated", ok)
	}()

	return s
}

// Initialized is closed once the initial auth check has completed.
func (s *Session) Initialized() <-chan struct{} {
	return s.initialized
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Session) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// AuthStatus returns the latest status.
func (s *Session) AuthStatus() domain.AuthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Login sends the credentials to the auth service. On success the user and
// token are stored and the session becomes authenticated. On failure the
// session is left untouched and the error is returned; a refusal by the
// service is a *domain.LoginError carrying its message.
func (s *Session) Login(ctx context.Context, email, password string) (bool, error) {
	user, token, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.logger.InfoContext(ctx, "login failed", "error", err)
		return false, err
	}
	return s.setAuthentication(ctx, user, token), nil
}

// CheckAuthStatus revalidates the stored token. Failures never escape: they
// only move the session to not-authenticated. With no stored token the auth
// service is not contacted and the session is logged out.
func (s *Session) CheckAuthStatus(ctx context.Context) bool {
	token, ok, err := s.tokens.Get(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "read stored token", "error", err)
		ok = false
	}
	if !ok {
		s.Logout(ctx)
		return false
	}

	user, fresh, err := s.client.CheckToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenRejected) {
			s.logger.InfoContext(ctx, "stored token not accepted", "error", err)
		} else {
			s.logger.WarnContext(ctx, "check stored token", "error", err)
		}
		// the previous user is intentionally left in place here
		s.applyMu.Lock()
		s.mu.Lock()
		s.transition(ctx, domain.AuthStatusNotAuthenticated)
		s.mu.Unlock()
		s.applyMu.Unlock()
		return false
	}

	return s.setAuthentication(ctx, user, fresh)
}

// Logout forgets the token and the user. It never fails: a token store error
// is logged and the in-memory state is cleared anyway.
func (s *Session) Logout(ctx context.Context) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if err := s.tokens.Remove(context.WithoutCancel(ctx)); err != nil {
		s.logger.ErrorContext(ctx, "remove stored token", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.transition(ctx, domain.AuthStatusNotAuthenticated)
}

func (s *Session) setAuthentication(ctx context.Context, user *domain.User, token string) bool {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.mu.Lock()
	s.user = user.Clone()
	s.transition(ctx, domain.AuthStatusAuthenticated)
	s.mu.Unlock()

	// the state already changed, so the token must land even if the caller gave up
	if err := s.tokens.Set(context.WithoutCancel(ctx), token); err != nil {
		s.logger.ErrorContext(ctx, "persist token", "error", err)
	}
	return true
}

// transition must be called with mu held.
func (s *Session) transition(ctx context.Context, to domain.AuthStatus) {
	from := s.status
	s.status = to
	if from == to {
		return
	}

	metrics.SessionTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
	metrics.SessionStatus.WithLabelValues(string(from)).Set(0)
	metrics.SessionStatus.WithLabelValues(string(to)).Set(1)
	s.logger.InfoContext(ctx, "auth status changed", "from", from, "to", to)
}
