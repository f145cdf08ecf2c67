package httptransport_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/auth-shell/internal/authclient"
	"github.com/ErlanBelekov/auth-shell/internal/dashboard"
	"github.com/ErlanBelekov/auth-shell/internal/devauth"
	"github.com/ErlanBelekov/auth-shell/internal/domain"
	"github.com/ErlanBelekov/auth-shell/internal/session"
	"github.com/ErlanBelekov/auth-shell/internal/tokenstore"
	httptransport "github.com/ErlanBelekov/auth-shell/internal/transport/http"
	"github.com/ErlanBelekov/auth-shell/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testEmail    = "test1@google.com"
	testPassword = "123456"
)

type shell struct {
	router http.Handler
	sess   *session.Session
	store  *tokenstore.MemoryStore
	auth   *devauth.Service
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newShell boots the shell against a real dev auth server. seedToken puts a
// token minted by that server into the store before boot.
func newShell(t *testing.T, seedToken bool) *shell {
	t.Helper()
	logger := testLogger()

	svc := devauth.NewService([]byte("router-test-secret-at-least-32-chars"), time.Hour)
	if err := svc.SeedUsers([]string{testEmail + ":" + testPassword + ":Test One"}); err != nil {
		t.Fatal(err)
	}
	authEngine := gin.New()
	devauth.NewHandler(svc, logger).Register(authEngine)
	authSrv := httptest.NewServer(authEngine)
	t.Cleanup(authSrv.Close)

	store := tokenstore.NewMemoryStore()
	if seedToken {
		_, tok, err := svc.Login(testEmail, testPassword)
		if err != nil {
			t.Fatal(err)
		}
		if err := store.Set(context.Background(), tok); err != nil {
			t.Fatal(err)
		}
	}

	sess := session.New(context.Background(), authclient.New(authSrv.URL, nil), store, logger)
	select {
	case <-sess.Initialized():
	case <-time.After(5 * time.Second):
		t.Fatal("initial auth check did not finish")
	}

	router := httptransport.NewRouter(logger, sess, httptransport.Handlers{
		Auth:      handler.NewAuthHandler(sess, logger),
		Dashboard: handler.NewDashboardHandler(dashboard.NewLayout(sess), logger),
		Session:   handler.NewSessionHandler(sess),
	})
	return &shell{router: router, sess: sess, store: store, auth: svc}
}

func (s *shell) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder, to string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303 to %s", w.Code, to)
	}
	if loc := w.Header().Get("Location"); loc != to {
		t.Fatalf("Location = %q, want %q", loc, to)
	}
}

func TestBoot_EmptyStore_RootGoesToAuth(t *testing.T) {
	s := newShell(t, false)

	if got := s.sess.AuthStatus(); got != domain.AuthStatusNotAuthenticated {
		t.Fatalf("status = %s, want not-authenticated", got)
	}
	expectRedirect(t, s.do(http.MethodGet, "/", nil), "/auth")
	expectRedirect(t, s.do(http.MethodGet, "/auth", nil), "/auth/login")
	expectRedirect(t, s.do(http.MethodGet, "/dashboard", nil), "/auth")

	if w := s.do(http.MethodGet, "/auth/login", nil); w.Code != http.StatusOK {
		t.Errorf("login page status = %d, want 200", w.Code)
	}
}

func TestBoot_ValidStoredToken_DashboardAllowed(t *testing.T) {
	s := newShell(t, true)

	if got := s.sess.AuthStatus(); got != domain.AuthStatusAuthenticated {
		t.Fatalf("status = %s, want authenticated", got)
	}
	w := s.do(http.MethodGet, "/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Test One") {
		t.Error("dashboard does not show the user")
	}
	expectRedirect(t, s.do(http.MethodGet, "/auth/login", nil), "/dashboard")
}

func TestLoginDashboardLogoutFlow(t *testing.T) {
	s := newShell(t, false)

	bad := s.do(http.MethodPost, "/auth/login", url.Values{"email": {testEmail}, "password": {"wrong-password"}})
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", bad.Code)
	}
	if !strings.Contains(bad.Body.String(), "Credentials are not valid") {
		t.Errorf("server message not shown: %s", bad.Body.String())
	}
	if got := s.sess.AuthStatus(); got != domain.AuthStatusNotAuthenticated {
		t.Fatalf("status after bad login = %s", got)
	}

	expectRedirect(t, s.do(http.MethodPost, "/auth/login", url.Values{"email": {testEmail}, "password": {testPassword}}), "/dashboard")
	if _, ok, _ := s.store.Get(context.Background()); !ok {
		t.Fatal("token not persisted after login")
	}
	if w := s.do(http.MethodGet, "/dashboard", nil); w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", w.Code)
	}

	expectRedirect(t, s.do(http.MethodPost, "/dashboard/logout", nil), "/auth/login")
	if _, ok, _ := s.store.Get(context.Background()); ok {
		t.Error("token still stored after logout")
	}
	expectRedirect(t, s.do(http.MethodGet, "/dashboard", nil), "/auth")
}

func TestRevokedToken_CheckFailsSilently(t *testing.T) {
	s := newShell(t, true)
	u := s.sess.CurrentUser()
	if u == nil {
		t.Fatal("expected a user after boot")
	}

	s.auth.Deactivate(u.ID)
	if s.sess.CheckAuthStatus(context.Background()) {
		t.Fatal("CheckAuthStatus = true for a deactivated user")
	}
	expectRedirect(t, s.do(http.MethodGet, "/dashboard", nil), "/auth")
}

func TestUnknownPath_RedirectsToAuth(t *testing.T) {
	s := newShell(t, false)
	expectRedirect(t, s.do(http.MethodGet, "/does/not/exist", nil), "/auth")
}

func TestResponses_CarryRequestIDAndSecurityHeaders(t *testing.T) {
	s := newShell(t, false)
	w := s.do(http.MethodGet, "/auth/login", nil)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
}
