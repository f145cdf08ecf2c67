package devauth_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/auth-shell/internal/devauth"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	svc := devauth.NewService([]byte("devauth-test-secret-at-least-32-chars"), time.Hour)
	if err := svc.SeedUsers([]string{"test1@google.com:123456:Test One"}); err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	r := gin.New()
	devauth.NewHandler(svc, logger).Register(r)
	return r
}

type authBody struct {
	User struct {
		ID    string `json:"_id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
	Token   string `json:"token"`
	Message any    `json:"message"`
}

func login(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, authBody) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var out authBody
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestLogin_Success_Returns201WithUserAndToken(t *testing.T) {
	w, body := login(t, newTestEngine(t), `{"email":"test1@google.com","password":"123456"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if body.Token == "" || body.User.Email != "test1@google.com" || body.User.Name != "Test One" {
		t.Errorf("body = %+v", body)
	}
}

func TestLogin_BadPassword_Returns401WithMessage(t *testing.T) {
	w, body := login(t, newTestEngine(t), `{"email":"test1@google.com","password":"654321"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if body.Message != "Credentials are not valid" {
		t.Errorf("message = %v", body.Message)
	}
}

func TestLogin_InvalidEmail_Returns400(t *testing.T) {
	w, _ := login(t, newTestEngine(t), `{"email":"not-an-email","password":"123456"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCheckToken_MissingHeader_Returns401(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/check-token", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCheckToken_GarbageToken_Returns401(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/check-token", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	newTestEngine(t).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCheckToken_ValidToken_Returns200(t *testing.T) {
	r := newTestEngine(t)
	_, logged := login(t, r, `{"email":"test1@google.com","password":"123456"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/check-token", nil)
	req.Header.Set("Authorization", "Bearer "+logged.Token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body authBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.User.ID != logged.User.ID || body.Token == "" {
		t.Errorf("body = %+v", body)
	}
}
