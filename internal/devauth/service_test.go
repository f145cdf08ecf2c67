package devauth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testKey = "devauth-test-secret-at-least-32-chars"

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	s := NewService([]byte(testKey), time.Hour)
	id, err := s.AddUser("Alice@Example.com", "secret1", "Alice")
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	return s, id
}

func TestLogin_ValidCredentials_IssuesToken(t *testing.T) {
	s, id := newTestService(t)

	a, token, err := s.Login("alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != id || a.Email != "alice@example.com" {
		t.Errorf("account = %+v", a)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return []byte(testKey), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != id {
		t.Errorf("sub = %v, want %s", claims["sub"], id)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _ := newTestService(t)

	if _, _, err := s.Login("alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := s.Login("nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	s, id := newTestService(t)
	s.Deactivate(id)

	if _, _, err := s.Login("alice@example.com", "secret1"); !errors.Is(err, ErrInactiveUser) {
		t.Errorf("want ErrInactiveUser, got %v", err)
	}
}

func TestCheckToken_RoundTrip(t *testing.T) {
	s, id := newTestService(t)
	_, token, err := s.Login("alice@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	a, fresh, err := s.CheckToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != id || fresh == "" {
		t.Errorf("got (%+v, %q)", a, fresh)
	}
}

func TestCheckToken_Expired(t *testing.T) {
	s, _ := newTestService(t)
	issued := time.Now().Add(-3 * time.Hour)
	s.now = func() time.Time { return issued }
	_, token, err := s.Login("alice@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	s.now = time.Now
	if _, _, err := s.CheckToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestCheckToken_WrongKeyAndDeactivated(t *testing.T) {
	s, id := newTestService(t)

	other := NewService([]byte("another-secret-that-is-32-chars!!"), time.Hour)
	if _, err := other.AddUser("alice@example.com", "secret1", ""); err != nil {
		t.Fatal(err)
	}
	_, foreign, err := other.Login("alice@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.CheckToken(foreign); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("foreign token: want ErrTokenInvalid, got %v", err)
	}

	_, token, err := s.Login("alice@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	s.Deactivate(id)
	if _, _, err := s.CheckToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("deactivated: want ErrTokenInvalid, got %v", err)
	}
}

func TestSeedUsers(t *testing.T) {
	s := NewService([]byte(testKey), time.Hour)

	if err := s.SeedUsers([]string{"a@example.com:pw1234:A", "b@example.com:pw5678"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := s.Login("b@example.com", "pw5678"); err != nil {
		t.Errorf("seeded user cannot log in: %v", err)
	}
	if err := s.SeedUsers([]string{"broken"}); err == nil {
		t.Error("want error for malformed entry")
	}
	if err := s.SeedUsers([]string{"a@example.com:other"}); err == nil {
		t.Error("want error for duplicate user")
	}
}
