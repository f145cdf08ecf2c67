// Package devauth is a small stand-in for the remote auth service. It speaks
// the same login / check-token contract so the shell can run locally.
package devauth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("credentials are not valid")
	ErrInactiveUser       = errors.New("user is not active")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

// Account is a user known to the dev auth service.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	IsActive     bool
	Roles        []string
}

// Service keeps its users in memory and signs HS256 tokens.
type Service struct {
	mu       sync.RWMutex
	byEmail  map[string]*Account
	byID     map[string]*Account
	jwtKey   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(jwtKey []byte, tokenTTL time.Duration) *Service {
	return &Service{
		byEmail:  make(map[string]*Account),
		byID:     make(map[string]*Account),
		jwtKey:   jwtKey,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// AddUser registers an active user with the "user" role.
func (s *Service) AddUser(email, password, name string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	a := &Account{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		Roles:        []string{"user"},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[a.Email]; exists {
		return "", fmt.Errorf("user %s already exists", a.Email)
	}
	s.byEmail[a.Email] = a
	s.byID[a.ID] = a
	return a.ID, nil
}

// SeedUsers parses "email:password:name" entries; name is optional.
func (s *Service) SeedUsers(entries []string) error {
	for _, e := range entries {
		parts := strings.SplitN(e, ":", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("invalid user entry %q, want email:password[:name]", e)
		}
		name := ""
		if len(parts) == 3 {
			name = parts[2]
		}
		if _, err := s.AddUser(parts[0], parts[1], name); err != nil {
			return err
		}
	}
	return nil
}

// Deactivate makes subsequent logins and token checks for the user fail.
func (s *Service) Deactivate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.byID[id]; ok {
		a.IsActive = false
	}
}

// Login checks the credentials and returns the user and a fresh token.
func (s *Service) Login(email, password string) (*Account, string, error) {
	s.mu.RLock()
	a, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	active := ok && a.IsActive
	s.mu.RUnlock()
	if !ok {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !active {
		return nil, "", ErrInactiveUser
	}
	return s.issue(a)
}

// CheckToken verifies token and, for a still active user, returns a new one.
func (s *Service) CheckToken(raw string) (*Account, string, error) {
	userID, err := s.parse(raw)
	if err != nil {
		return nil, "", ErrTokenInvalid
	}

	s.mu.RLock()
	a, ok := s.byID[userID]
	active := ok && a.IsActive
	s.mu.RUnlock()
	if !active {
		return nil, "", ErrTokenInvalid
	}
	return s.issue(a)
}

// issue returns a snapshot of a together with a signed token.
func (s *Service) issue(a *Account) (*Account, string, error) {
	s.mu.RLock()
	snap := *a
	snap.Roles = append([]string(nil), a.Roles...)
	s.mu.RUnlock()

	now := s.now()
	claims := jwt.MapClaims{
		"sub":   a.ID,
		"email": a.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.jwtKey)
	if err != nil {
		return nil, "", fmt.Errorf("sign jwt: %w", err)
	}
	return &snap, signed, nil
}

func (s *Service) parse(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrTokenInvalid
	}
	return sub, nil
}
