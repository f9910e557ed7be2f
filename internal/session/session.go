// Package session holds the bearer token for the lifetime of one login and
// tears the client caches down together on logout.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	token atomic.Value // string

	mu     sync.Mutex
	resets []func()
}

func New() *Session {
	s := &Session{}
	s.token.Store("")
	return s
}

func (s *Session) SetToken(t string) { s.token.Store(t) }

func (s *Session) Token() string {
	if v := s.token.Load(); v != nil {
		if t, ok := v.(string); ok {
			return t
		}
	}
	return ""
}

// ExpiresAt reads the exp claim without verifying the signature; verification
// is the backend's job, the client only needs to know when to re-login.
func (s *Session) ExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Valid reports whether a token is present and not past its expiry.
func (s *Session) Valid() bool {
	if s.Token() == "" {
		return false
	}
	if exp, ok := s.ExpiresAt(); ok && time.Now().After(exp) {
		return false
	}
	return true
}

// OnLogout registers a reset hook. The entity store, pagination registry,
// navigator, transient views and upload queue all register here so one logout
// clears them together.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets = append(s.resets, fn)
}

// Logout drops the token and runs every registered reset hook.
func (s *Session) Logout() {
	s.token.Store("")
	s.mu.Lock()
	resets := append([]func(){}, s.resets...)
	s.mu.Unlock()
	for _, fn := range resets {
		fn()
	}
}
