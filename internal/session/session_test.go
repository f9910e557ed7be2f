package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTokenRoundTrip(t *testing.T) {
	s := New()
	if s.Token() != "" || s.Valid() {
		t.Fatal("fresh session must be empty and invalid")
	}
	s.SetToken("abc")
	if s.Token() != "abc" {
		t.Errorf("token = %q", s.Token())
	}
}

func TestExpiresAt(t *testing.T) {
	s := New()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s.SetToken(signedToken(t, exp))

	got, ok := s.ExpiresAt()
	if !ok || !got.Equal(exp) {
		t.Errorf("ExpiresAt = %v %v, want %v", got, ok, exp)
	}
	if !s.Valid() {
		t.Error("unexpired token reported invalid")
	}
}

func TestExpiredTokenInvalid(t *testing.T) {
	s := New()
	s.SetToken(signedToken(t, time.Now().Add(-time.Minute)))
	if s.Valid() {
		t.Error("expired token reported valid")
	}
}

func TestOpaqueTokenStillUsable(t *testing.T) {
	s := New()
	s.SetToken("not-a-jwt")
	if _, ok := s.ExpiresAt(); ok {
		t.Error("opaque token has no expiry")
	}
	// no expiry claim -> treated as valid until the backend says otherwise
	if !s.Valid() {
		t.Error("opaque token reported invalid")
	}
}

func TestLogoutRunsResetHooks(t *testing.T) {
	s := New()
	s.SetToken("abc")

	var cleared []string
	s.OnLogout(func() { cleared = append(cleared, "store") })
	s.OnLogout(func() { cleared = append(cleared, "pages") })

	s.Logout()
	if s.Token() != "" {
		t.Error("token survived logout")
	}
	if len(cleared) != 2 || cleared[0] != "store" || cleared[1] != "pages" {
		t.Errorf("hooks ran = %v", cleared)
	}
}
