// Package session owns the client's authentication state and active view.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// View is the single visible top-level section.
type View int

const (
	ViewLogin View = iota
	ViewSignup
	ViewHome
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewSignup:
		return "signup"
	case ViewHome:
		return "home"
	default:
		return "unknown"
	}
}

// ParseView maps a view name to a View.
func ParseView(name string) (View, bool) {
	for _, v := range []View{ViewLogin, ViewSignup, ViewHome} {
		if v.String() == name {
			return v, true
		}
	}
	return 0, false
}

// Session is the client-held record of authentication. It lives in memory only.
type Session struct {
	token    string
	username string
}

// Token returns the bearer token, or "" when logged out.
func (s Session) Token() string {
	return s.token
}

// LoggedIn reports whether a token is present.
func (s Session) LoggedIn() bool {
	return s.token != ""
}

// Subject returns who the session belongs to.
// The token's "sub" claim is used when the token is a JWT, falling back
// to the username given at login.
func (s Session) Subject() string {
	if claims := s.claims(); claims != nil && claims.Subject != "" {
		return claims.Subject
	}
	return s.username
}

// Expiry returns the token's "exp" claim, if any. It is informational:
// the backend decides validity on every request.
func (s Session) Expiry() (time.Time, bool) {
	claims := s.claims()
	if claims == nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// claims decodes the token payload without verifying the signature.
func (s Session) claims() *jwt.RegisteredClaims {
	if s.token == "" {
		return nil
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.token, claims); err != nil {
		return nil
	}
	return claims
}

func (s *Session) set(token, username string) {
	s.token = token
	s.username = username
}

func (s *Session) clear() {
	s.token = ""
	s.username = ""
}
