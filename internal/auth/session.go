package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles the backend knows about. Polling auto-starts only for these.
const (
	RoleClient = "cliente"
	RoleBarber = "barbeiro"
)

// Session is what the client can learn from a stored token without asking
// the server.
type Session struct {
	UserID    int64
	Name      string
	Role      string
	ExpiresAt time.Time
}

// ParseSession decodes the session JWT's claims without verifying the
// signature. Verification is the server's job; the client only needs the role
// and expiry to decide whether polling should auto-start.
func ParseSession(token string) (*Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	s := &Session{}
	if v, ok := claims["tipo"].(string); ok {
		s.Role = v
	}
	if v, ok := claims["nome"].(string); ok {
		s.Name = v
	}
	if v, ok := claims["sub"].(float64); ok {
		s.UserID = int64(v)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}

	return s, nil
}

// Expired reports whether the session's expiry has passed. Tokens without an
// exp claim never expire client-side; the server still rejects them with 401.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// ShouldAutoStart reports whether the notification poller should start
// without user action: only authenticated clients and barbers poll.
func (s *Session) ShouldAutoStart(now time.Time) bool {
	if s.Expired(now) {
		return false
	}
	return s.Role == RoleClient || s.Role == RoleBarber
}

// OppositeRole returns the role a user chats with: clients talk to barbers
// and vice versa.
func OppositeRole(role string) string {
	if role == RoleBarber {
		return RoleClient
	}
	return RoleBarber
}
