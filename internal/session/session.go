// Package session turns a TTMS bearer token into an explicit session object.
// The token is decoded exactly once, at session start; everything downstream
// works with the Session value instead of re-parsing the JWT ad hoc.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/entity"
)

// ErrExpired reports a token past its expiry claim.
var ErrExpired = errors.New("session expired")

// Claims is the TTMS token payload.
type Claims struct {
	UserID string `json:"uid"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Session identifies the current user for the lifetime of one run.
type Session struct {
	UserID    string
	Name      string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// FromToken decodes a session from a bearer token without verifying the
// signature; verification belongs to the backend (and to the serve-mode
// middleware, which holds the secret). An expired token is rejected here so
// a doomed generation is never started.
func FromToken(token string, now time.Time) (*Session, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	s := &Session{
		UserID: claims.UserID,
		Name:   claims.Name,
		Email:  claims.Subject,
		Role:   claims.Role,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
		if !now.Before(s.ExpiresAt) {
			return nil, ErrExpired
		}
	}
	return s, nil
}

// CanGenerateReports reports whether the session's role may trigger report
// generation. Mirrors the manager-only navigation of the web app.
func (s *Session) CanGenerateReports() bool {
	return s.Role == entity.RoleManager
}
