package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/entity"
)

func token(t *testing.T, role string, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: "u42",
		Name:   "Nimal Silva",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "nimal@ttms.lk",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestFromToken(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	s, err := FromToken(token(t, entity.RoleManager, now.Add(time.Hour)), now)
	if err != nil {
		t.Fatalf("FromToken: %v", err)
	}
	if s.UserID != "u42" || s.Name != "Nimal Silva" || s.Email != "nimal@ttms.lk" {
		t.Errorf("session = %+v", s)
	}
	if !s.CanGenerateReports() {
		t.Error("manager should be allowed to generate reports")
	}
}

func TestFromTokenExpired(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	_, err := FromToken(token(t, entity.RoleManager, now.Add(-time.Minute)), now)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("err = %v, want ErrExpired", err)
	}
}

func TestFromTokenMalformed(t *testing.T) {
	if _, err := FromToken("garbage", time.Now()); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestOperatorsCannotGenerateReports(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	for _, role := range []string{entity.RoleMachineOperator1, entity.RoleMachineOperator2} {
		s, err := FromToken(token(t, role, now.Add(time.Hour)), now)
		if err != nil {
			t.Fatalf("FromToken(%s): %v", role, err)
		}
		if s.CanGenerateReports() {
			t.Errorf("role %s should not generate reports", role)
		}
	}
}
