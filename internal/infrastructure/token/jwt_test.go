package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

var carol = domain.Identity{ID: "u1", Name: "carol", Email: "carol@example.com", Role: domain.RoleUser}

func TestJWTService_IssueVerify(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	raw, err := svc.Issue(context.Background(), carol)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := svc.Verify(context.Background(), raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != carol {
		t.Fatalf("got %+v, want %+v", got, carol)
	}
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err := svc.Issue(context.Background(), carol)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(context.Background(), raw); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	raw, _ := NewJWTService("secret", time.Hour).Issue(context.Background(), carol)

	if _, err := NewJWTService("other", time.Hour).Verify(context.Background(), raw); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"id":   "u1",
		"role": "USER",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewJWTService("secret", time.Hour).Verify(context.Background(), raw); err == nil {
		t.Fatalf("expected HS512 token to be rejected")
	}
}

func TestJWTService_MalformedClaims(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   "u1",
		"role": "ROOT",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	raw, _ := tok.SignedString([]byte("secret"))

	if _, err := NewJWTService("secret", time.Hour).Verify(context.Background(), raw); !errors.Is(err, ErrMalformedClaims) {
		t.Fatalf("expected ErrMalformedClaims, got %v", err)
	}
}

func TestJWTService_Garbage(t *testing.T) {
	if _, err := NewJWTService("secret", time.Hour).Verify(context.Background(), "not-a-jwt"); err == nil {
		t.Fatalf("expected parse error")
	}
}
