package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/crazyimage/task-system/internal/core/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash %q", hash)
	}
	if !h.Verify(hash, "s3cret") {
		t.Fatal("expected password to verify")
	}
	if h.Verify(hash, "wrong") {
		t.Fatal("wrong password must not verify")
	}
	if h.Verify("not-a-hash", "s3cret") {
		t.Fatal("malformed hash must not verify")
	}
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	if got := NewBcryptHasher(99).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}

func TestJWTIssuer_IssueAndParse(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Hour)
	user := &domain.User{ID: 7, Email: "alice@example.com", Username: "alice"}

	raw, err := iss.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := iss.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "alice@example.com" || claims.Subject != "7" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("token id must be set")
	}

	other, _ := iss.Issue(user)
	otherClaims, _ := iss.Parse(other)
	if otherClaims.ID == claims.ID {
		t.Fatal("each token must get a distinct id")
	}
}

func TestJWTIssuer_RejectsWrongSecret(t *testing.T) {
	raw, _ := NewJWTIssuer("secret", time.Hour).Issue(&domain.User{ID: 1})

	if _, err := NewJWTIssuer("other", time.Hour).Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTIssuer_RejectsExpired(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, _ := iss.Issue(&domain.User{ID: 1})

	if _, err := NewJWTIssuer("secret", time.Minute).Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTIssuer_RejectsOtherAlgorithm(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			Issuer:    issuerName,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewJWTIssuer("secret", time.Hour).Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTIssuer_RejectsGarbage(t *testing.T) {
	if _, err := NewJWTIssuer("secret", time.Hour).Parse("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
