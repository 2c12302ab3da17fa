package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTGenerateValidate(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour, "issuer")
	token, expiresAt, err := manager.Generate("admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Username != "admin" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestJWTGenerateInvalid(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour, "issuer")
	if _, _, err := manager.Generate(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestJWTValidateMissing(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour, "issuer")
	if _, err := manager.Validate(" "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestJWTValidateWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret", time.Hour, "issuer")
	other := NewJWTManager("other-secret", time.Hour, "issuer")

	token, _, err := other.Generate("admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := issuer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestJWTValidateTampered(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour, "issuer")
	token, _, err := manager.Generate("admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := manager.Validate(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if _, err := manager.Validate("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestJWTValidateExpired(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute, "issuer")
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := manager.Generate("admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	manager.now = time.Now
	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestJWTValidateRequiresExpiry(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour, "issuer")
	claims := &Claims{
		Username:         "admin",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "issuer"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}
}

func TestTokenFromHeader(t *testing.T) {
	if _, err := TokenFromHeader(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
	for _, header := range []string{"Bearer ", "Bearer", "  bearer  "} {
		if _, err := TokenFromHeader(header); !errors.Is(err, ErrMissingToken) {
			t.Fatalf("header %q: expected missing token error, got %v", header, err)
		}
	}
	if token, err := TokenFromHeader("Bearer   token  "); err != nil || token != "token" {
		t.Fatalf("expected trimmed token, got %s err %v", token, err)
	}
	if token, err := TokenFromHeader("Bearer token"); err != nil || token != "token" {
		t.Fatalf("expected token, got %s err %v", token, err)
	}
	if token, err := TokenFromHeader("raw-token"); err != nil || token != "raw-token" {
		t.Fatalf("expected raw token, got %s err %v", token, err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !CheckPassword(hash, "admin123") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "admin124") {
		t.Fatal("expected wrong password to fail")
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}
