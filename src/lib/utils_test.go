package lib

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateJWT("secret", time.Hour, 42)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	userID, err := VerifyJWT("secret", token)
	if err != nil {
		t.Fatalf("VerifyJWT failed: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestVerifyJWT_Rejects(t *testing.T) {
	t.Parallel()

	valid, _ := GenerateJWT("secret", time.Hour, 7)
	expired, _ := GenerateJWT("secret", -time.Minute, 7)
	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": 7,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "wrong secret", secret: "other", token: valid},
		{name: "tampered payload", secret: "secret", token: valid[:len(valid)-2] + "xx"},
		{name: "expired", secret: "secret", token: expired},
		{name: "missing user id", secret: "secret", token: noUser},
		{name: "alg none", secret: "secret", token: unsigned},
		{name: "garbage", secret: "secret", token: "not.a.token"},
	}

	for _, tc := range tests {
		if _, err := VerifyJWT(tc.secret, tc.token); err == nil {
			t.Fatalf("%s: expected verification to fail", tc.name)
		}
	}

	if _, err := VerifyJWT("secret", noUser); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing user id, got %v", err)
	}
}
