package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("test-secret-test-secret-test-secret", time.Hour)
	token, err := s.GenerateToken("estimator-1", "Eva", "eva@example.com", "ESTIMATOR", []string{"pricing:edit"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "estimator-1" || claims.RoleCode != "ESTIMATOR" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(claims.Privileges) != 1 || claims.Privileges[0] != "pricing:edit" {
		t.Fatalf("unexpected privileges: %v", claims.Privileges)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	s := NewSigner("secret-a-secret-a-secret-a-secret-a", time.Hour)
	other := NewSigner("secret-b-secret-b-secret-b-secret-b", time.Hour)
	foreign, err := other.GenerateToken("x", "X", "", "VIEWER", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	expired, err := (&Signer{secret: []byte("secret-a-secret-a-secret-a-secret-a"), ttl: -time.Hour}).GenerateToken("x", "X", "", "VIEWER", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-token", ErrInvalidToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.ValidateToken(tc.token); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
