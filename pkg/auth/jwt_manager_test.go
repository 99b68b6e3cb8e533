package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateVerifyRoundtrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("user@example.com", "USER")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if claims.Subject != "user@example.com" {
		t.Errorf("subject = %q, want user@example.com", claims.Subject)
	}
	if claims.Role != "USER" {
		t.Errorf("role = %q, want USER", claims.Role)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Generate("user@example.com", "USER")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := NewJWTManager("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify with wrong secret: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.Generate("user@example.com", "USER")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify expired: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	if _, err := m.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify garbage: err = %v, want ErrInvalidToken", err)
	}
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "abc123", true},
		{"Basic abc123", "", false},
		{"abc123", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		token, err := ExtractBearer(tt.header)
		if tt.ok && (err != nil || token != tt.token) {
			t.Errorf("ExtractBearer(%q) = %q, %v; want %q", tt.header, token, err, tt.token)
		}
		if !tt.ok && err == nil {
			t.Errorf("ExtractBearer(%q) succeeded, want error", tt.header)
		}
	}
}
