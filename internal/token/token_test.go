package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "abcdefghijklmnopqrstuvwxyz123456"

func TestManager_IssueAndParse(t *testing.T) {
	m, err := NewManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	raw, expiresAt, err := m.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if until := time.Until(expiresAt); until <= 0 || until > time.Hour {
		t.Errorf("expiresAt = %v, want within the next hour", expiresAt)
	}

	id, err := m.Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if id != 42 {
		t.Errorf("Parse() = %d, want 42", id)
	}
}

func TestManager_ParseRejects(t *testing.T) {
	m, err := NewManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	other, err := NewManager("zyxwvutsrqponmlkjihgfedcba654321", time.Hour)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	foreign, _, err := other.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	expired := &Manager{secret: []byte(testSecret), expiry: time.Minute, now: func() time.Time {
		return time.Now().Add(-time.Hour)
	}}
	stale, _, err := expired.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"other secret", foreign},
		{"expired", stale},
		{"alg none", noneAlg},
		{"non numeric subject", badSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Parse(tt.raw); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNewManager_Validation(t *testing.T) {
	if _, err := NewManager("", time.Hour); err == nil {
		t.Error("NewManager(empty secret) error = nil, want error")
	}
	if _, err := NewManager(testSecret, 0); err == nil {
		t.Error("NewManager(zero expiry) error = nil, want error")
	}
}
