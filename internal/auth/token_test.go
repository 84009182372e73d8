package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	raw, err := tokens.Issue(42, "ADMIN")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("userID = %d, want 42", claims.UserID)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("role = %q, want ADMIN", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, err := NewTokens("secret-a", time.Hour).Issue(1, "USER")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokens("secret-b", time.Hour).Parse(raw); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	tokens := NewTokens("test-secret", -time.Minute)
	raw, err := tokens.Issue(1, "USER")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := tokens.Parse(raw); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := NewTokens("test-secret", time.Hour).Parse("not-a-token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}
