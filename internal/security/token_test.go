package security

import (
	"testing"
	"time"
)

func TestTokenIssueAndValidate(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, expiresAt, err := manager.Issue("profile-123", "parent")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("Issue() returned expiry in the past")
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Subject != "profile-123" {
		t.Errorf("claims.Subject = %v, want profile-123", claims.Subject)
	}
	if claims.UserType != "parent" {
		t.Errorf("claims.UserType = %v, want parent", claims.UserType)
	}
}

func TestTokenValidateRejectsWrongSecret(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("different-secret", time.Hour)

	token, _, err := manager.Issue("profile-123", "child")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Validate(token); err == nil {
		t.Error("Validate() accepted a token signed with another secret")
	}
}

func TestTokenValidateRejectsExpired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, _, err := manager.Issue("profile-123", "child")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := manager.Validate(token); err == nil {
		t.Error("Validate() accepted an expired token")
	}
}

func TestTokenValidateRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	if _, err := manager.Validate("not-a-token"); err == nil {
		t.Error("Validate() accepted garbage input")
	}
}
