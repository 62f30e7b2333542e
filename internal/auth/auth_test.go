package auth

import (
	"testing"
	"time"

	"quizhub-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	token, err := service.IssueToken("user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := service.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != "admin" {
		t.Fatalf("claims mangled: %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewService("secret-a", time.Hour).IssueToken("user-1", domain.RoleStudent)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewService("secret-b", time.Hour).ParseToken(token); err == nil {
		t.Fatal("expected parse failure with a different secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := NewService("secret", -time.Minute).IssueToken("user-1", domain.RoleStudent)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewService("secret", time.Hour).ParseToken(token); err == nil {
		t.Fatal("expected parse failure for expired token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}
