package app_test

import (
	"context"
	"testing"

	"quizhub-service/internal/app"
	"quizhub-service/internal/domain"
)

func TestVerifyRole(t *testing.T) {
	ctx := context.Background()
	gate := app.NewGate(newTestStore())

	tests := []struct {
		name   string
		userID string
		role   domain.Role
		want   bool
	}{
		{"student matches", "student-1", domain.RoleStudent, true},
		{"admin matches", "admin-1", domain.RoleAdmin, true},
		{"role mismatch", "student-1", domain.RoleAdmin, false},
		{"missing user fails closed", "no-such-user", domain.RoleStudent, false},
		{"empty id fails closed", "", domain.RoleAdmin, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.VerifyRole(ctx, tt.userID, tt.role); got != tt.want {
				t.Fatalf("VerifyRole(%q, %q) = %v, want %v", tt.userID, tt.role, got, tt.want)
			}
		})
	}
}

func TestVerifyActiveRoleBlocksBanned(t *testing.T) {
	ctx := context.Background()
	gate := app.NewGate(newTestStore())

	// Banned student passes the plain role check but not the active one.
	if !gate.VerifyRole(ctx, "banned-1", domain.RoleStudent) {
		t.Fatal("banned user still holds the student role")
	}
	if gate.VerifyActiveRole(ctx, "banned-1", domain.RoleStudent) {
		t.Fatal("banned user must not pass the active check")
	}
}
