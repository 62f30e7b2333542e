package app

import (
	"context"

	"quizhub-service/internal/domain"
)

// Gate performs role and status checks against stored user records.
// All checks fail closed: a missing user or a storage error denies access.
type Gate struct {
	users UserStore
}

func NewGate(users UserStore) *Gate {
	return &Gate{users: users}
}

// VerifyRole reports whether the user exists and holds exactly the required role.
func (g *Gate) VerifyRole(ctx context.Context, userID string, role domain.Role) bool {
	user, err := g.users.GetUser(ctx, userID)
	if err != nil {
		return false
	}
	return user.Role == role
}

// VerifyActiveRole additionally requires the account not to be banned.
// State-changing calls go through this check.
func (g *Gate) VerifyActiveRole(ctx context.Context, userID string, role domain.Role) bool {
	user, err := g.users.GetUser(ctx, userID)
	if err != nil {
		return false
	}
	return user.Role == role && user.Status != domain.StatusBanned
}
