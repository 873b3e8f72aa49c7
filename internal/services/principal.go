package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/repository"
)

// Principal is the authenticated caller as carried by the access token.
type Principal struct {
	ID   uuid.UUID
	Role models.Role
}

func requireRole(p Principal, roles ...models.Role) error {
	for _, role := range roles {
		if p.Role == role {
			return nil
		}
	}
	return ErrInsufficientRole
}

// roleLabel renders the acting role for moderation activity text.
func roleLabel(role models.Role) string {
	if role == models.RoleOwner {
		return "Owner"
	}
	return "Admin"
}

// requireStoredRole re-checks the acting user's current role inside the
// transaction, so a demotion applies before the caller's token expires.
func requireStoredRole(ctx context.Context, repos *repository.Repositories, p Principal, roles ...models.Role) (models.Role, error) {
	user, err := repos.Users.GetByID(ctx, p.ID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrCurrentUserNotFound
	}
	if err := requireRole(Principal{ID: user.ID, Role: user.Role}, roles...); err != nil {
		return "", err
	}
	return user.Role, nil
}
