package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/services"
	"golang.org/x/crypto/bcrypt"
)

const DefaultPassword = "Test123456"

// CreateUser inserts a user with DefaultPassword and the given role.
func (td *TestDatabase) CreateUser(t *testing.T, name string, role models.Role) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := td.DB.Repositories().Users.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}
	return user
}

func (td *TestDatabase) CreatePost(t *testing.T, author *models.User, content string) *models.Post {
	post := &models.Post{AuthorID: author.ID, Content: content}
	if err := td.DB.Repositories().Posts.Create(context.Background(), post); err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	return post
}

func PrincipalOf(user *models.User) services.Principal {
	return services.Principal{ID: user.ID, Role: user.Role}
}
