package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/repository"
	"github.com/inkle/inkle-api/pkg/logger"
	"github.com/inkle/inkle-api/pkg/queue"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AccountService covers signup, login and the moderation lifecycle of users.
type AccountService struct {
	db       *repository.Database
	activity *ActivityService
	events   publisher
	logger   *logger.Logger
}

func NewAccountService(db *repository.Database, activity *ActivityService, producer queue.Publisher, logger *logger.Logger) *AccountService {
	return &AccountService{
		db:       db,
		activity: activity,
		events:   newPublisher(producer, logger),
		logger:   logger,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	return s.create(ctx, req, models.RoleUser)
}

func (s *AccountService) create(ctx context.Context, req *RegisterRequest, role models.Role) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.db.Repositories().Users.Create(ctx, user); err != nil {
		return nil, conflictOr(err, ErrEmailTaken)
	}

	s.events.publish(ctx, user.ID.String(), queue.EventUserCreated, queue.UserEventData{
		UserID: user.ID.String(),
		Role:   string(user.Role),
	})

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User registered successfully")

	return user, nil
}

// Login checks the credentials and returns the user the token is issued for.
func (s *AccountService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.db.Repositories().Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureOwner creates the owner account, or raises an existing account with
// the same email to owner.
func (s *AccountService) EnsureOwner(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	user, err := s.create(ctx, req, models.RoleOwner)
	if !errors.Is(err, ErrEmailTaken) {
		return user, err
	}

	repos := s.db.Repositories()
	existing, err := repos.Users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}
	if existing.Role != models.RoleOwner {
		if err := repos.Users.UpdateRole(ctx, existing.ID, models.RoleOwner); err != nil {
			return nil, err
		}
		existing.Role = models.RoleOwner
	}
	return existing, nil
}

func (s *AccountService) Me(ctx context.Context, current Principal) (*models.User, error) {
	user, err := s.db.Repositories().Users.GetByID(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.db.Repositories().Users.List(ctx)
}

// DeleteUser removes the user and everything that references them in one
// transaction: their likes, likes on their posts, follows and blocks in both
// directions, their posts, then the user row.
func (s *AccountService) DeleteUser(ctx context.Context, acting Principal, userID uuid.UUID) error {
	if err := requireRole(acting, models.RoleAdmin, models.RoleOwner); err != nil {
		return err
	}

	err := s.db.Transaction(ctx, func(repos *repository.Repositories) error {
		role, err := requireStoredRole(ctx, repos, acting, models.RoleAdmin, models.RoleOwner)
		if err != nil {
			return err
		}

		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if err := repos.Likes.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := repos.Likes.DeleteOnPostsBy(ctx, userID); err != nil {
			return err
		}
		if err := repos.Follows.DeleteAllFor(ctx, userID); err != nil {
			return err
		}
		if err := repos.Blocks.DeleteAllFor(ctx, userID); err != nil {
			return err
		}
		if err := repos.Posts.DeleteByAuthorID(ctx, userID); err != nil {
			return err
		}
		if err := repos.Users.Delete(ctx, userID); err != nil {
			return err
		}

		return s.activity.record(ctx, repos, models.ActivityDeleteUser, "User deleted by "+roleLabel(role))
	})
	if err != nil {
		return err
	}

	s.activity.invalidate(ctx)
	s.events.publish(ctx, userID.String(), queue.EventUserDeleted, queue.UserEventData{
		UserID:  userID.String(),
		ActorID: acting.ID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"actor_id": acting.ID,
		"role":     acting.Role,
	}).Info("User deleted successfully")

	return nil
}

// Promote makes the user an admin. Promoting an admin is a no-op.
func (s *AccountService) Promote(ctx context.Context, acting Principal, userID uuid.UUID) (*models.User, error) {
	if err := requireRole(acting, models.RoleOwner); err != nil {
		return nil, err
	}
	return s.setRole(ctx, acting, userID, models.RoleAdmin, false)
}

// Demote returns an admin to a regular user.
func (s *AccountService) Demote(ctx context.Context, acting Principal, userID uuid.UUID) (*models.User, error) {
	if err := requireRole(acting, models.RoleOwner); err != nil {
		return nil, err
	}
	return s.setRole(ctx, acting, userID, models.RoleUser, true)
}

func (s *AccountService) setRole(ctx context.Context, acting Principal, userID uuid.UUID, role models.Role, adminOnly bool) (*models.User, error) {
	var user *models.User
	err := s.db.Transaction(ctx, func(repos *repository.Repositories) error {
		if _, err := requireStoredRole(ctx, repos, acting, models.RoleOwner); err != nil {
			return err
		}

		var err error
		user, err = repos.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		if adminOnly && user.Role != models.RoleAdmin {
			return ErrNotAdmin
		}
		if user.Role == role {
			return nil
		}

		if err := repos.Users.UpdateRole(ctx, userID, role); err != nil {
			return err
		}
		user.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, userID.String(), queue.EventRoleChanged, queue.UserEventData{
		UserID:  userID.String(),
		Role:    string(role),
		ActorID: acting.ID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"role":     role,
		"actor_id": acting.ID,
	}).Info("User role updated successfully")

	return user, nil
}
