package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/repository"
	"github.com/inkle/inkle-api/pkg/logger"
	"github.com/inkle/inkle-api/pkg/queue"
	"github.com/sirupsen/logrus"
)

// GraphService mutates follow and block edges.
type GraphService struct {
	db       *repository.Database
	activity *ActivityService
	events   publisher
	logger   *logger.Logger
}

func NewGraphService(db *repository.Database, activity *ActivityService, producer queue.Publisher, logger *logger.Logger) *GraphService {
	return &GraphService{
		db:       db,
		activity: activity,
		events:   newPublisher(producer, logger),
		logger:   logger,
	}
}

func (s *GraphService) Follow(ctx context.Context, current Principal, targetID uuid.UUID) error {
	if current.ID == targetID {
		return ErrSelfFollow
	}

	err := s.db.Transaction(ctx, func(repos *repository.Repositories) error {
		follower, err := repos.Users.GetByID(ctx, current.ID)
		if err != nil {
			return err
		}
		if follower == nil {
			return ErrCurrentUserNotFound
		}

		target, err := repos.Users.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if target == nil {
			return ErrUserNotFound
		}

		follow := &models.Follow{FollowerID: current.ID, FolloweeID: targetID}
		if err := repos.Follows.Create(ctx, follow); err != nil {
			return conflictOr(err, ErrAlreadyFollowing)
		}

		text := fmt.Sprintf("%s followed %s", follower.Name, target.Name)
		return s.activity.record(ctx, repos, models.ActivityFollow, text)
	})
	if err != nil {
		return err
	}

	s.activity.invalidate(ctx)
	s.events.publish(ctx, current.ID.String(), queue.EventFollowCreated, queue.EdgeEventData{
		FromID: current.ID.String(),
		ToID:   targetID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"follower_id": current.ID,
		"followee_id": targetID,
	}).Info("User followed successfully")

	return nil
}

func (s *GraphService) Unfollow(ctx context.Context, current Principal, targetID uuid.UUID) error {
	err := s.db.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := requireUser(ctx, repos, current.ID); err != nil {
			return err
		}

		deleted, err := repos.Follows.Delete(ctx, current.ID, targetID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFollowing
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.publish(ctx, current.ID.String(), queue.EventFollowDeleted, queue.EdgeEventData{
		FromID: current.ID.String(),
		ToID:   targetID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"follower_id": current.ID,
		"followee_id": targetID,
	}).Info("User unfollowed successfully")

	return nil
}

// Block records current -> target and drops current's follow of target. The
// reverse follow, if any, is left alone.
func (s *GraphService) Block(ctx context.Context, current Principal, targetID uuid.UUID) error {
	if current.ID == targetID {
		return ErrSelfBlock
	}

	err := s.db.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := requireUser(ctx, repos, current.ID); err != nil {
			return err
		}

		target, err := repos.Users.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if target == nil {
			return ErrUserNotFound
		}

		block := &models.Block{BlockerID: current.ID, BlockedID: targetID}
		if err := repos.Blocks.Create(ctx, block); err != nil {
			return conflictOr(err, ErrAlreadyBlocked)
		}

		_, err = repos.Follows.Delete(ctx, current.ID, targetID)
		return err
	})
	if err != nil {
		return err
	}

	s.events.publish(ctx, current.ID.String(), queue.EventBlockCreated, queue.EdgeEventData{
		FromID: current.ID.String(),
		ToID:   targetID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"blocker_id": current.ID,
		"blocked_id": targetID,
	}).Info("User blocked successfully")

	return nil
}

func (s *GraphService) Unblock(ctx context.Context, current Principal, targetID uuid.UUID) error {
	err := s.db.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := requireUser(ctx, repos, current.ID); err != nil {
			return err
		}

		deleted, err := repos.Blocks.Delete(ctx, current.ID, targetID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotBlocked
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.publish(ctx, current.ID.String(), queue.EventBlockDeleted, queue.EdgeEventData{
		FromID: current.ID.String(),
		ToID:   targetID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"blocker_id": current.ID,
		"blocked_id": targetID,
	}).Info("User unblocked successfully")

	return nil
}

// requireUser fails with ErrCurrentUserNotFound when the caller's account is
// gone, e.g. deleted after the token was issued.
func requireUser(ctx context.Context, repos *repository.Repositories, id uuid.UUID) error {
	user, err := repos.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrCurrentUserNotFound
	}
	return nil
}
