package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/repository"
	"github.com/inkle/inkle-api/pkg/logger"
	"github.com/inkle/inkle-api/pkg/queue"
	"github.com/sirupsen/logrus"
)

type PostService struct {
	db       *repository.Database
	activity *ActivityService
	events   publisher
	logger   *logger.Logger
}

func NewPostService(db *repository.Database, activity *ActivityService, producer queue.Publisher, logger *logger.Logger) *PostService {
	return &PostService{
		db:       db,
		activity: activity,
		events:   newPublisher(producer, logger),
		logger:   logger,
	}
}

type CreatePostRequest struct {
	Content string `json:"content"`
}

func (s *PostService) CreatePost(ctx context.Context, current Principal, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	post := &models.Post{Content: content, AuthorID: current.ID}
	err := s.db.Transaction(ctx, func(repos *repository.Repositories) error {
		author, err := repos.Users.GetByID(ctx, current.ID)
		if err != nil {
			return err
		}
		if author == nil {
			return ErrCurrentUserNotFound
		}

		if err := repos.Posts.Create(ctx, post); err != nil {
			return err
		}

		return s.activity.record(ctx, repos, models.ActivityPost, fmt.Sprintf("%s made a post", author.Name))
	})
	if err != nil {
		return nil, err
	}

	s.activity.invalidate(ctx)
	s.events.publish(ctx, post.ID.String(), queue.EventPostCreated, queue.PostEventData{
		PostID:   post.ID.String(),
		AuthorID: current.ID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"post_id":   post.ID,
		"author_id": current.ID,
	}).Info("Post created successfully")

	return post, nil
}

// ListVisiblePosts returns all posts newest first, hiding posts whose author
// has blocked the viewer. A block in the other direction hides nothing.
func (s *PostService) ListVisiblePosts(ctx context.Context, viewer Principal) ([]*models.Post, error) {
	repos := s.db.Repositories()

	user, err := repos.Users.GetByID(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrCurrentUserNotFound
	}

	return repos.Posts.ListVisibleTo(ctx, viewer.ID)
}

func (s *PostService) LikePost(ctx context.Context, current Principal, postID uuid.UUID) error {
	var authorID uuid.UUID
	err := s.db.Transaction(ctx, func(repos *repository.Repositories) error {
		liker, err := repos.Users.GetByID(ctx, current.ID)
		if err != nil {
			return err
		}
		if liker == nil {
			return ErrCurrentUserNotFound
		}

		post, err := repos.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
		authorID = post.AuthorID

		blocked, err := repos.Blocks.Exists(ctx, post.AuthorID, current.ID)
		if err != nil {
			return err
		}
		if blocked {
			return ErrBlockedByAuthor
		}

		author, err := repos.Users.GetByID(ctx, post.AuthorID)
		if err != nil {
			return err
		}
		if author == nil {
			return fmt.Errorf("post %s references missing author %s", post.ID, post.AuthorID)
		}

		if err := repos.Likes.Create(ctx, &models.Like{UserID: current.ID, PostID: postID}); err != nil {
			return conflictOr(err, ErrAlreadyLiked)
		}

		text := fmt.Sprintf("%s liked %s's post", liker.Name, author.Name)
		return s.activity.record(ctx, repos, models.ActivityLike, text)
	})
	if err != nil {
		return err
	}

	s.activity.invalidate(ctx)
	s.events.publish(ctx, postID.String(), queue.EventLikeCreated, queue.LikeEventData{
		UserID: current.ID.String(),
		PostID: postID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"user_id":   current.ID,
		"post_id":   postID,
		"author_id": authorID,
	}).Info("Post liked successfully")

	return nil
}

func (s *PostService) UnlikePost(ctx context.Context, current Principal, postID uuid.UUID) error {
	err := s.db.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := requireUser(ctx, repos, current.ID); err != nil {
			return err
		}

		deleted, err := repos.Likes.Delete(ctx, current.ID, postID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotLiked
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.publish(ctx, postID.String(), queue.EventLikeDeleted, queue.LikeEventData{
		UserID: current.ID.String(),
		PostID: postID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"user_id": current.ID,
		"post_id": postID,
	}).Info("Post unliked successfully")

	return nil
}

// DeletePost removes a post and its likes. Restricted to admins and the owner.
func (s *PostService) DeletePost(ctx context.Context, acting Principal, postID uuid.UUID) error {
	if err := requireRole(acting, models.RoleAdmin, models.RoleOwner); err != nil {
		return err
	}

	var authorID uuid.UUID
	err := s.db.Transaction(ctx, func(repos *repository.Repositories) error {
		role, err := requireStoredRole(ctx, repos, acting, models.RoleAdmin, models.RoleOwner)
		if err != nil {
			return err
		}

		post, err := repos.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
		authorID = post.AuthorID

		if err := repos.Likes.DeleteByPostID(ctx, postID); err != nil {
			return err
		}
		if err := repos.Posts.Delete(ctx, postID); err != nil {
			return err
		}

		text := fmt.Sprintf("Post deleted by %s", roleLabel(role))
		return s.activity.record(ctx, repos, models.ActivityDeletePost, text)
	})
	if err != nil {
		return err
	}

	s.activity.invalidate(ctx)
	s.events.publish(ctx, postID.String(), queue.EventPostDeleted, queue.PostEventData{
		PostID:   postID.String(),
		AuthorID: authorID.String(),
		ActorID:  acting.ID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"post_id":  postID,
		"actor_id": acting.ID,
		"role":     acting.Role,
	}).Info("Post deleted successfully")

	return nil
}
