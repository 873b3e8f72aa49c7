package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts the like. A second like for the same (user, post) pair fails
// with an error wrapping gorm.ErrDuplicatedKey.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(like).Error; err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Delete reports whether a like was removed.
func (r *LikeRepository) Delete(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *LikeRepository) DeleteByPostID(ctx context.Context, postID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.Like{}).Error; err != nil {
		return fmt.Errorf("failed to delete likes by post: %w", err)
	}
	return nil
}

func (r *LikeRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Like{}).Error; err != nil {
		return fmt.Errorf("failed to delete likes by user: %w", err)
	}
	return nil
}

// DeleteOnPostsBy removes every like on posts written by authorID.
func (r *LikeRepository) DeleteOnPostsBy(ctx context.Context, authorID uuid.UUID) error {
	posts := r.db.Model(&models.Post{}).Select("id").Where("author_id = ?", authorID)
	if err := r.db.WithContext(ctx).
		Where("post_id IN (?)", posts).
		Delete(&models.Like{}).Error; err != nil {
		return fmt.Errorf("failed to delete likes on user posts: %w", err)
	}
	return nil
}
