package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts the edge. A duplicate (follower, followee) pair fails with an
// error wrapping gorm.ErrDuplicatedKey.
func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(follow).Error; err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// Delete reports whether an edge was removed.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete follow: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteAllFor removes follows in either direction that involve userID.
func (r *FollowRepository) DeleteAllFor(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? OR followee_id = ?", userID, userID).
		Delete(&models.Follow{}).Error; err != nil {
		return fmt.Errorf("failed to delete follows: %w", err)
	}
	return nil
}

func (r *FollowRepository) CountInvolving(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? OR followee_id = ?", userID, userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count follows: %w", err)
	}
	return count, nil
}
