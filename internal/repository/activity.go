package repository

import (
	"context"
	"fmt"

	"github.com/inkle/inkle-api/internal/models"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// Latest returns at most limit activities, newest first. Ties on created_at
// are broken by insertion order.
func (r *ActivityRepository) Latest(ctx context.Context, limit int) ([]*models.Activity, error) {
	var activities []*models.Activity
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (r *ActivityRepository) CountByType(ctx context.Context, t models.ActivityType) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("type = ?", t).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}
