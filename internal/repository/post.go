package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// ListVisibleTo returns every post newest first, minus posts whose author has
// blocked viewerID.
func (r *PostRepository) ListVisibleTo(ctx context.Context, viewerID uuid.UUID) ([]*models.Post, error) {
	blockers := r.db.Model(&models.Block{}).Select("blocker_id").Where("blocked_id = ?", viewerID)

	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Where("author_id NOT IN (?)", blockers).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list visible posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (r *PostRepository) DeleteByAuthorID(ctx context.Context, authorID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("failed to delete posts by author: %w", err)
	}
	return nil
}

func (r *PostRepository) CountByAuthorID(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
