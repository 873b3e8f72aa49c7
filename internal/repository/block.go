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

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

func (r *BlockRepository) Create(ctx context.Context, block *models.Block) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(block).Error; err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}
	return nil
}

// Delete reports whether a block was removed.
func (r *BlockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete block: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteAllFor removes blocks in either direction that involve userID.
func (r *BlockRepository) DeleteAllFor(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("blocker_id = ? OR blocked_id = ?", userID, userID).
		Delete(&models.Block{}).Error; err != nil {
		return fmt.Errorf("failed to delete blocks: %w", err)
	}
	return nil
}

func (r *BlockRepository) Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	var block models.Block
	err := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		First(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return true, nil
}

func (r *BlockRepository) CountInvolving(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("blocker_id = ? OR blocked_id = ?", userID, userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count blocks: %w", err)
	}
	return count, nil
}
