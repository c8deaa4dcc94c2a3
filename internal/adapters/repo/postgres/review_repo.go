package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/exactmatch/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) ListByBattery(ctx context.Context, batteryID uuid.UUID) ([]domain.Review, error) {
	list := []domain.Review{}
	err := r.db.WithContext(ctx).Preload("User").
		Where("battery_id = ?", batteryID).
		Order("created_at desc, id desc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ReviewRepo) Exists(ctx context.Context, batteryID uuid.UUID, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("battery_id = ? AND user_id = ?", batteryID, userID).
		Count(&n).Error
	return n > 0, err
}

// Create inserts the review; the (battery,user) unique index turns a racing
// duplicate into domain.ErrConflict.
func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	err := r.db.WithContext(ctx).Omit("User").Create(rv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}
