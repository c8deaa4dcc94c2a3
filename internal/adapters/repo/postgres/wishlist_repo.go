package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/exactmatch/internal/domain"
)

type WishlistRepo struct{ db *gorm.DB }

func NewWishlistRepo(db *gorm.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) List(ctx context.Context, userID uint) ([]domain.Wishlist, error) {
	list := []domain.Wishlist{}
	err := r.db.WithContext(ctx).
		Preload("Battery").
		Preload("Battery.Brand").
		Preload("Battery.Categories", categoriesOrdered).
		Preload("Battery.Images", imagesOrdered).
		Preload("Battery.Reviews", ratingsOnly).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *WishlistRepo) Add(ctx context.Context, userID uint, batteryID uuid.UUID) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Wishlist
		err := tx.Where("user_id = ? AND battery_id = ?", userID, batteryID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		w := domain.Wishlist{UserID: userID, BatteryID: batteryID, CreatedAt: time.Now()}
		if err := tx.Omit("Battery").Create(&w).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent add won the insert
		return false, nil
	}
	return created, err
}

func (r *WishlistRepo) Remove(ctx context.Context, userID uint, batteryID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND battery_id = ?", userID, batteryID).Delete(&domain.Wishlist{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
