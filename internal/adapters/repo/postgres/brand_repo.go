package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/exactmatch/internal/domain"
)

type BrandRepo struct{ db *gorm.DB }

func NewBrandRepo(db *gorm.DB) *BrandRepo { return &BrandRepo{db: db} }

type countRow struct {
	ID    uint
	Count int64
}

func (r *BrandRepo) activeCounts(ctx context.Context) (map[uint]int64, error) {
	var rows []countRow
	err := r.db.WithContext(ctx).Model(&domain.Battery{}).
		Select("brand_id AS id, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("brand_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count brand batteries: %w", err)
	}
	m := make(map[uint]int64, len(rows))
	for _, row := range rows {
		m[row.ID] = row.Count
	}
	return m, nil
}

func (r *BrandRepo) withCounts(ctx context.Context, list []domain.Brand) ([]domain.Brand, error) {
	counts, err := r.activeCounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].BatteryCount = counts[list[i].ID]
	}
	return list, nil
}

func (r *BrandRepo) List(ctx context.Context) ([]domain.Brand, error) {
	list := []domain.Brand{}
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return r.withCounts(ctx, list)
}

func (r *BrandRepo) Search(ctx context.Context, term string, limit int) ([]domain.Brand, error) {
	list := []domain.Brand{}
	err := r.db.WithContext(ctx).
		Where(ilike("name"), likeArg(strings.TrimSpace(term))).
		Order("name asc").Limit(limit).Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BrandRepo) FindByID(ctx context.Context, id uint) (*domain.Brand, error) {
	var b domain.Brand
	if err := first(r.db.WithContext(ctx), &b, "id = ?", id); err != nil {
		return nil, err
	}
	list, err := r.withCounts(ctx, []domain.Brand{b})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *BrandRepo) FindByName(ctx context.Context, name string) (*domain.Brand, error) {
	var b domain.Brand
	if err := first(r.db.WithContext(ctx), &b, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BrandRepo) Save(ctx context.Context, b *domain.Brand) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BrandRepo) HasOrderedBatteries(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.OrderItem{}).
		Where("battery_id IN (SELECT id FROM batteries WHERE brand_id = ?)", id).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes the brand together with its batteries.
func (r *BrandRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Brand
		if err := first(tx, &b, "id = ?", id); err != nil {
			return err
		}
		var ids []uuid.UUID
		if err := tx.Model(&domain.Battery{}).Where("brand_id = ?", id).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if err := deleteBatteries(tx, ids); err != nil {
			return err
		}
		return tx.Delete(&b).Error
	})
}
