package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/phenrril/exactmatch/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) activeCounts(ctx context.Context) (map[uint]int64, error) {
	var rows []countRow
	err := r.db.WithContext(ctx).Table("battery_categories").
		Select("battery_categories.category_id AS id, COUNT(*) AS count").
		Joins("JOIN batteries ON batteries.id = battery_categories.battery_id").
		Where("batteries.is_active = ?", true).
		Group("battery_categories.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count category batteries: %w", err)
	}
	m := make(map[uint]int64, len(rows))
	for _, row := range rows {
		m[row.ID] = row.Count
	}
	return m, nil
}

// All returns every category with its active battery count; tree assembly
// happens in the domain layer.
func (r *CategoryRepo) All(ctx context.Context) ([]domain.Category, error) {
	list := []domain.Category{}
	if err := r.db.WithContext(ctx).Order("category_type asc, display_order asc, name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	counts, err := r.activeCounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].BatteryCount = counts[list[i].ID]
	}
	return list, nil
}

func (r *CategoryRepo) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := first(r.db.WithContext(ctx), &c, "id = ?", id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) FindByIDs(ctx context.Context, ids []uint) ([]domain.Category, error) {
	list := []domain.Category{}
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CategoryRepo) FindByName(ctx context.Context, kind domain.CategoryKind, name string) (*domain.Category, error) {
	var c domain.Category
	q := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if kind != "" {
		q = q.Where("category_type = ?", string(kind))
	}
	if err := first(q, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) ParentOf(ctx context.Context, id uint) (*uint, error) {
	var c domain.Category
	if err := first(r.db.WithContext(ctx).Select("id", "parent_category_id"), &c, "id = ?", id); err != nil {
		return nil, err
	}
	return c.ParentCategoryID, nil
}

func (r *CategoryRepo) Save(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}
