package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/phenrril/exactmatch/internal/domain"
)

type StatsRepo struct{ db *gorm.DB }

func NewStatsRepo(db *gorm.DB) *StatsRepo { return &StatsRepo{db: db} }

func (r *StatsRepo) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	var s domain.DashboardStats
	active := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.Battery{}).Where("is_active = ?", true)
	}
	counts := []struct {
		name string
		q    *gorm.DB
		dst  *int64
	}{
		{"batteries", active(), &s.TotalBatteries},
		{"featured", active().Where("is_featured = ?", true), &s.FeaturedBatteries},
		{"popular", active().Where("is_popular = ?", true), &s.PopularBatteries},
		{"in stock", active().Where("stock_quantity > 0"), &s.InStockBatteries},
		{"brands", r.db.WithContext(ctx).Model(&domain.Brand{}), &s.TotalBrands},
		{"categories", r.db.WithContext(ctx).Model(&domain.Category{}), &s.TotalCategories},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return s, fmt.Errorf("count %s: %w", c.name, err)
		}
	}
	return s, nil
}
