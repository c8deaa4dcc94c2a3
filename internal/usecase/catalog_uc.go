package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/phenrril/exactmatch/internal/domain"
)

const (
	suggestMinLength = 2
	suggestBatteries = 10
	suggestBrands    = 5
)

type CatalogUC struct {
	Batteries  domain.BatteryRepo
	Brands     domain.BrandRepo
	Categories domain.CategoryRepo
	Stats      domain.StatsRepo
	Storage    domain.FileStorage
}

func (uc *CatalogUC) List(ctx context.Context, q domain.BatteryQuery) (domain.Page[domain.Battery], error) {
	q = q.Normalize()
	list, total, err := uc.Batteries.List(ctx, q)
	if err != nil {
		return domain.Page[domain.Battery]{}, err
	}
	return domain.Page[domain.Battery]{Items: list, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

func (uc *CatalogUC) Featured(ctx context.Context, page, pageSize int) (domain.Page[domain.Battery], error) {
	yes := true
	return uc.List(ctx, domain.BatteryQuery{IsFeatured: &yes, Page: page, PageSize: pageSize})
}

func (uc *CatalogUC) Popular(ctx context.Context, page, pageSize int) (domain.Page[domain.Battery], error) {
	yes := true
	return uc.List(ctx, domain.BatteryQuery{IsPopular: &yes, Page: page, PageSize: pageSize})
}

func (uc *CatalogUC) GetBySlug(ctx context.Context, slug string) (*domain.Battery, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	return uc.Batteries.FindBySlug(ctx, slug)
}

// Specifications loads an active battery for the specification sheet.
func (uc *CatalogUC) Specifications(ctx context.Context, id uuid.UUID) (*domain.Battery, error) {
	return uc.Batteries.FindActiveByID(ctx, id)
}

func (uc *CatalogUC) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return uc.Brands.List(ctx)
}

func (uc *CatalogUC) CategoryTree(ctx context.Context, q domain.CategoryListQuery) ([]domain.Category, error) {
	all, err := uc.Categories.All(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildCategoryTree(all, q), nil
}

// Suggestions lists batteries first, then brands, for search-as-you-type.
func (uc *CatalogUC) Suggestions(ctx context.Context, term string) ([]domain.Suggestion, error) {
	term = strings.TrimSpace(term)
	out := []domain.Suggestion{}
	if len([]rune(term)) < suggestMinLength {
		return out, nil
	}
	batteries, err := uc.Batteries.Suggest(ctx, term, suggestBatteries)
	if err != nil {
		return nil, err
	}
	for _, b := range batteries {
		out = append(out, domain.Suggestion{
			Text: strings.TrimSpace(b.Brand.Name + " " + b.Name),
			Type: "battery",
			Slug: b.Slug,
		})
	}
	brands, err := uc.Brands.Search(ctx, term, suggestBrands)
	if err != nil {
		return nil, err
	}
	for _, br := range brands {
		out = append(out, domain.Suggestion{Text: br.Name, Type: "brand", Slug: domain.BrandSlug(br.Name)})
	}
	return out, nil
}

func (uc *CatalogUC) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	return uc.Stats.Dashboard(ctx)
}
