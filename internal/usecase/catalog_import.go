package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/exactmatch/internal/domain"
)

// ImportCatalog upserts batteries keyed by model number. Brands and
// categories named by a row are created when missing. Rows failing
// validation are reported and skipped; storage errors abort the import.
func (uc *CatalogUC) ImportCatalog(ctx context.Context, actor domain.Actor, rows []domain.ImportRow) (domain.ImportReport, error) {
	rep := domain.ImportReport{Errors: []domain.ImportRowError{}}
	if err := requireStaff(actor); err != nil {
		return rep, err
	}
	for _, row := range rows {
		created, err := uc.importRow(ctx, actor, row)
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			rep.Errors = append(rep.Errors, domain.ImportRowError{Line: row.Line, Err: verr.Error()})
			continue
		case err != nil:
			return rep, fmt.Errorf("row %d: %w", row.Line, err)
		}
		if created {
			rep.Created++
		} else {
			rep.Updated++
		}
	}
	log.Info().Int("created", rep.Created).Int("updated", rep.Updated).Int("rejected", len(rep.Errors)).Msg("catalog import")
	return rep, nil
}

func (uc *CatalogUC) importRow(ctx context.Context, actor domain.Actor, row domain.ImportRow) (bool, error) {
	if len(row.Problems) > 0 {
		return false, &domain.ValidationError{Fields: row.Problems}
	}
	brand, err := uc.brandByName(ctx, row.BrandName)
	if err != nil {
		return false, err
	}
	in := row.Battery
	in.BrandID = brand.ID
	in.CategoryIDs = nil
	for _, ref := range row.Categories {
		c, err := uc.categoryByRef(ctx, ref)
		if err != nil {
			return false, err
		}
		in.CategoryIDs = append(in.CategoryIDs, c.ID)
	}

	existing, err := uc.Batteries.FindByModelNumber(ctx, in.ModelNumber)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		_, err := uc.createBattery(ctx, actor, in)
		return err == nil, err
	case err != nil:
		return false, err
	}
	return false, uc.updateBattery(ctx, existing, in)
}

func (uc *CatalogUC) brandByName(ctx context.Context, name string) (*domain.Brand, error) {
	in := domain.BrandInput{Name: name}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	b, err := uc.Brands.FindByName(ctx, in.Name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	b = &domain.Brand{}
	in.Apply(b)
	if err := uc.Brands.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (uc *CatalogUC) categoryByRef(ctx context.Context, ref domain.CategoryRef) (*domain.Category, error) {
	c, err := uc.Categories.FindByName(ctx, ref.Kind, ref.Name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	in := domain.CategoryInput{Name: ref.Name, CategoryType: ref.Kind, IsActive: true}
	if err := in.Validate(); err != nil {
		return nil, domain.NewValidationError("categories", fmt.Sprintf("unknown category %q", ref.Name))
	}
	c = &domain.Category{}
	in.Apply(c)
	if err := uc.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ExportCatalog returns every battery, active or not, for spreadsheet export.
func (uc *CatalogUC) ExportCatalog(ctx context.Context, actor domain.Actor) ([]domain.Battery, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return uc.Batteries.All(ctx)
}
