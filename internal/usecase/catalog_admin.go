package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/exactmatch/internal/domain"
)

const maxSlugBase = 240

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

func requireActor(a domain.Actor) error {
	if !a.Authenticated() {
		return domain.ErrUnauthorized
	}
	return nil
}

func requireStaff(a domain.Actor) error {
	if err := requireActor(a); err != nil {
		return err
	}
	if !a.IsStaff {
		return domain.ErrForbidden
	}
	return nil
}

// --- Brands ---

func (uc *CatalogUC) CreateBrand(ctx context.Context, actor domain.Actor, in domain.BrandInput) (*domain.Brand, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	b := &domain.Brand{}
	in.Apply(b)
	if err := uc.Brands.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (uc *CatalogUC) UpdateBrand(ctx context.Context, actor domain.Actor, id uint, in domain.BrandInput) (*domain.Brand, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	b, err := uc.Brands.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.Apply(b)
	if err := uc.Brands.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBrand removes a brand and its batteries unless one of them was ordered.
func (uc *CatalogUC) DeleteBrand(ctx context.Context, actor domain.Actor, id uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	ordered, err := uc.Brands.HasOrderedBatteries(ctx, id)
	if err != nil {
		return err
	}
	if ordered {
		return fmt.Errorf("%w: brand has batteries referenced by orders", domain.ErrConflict)
	}
	return uc.Brands.Delete(ctx, id)
}

// --- Categories ---

func (uc *CatalogUC) CreateCategory(ctx context.Context, actor domain.Actor, in domain.CategoryInput) (*domain.Category, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	c := &domain.Category{}
	if err := uc.applyCategory(ctx, c, &in); err != nil {
		return nil, err
	}
	if err := uc.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *CatalogUC) UpdateCategory(ctx context.Context, actor domain.Actor, id uint, in domain.CategoryInput) (*domain.Category, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	c, err := uc.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.applyCategory(ctx, c, &in); err != nil {
		return nil, err
	}
	if err := uc.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// applyCategory validates in and rejects a parent link that would close a loop.
func (uc *CatalogUC) applyCategory(ctx context.Context, c *domain.Category, in *domain.CategoryInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if in.ParentCategoryID != nil {
		if _, err := uc.Categories.FindByID(ctx, *in.ParentCategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError("parent_category", "invalid pk - object does not exist")
			}
			return err
		}
		parentOf := func(id uint) (*uint, error) { return uc.Categories.ParentOf(ctx, id) }
		if err := domain.EnsureAcyclic(c.ID, in.ParentCategoryID, parentOf); err != nil {
			if errors.Is(err, domain.ErrCategoryCycle) {
				return domain.NewValidationError("parent_category", err.Error())
			}
			return err
		}
	}
	in.Apply(c)
	return nil
}

// --- Batteries ---

func (uc *CatalogUC) CreateBattery(ctx context.Context, actor domain.Actor, in domain.BatteryInput) (*domain.Battery, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	b, err := uc.createBattery(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	return uc.Batteries.FindByID(ctx, b.ID)
}

func (uc *CatalogUC) UpdateBattery(ctx context.Context, actor domain.Actor, id uuid.UUID, in domain.BatteryInput) (*domain.Battery, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	b, err := uc.Batteries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.updateBattery(ctx, b, in); err != nil {
		return nil, err
	}
	return uc.Batteries.FindByID(ctx, id)
}

func (uc *CatalogUC) createBattery(ctx context.Context, actor domain.Actor, in domain.BatteryInput) (*domain.Battery, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	b := &domain.Battery{ID: uuid.New(), SellerID: actor.UserID}
	if err := uc.prepareBattery(ctx, b, &in); err != nil {
		return nil, err
	}
	if err := uc.Batteries.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (uc *CatalogUC) updateBattery(ctx context.Context, b *domain.Battery, in domain.BatteryInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := uc.prepareBattery(ctx, b, &in); err != nil {
		return err
	}
	return uc.Batteries.Update(ctx, b)
}

// prepareBattery resolves the brand and categories, enforces model number and
// slug uniqueness and copies in onto b.
func (uc *CatalogUC) prepareBattery(ctx context.Context, b *domain.Battery, in *domain.BatteryInput) error {
	brand, err := uc.Brands.FindByID(ctx, in.BrandID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError("brand", "invalid pk - object does not exist")
	}
	if err != nil {
		return err
	}

	ids := dedupeIDs(in.CategoryIDs)
	cats, err := uc.Categories.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(cats) != len(ids) {
		return domain.NewValidationError("categories", "invalid pk - object does not exist")
	}

	other, err := uc.Batteries.FindByModelNumber(ctx, in.ModelNumber)
	switch {
	case err == nil && other.ID != b.ID:
		return domain.NewValidationError("model_number", "battery with this model number already exists")
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return err
	}

	switch {
	case in.Slug != "":
		taken, err := uc.Batteries.SlugTaken(ctx, in.Slug, b.ID)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewValidationError("slug", "battery with this slug already exists")
		}
		b.Slug = in.Slug
	case b.Slug == "":
		slug, err := uc.uniqueSlug(ctx, domain.Slugify(brand.Name, in.Name, in.ModelNumber), b.ID)
		if err != nil {
			return err
		}
		b.Slug = slug
	}

	in.Apply(b)
	b.Brand = *brand
	b.Categories = cats
	return nil
}

func (uc *CatalogUC) uniqueSlug(ctx context.Context, base string, exclude uuid.UUID) (string, error) {
	if base == "" {
		base = "battery"
	}
	if len(base) > maxSlugBase {
		base = strings.TrimRight(base[:maxSlugBase], "-")
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := uc.Batteries.SlugTaken(ctx, slug, exclude)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// DeleteBattery refuses batteries that appear in orders; stored images are
// removed after the rows are gone.
func (uc *CatalogUC) DeleteBattery(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	b, err := uc.Batteries.FindByID(ctx, id)
	if err != nil {
		return err
	}
	ordered, err := uc.Batteries.InOrders(ctx, id)
	if err != nil {
		return err
	}
	if ordered {
		return fmt.Errorf("%w: battery is referenced by orders", domain.ErrConflict)
	}
	if err := uc.Batteries.Delete(ctx, id); err != nil {
		return err
	}
	for _, img := range b.Images {
		uc.removeStored(ctx, img.Image)
	}
	return nil
}

// --- Images ---

type ImageUpload struct {
	Filename  string
	Content   io.Reader
	AltText   string
	IsPrimary bool
	Order     int
}

func (uc *CatalogUC) AddImage(ctx context.Context, actor domain.Actor, batteryID uuid.UUID, up ImageUpload) (*domain.BatteryImage, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if _, err := uc.Batteries.FindByID(ctx, batteryID); err != nil {
		return nil, err
	}
	verr := &domain.ValidationError{}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if up.Content == nil {
		verr.Add("image", "no file was submitted")
	} else if !imageExtensions[ext] {
		verr.Add("image", "upload a valid image")
	}
	up.AltText = strings.TrimSpace(up.AltText)
	if len([]rune(up.AltText)) > 200 {
		verr.Add("alt_text", "ensure this field has no more than 200 characters")
	}
	if up.Order < 0 {
		verr.Add("order", "must be zero or greater")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	path, err := uc.Storage.Save(ctx, "batteries", uuid.NewString()+ext, up.Content)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	img := &domain.BatteryImage{
		BatteryID: batteryID,
		Image:     path,
		AltText:   up.AltText,
		IsPrimary: up.IsPrimary,
		Order:     up.Order,
	}
	if err := uc.Batteries.AddImage(ctx, img); err != nil {
		uc.removeStored(ctx, path)
		return nil, err
	}
	return img, nil
}

func (uc *CatalogUC) SetPrimaryImage(ctx context.Context, actor domain.Actor, batteryID, imageID uuid.UUID) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return uc.Batteries.SetPrimaryImage(ctx, batteryID, imageID)
}

func (uc *CatalogUC) DeleteImage(ctx context.Context, actor domain.Actor, batteryID, imageID uuid.UUID) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	img, err := uc.Batteries.DeleteImage(ctx, batteryID, imageID)
	if err != nil {
		return err
	}
	uc.removeStored(ctx, img.Image)
	return nil
}

func (uc *CatalogUC) removeStored(ctx context.Context, path string) {
	if uc.Storage == nil || path == "" {
		return
	}
	if err := uc.Storage.Delete(ctx, path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("delete stored image")
	}
}
