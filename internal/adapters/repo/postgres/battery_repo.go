package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phenrril/exactmatch/internal/domain"
)

type BatteryRepo struct{ db *gorm.DB }

func NewBatteryRepo(db *gorm.DB) *BatteryRepo { return &BatteryRepo{db: db} }

func imagesOrdered(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc, created_at asc") }

func ratingsOnly(db *gorm.DB) *gorm.DB { return db.Select("id", "battery_id", "rating") }

func categoriesOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("category_type asc, display_order asc, name asc")
}

// listPreloads loads what the list view needs: brand, categories, images and
// bare ratings for the average.
func listPreloads(q *gorm.DB) *gorm.DB {
	return q.Preload("Brand").
		Preload("Categories", categoriesOrdered).
		Preload("Images", imagesOrdered).
		Preload("Reviews", ratingsOnly)
}

func (r *BatteryRepo) List(ctx context.Context, f domain.BatteryQuery) ([]domain.Battery, int64, error) {
	f = f.Normalize()
	q := applyBatteryQuery(r.db.WithContext(ctx).Model(&domain.Battery{}), f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count batteries: %w", err)
	}
	list := []domain.Battery{}
	if total == 0 {
		return list, 0, nil
	}
	q = applyOrdering(q, f.Ordering)
	if err := listPreloads(q).Offset(f.Offset()).Limit(f.PageSize).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list batteries: %w", err)
	}
	return list, total, nil
}

func (r *BatteryRepo) detail(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Seller").
		Preload("Categories", categoriesOrdered).
		Preload("Images", imagesOrdered).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Reviews.User")
}

func first(q *gorm.DB, dest any, cond ...any) error {
	if err := q.First(dest, cond...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *BatteryRepo) FindBySlug(ctx context.Context, slug string) (*domain.Battery, error) {
	var b domain.Battery
	if err := first(r.detail(ctx), &b, "slug = ? AND is_active = ?", slug, true); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatteryRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*domain.Battery, error) {
	var b domain.Battery
	if err := first(r.detail(ctx), &b, "id = ? AND is_active = ?", id, true); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatteryRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Battery, error) {
	var b domain.Battery
	if err := first(r.detail(ctx), &b, "id = ?", id); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatteryRepo) FindByModelNumber(ctx context.Context, modelNumber string) (*domain.Battery, error) {
	var b domain.Battery
	if err := first(r.db.WithContext(ctx).Preload("Categories"), &b, "model_number = ?", modelNumber); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatteryRepo) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&domain.Battery{}).Where("slug = ?", slug)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *BatteryRepo) Create(ctx context.Context, b *domain.Battery) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cats := b.Categories
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(b).Error; err != nil {
			return fmt.Errorf("create battery: %w", err)
		}
		return linkCategories(tx, b.ID, cats)
	})
}

func (r *BatteryRepo) Update(ctx context.Context, b *domain.Battery) error {
	cats := b.Categories
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(b).Select("*").Omit(clause.Associations, "created_at").Updates(b)
		if res.Error != nil {
			return fmt.Errorf("update battery: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Exec("DELETE FROM battery_categories WHERE battery_id = ?", b.ID).Error; err != nil {
			return fmt.Errorf("unlink categories: %w", err)
		}
		return linkCategories(tx, b.ID, cats)
	})
}

func linkCategories(tx *gorm.DB, batteryID uuid.UUID, cats []domain.Category) error {
	seen := map[uint]struct{}{}
	for _, c := range cats {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		if err := tx.Exec("INSERT INTO battery_categories (battery_id, category_id) VALUES (?, ?)", batteryID, c.ID).Error; err != nil {
			return fmt.Errorf("link category %d: %w", c.ID, err)
		}
	}
	return nil
}

func (r *BatteryRepo) InOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.OrderItem{}).Where("battery_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// deleteBatteries removes the batteries and everything hanging off them.
func deleteBatteries(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	steps := []struct {
		what  string
		model any
		where string
	}{
		{"images", &domain.BatteryImage{}, "battery_id IN ?"},
		{"reviews", &domain.Review{}, "battery_id IN ?"},
		{"wishlist", &domain.Wishlist{}, "battery_id IN ?"},
	}
	for _, s := range steps {
		if err := tx.Where(s.where, ids).Delete(s.model).Error; err != nil {
			return fmt.Errorf("delete %s: %w", s.what, err)
		}
	}
	if err := tx.Exec("DELETE FROM battery_categories WHERE battery_id IN ?", ids).Error; err != nil {
		return fmt.Errorf("delete category links: %w", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&domain.Battery{}).Error; err != nil {
		return fmt.Errorf("delete batteries: %w", err)
	}
	return nil
}

func (r *BatteryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Battery{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return deleteBatteries(tx, []uuid.UUID{id})
	})
}

func (r *BatteryRepo) Suggest(ctx context.Context, term string, limit int) ([]domain.Battery, error) {
	like := likeArg(strings.TrimSpace(term))
	list := []domain.Battery{}
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Where("is_active = ?", true).
		Where("("+ilike("batteries.name")+" OR "+ilike("batteries.model_number")+" OR batteries.brand_id IN (SELECT id FROM brands WHERE "+ilike("brands.name")+"))", like, like, like).
		Order("created_at desc").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BatteryRepo) All(ctx context.Context) ([]domain.Battery, error) {
	list := []domain.Battery{}
	if err := r.db.WithContext(ctx).Preload("Brand").Preload("Categories").Order("created_at asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// --- Images ---

// AddImage stores img; when it is primary, or the first image of the
// battery, every sibling loses the primary flag in the same transaction.
func (r *BatteryRepo) AddImage(ctx context.Context, img *domain.BatteryImage) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.BatteryImage{}).Where("battery_id = ?", img.BatteryID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			img.IsPrimary = true
		}
		if img.IsPrimary {
			if err := clearPrimary(tx, img.BatteryID); err != nil {
				return err
			}
		}
		return tx.Create(img).Error
	})
}

func clearPrimary(tx *gorm.DB, batteryID uuid.UUID) error {
	return tx.Model(&domain.BatteryImage{}).
		Where("battery_id = ? AND is_primary = ?", batteryID, true).
		Update("is_primary", false).Error
}

func (r *BatteryRepo) SetPrimaryImage(ctx context.Context, batteryID, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var img domain.BatteryImage
		if err := first(tx, &img, "id = ? AND battery_id = ?", imageID, batteryID); err != nil {
			return err
		}
		if err := clearPrimary(tx, batteryID); err != nil {
			return err
		}
		return tx.Model(&img).Update("is_primary", true).Error
	})
}

// DeleteImage removes the image; if it was primary the oldest remaining
// image is promoted.
func (r *BatteryRepo) DeleteImage(ctx context.Context, batteryID, imageID uuid.UUID) (*domain.BatteryImage, error) {
	var img domain.BatteryImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &img, "id = ? AND battery_id = ?", imageID, batteryID); err != nil {
			return err
		}
		if err := tx.Delete(&img).Error; err != nil {
			return err
		}
		if !img.IsPrimary {
			return nil
		}
		var next domain.BatteryImage
		err := imagesOrdered(tx.Where("battery_id = ?", batteryID)).First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_primary", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}
