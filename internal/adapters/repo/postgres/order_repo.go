package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/exactmatch/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusPending
	}
	items := o.Items
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Items").Create(o).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for i := range items {
			items[i].OrderID = o.ID
			if err := tx.Omit("Battery").Create(&items[i]).Error; err != nil {
				return fmt.Errorf("create order item %d: %w", i, err)
			}
		}
		o.Items = items
		return nil
	})
}

func (r *OrderRepo) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Items.Battery").
		Preload("Items.Battery.Images", imagesOrdered)
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]domain.Order, int64, error) {
	page, pageSize = domain.ClampPaging(page, pageSize)
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	list := []domain.Order{}
	err := r.withItems(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id asc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *OrderRepo) FindForUser(ctx context.Context, id uuid.UUID, userID uint) (*domain.Order, error) {
	var o domain.Order
	if err := first(r.withItems(ctx), &o, "id = ? AND user_id = ?", id, userID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var o domain.Order
	if err := first(r.withItems(ctx), &o, "id = ?", id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", o.ID).Updates(map[string]any{
		"status":       o.Status,
		"shipped_at":   o.ShippedAt,
		"delivered_at": o.DeliveredAt,
		"updated_at":   time.Now(),
	}).Error
}

// HasPurchased reports whether the user has a live order containing the battery.
func (r *OrderRepo) HasPurchased(ctx context.Context, userID uint, batteryID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.battery_id = ?", userID, batteryID).
		Where("orders.status NOT IN ?", []string{string(domain.OrderStatusCancelled), string(domain.OrderStatusRefunded)}).
		Count(&n).Error
	return n > 0, err
}
