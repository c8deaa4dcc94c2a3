package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/phenrril/exactmatch/internal/domain"
)

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&domain.User{}, &domain.Brand{}, &domain.Category{}, &domain.Battery{},
		&domain.BatteryImage{}, &domain.Review{}, &domain.Wishlist{},
		&domain.Order{}, &domain.OrderItem{},
	}
}

var compositeIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_batteries_brand_active ON batteries (brand_id, is_active)",
	"CREATE INDEX IF NOT EXISTS idx_batteries_voltage_active ON batteries (voltage, is_active)",
	"CREATE INDEX IF NOT EXISTS idx_batteries_price_active ON batteries (price, is_active)",
	"CREATE INDEX IF NOT EXISTS idx_batteries_featured ON batteries (is_featured, is_active)",
	"CREATE INDEX IF NOT EXISTS idx_categories_type_parent ON categories (category_type, parent_category_id)",
	"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at)",
	"CREATE INDEX IF NOT EXISTS idx_battery_categories_category ON battery_categories (category_id)",
}

// Migrate creates or updates the schema. It is safe to run on every start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, stmt := range compositeIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index: %w", err)
		}
	}
	return nil
}
