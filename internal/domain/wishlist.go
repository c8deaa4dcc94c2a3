package domain

import (
	"time"

	"github.com/google/uuid"
)

type Wishlist struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlists_user_battery"`
	BatteryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_battery"`
	Battery   Battery   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}
