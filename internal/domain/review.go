package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID                 uint      `gorm:"primaryKey"`
	BatteryID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_battery_user"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_reviews_battery_user"`
	User               User      `gorm:"constraint:OnDelete:CASCADE"`
	Rating             int       `gorm:"not null"`
	Title              string    `gorm:"size:200;not null"`
	Comment            string    `gorm:"type:text;not null"`
	IsVerifiedPurchase bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
}

type ReviewInput struct {
	BatteryID string
	Rating    int
	Title     string
	Comment   string
}

// Validate checks field shapes; battery existence is checked by the caller.
func (in ReviewInput) Validate() (uuid.UUID, error) {
	verr := &ValidationError{}
	id, err := uuid.Parse(strings.TrimSpace(in.BatteryID))
	if err != nil {
		verr.Add("battery", "a valid battery id is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		verr.Add("rating", "rating must be between 1 and 5")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		verr.Add("title", "this field is required")
	} else if len([]rune(title)) > 200 {
		verr.Add("title", "ensure this field has no more than 200 characters")
	}
	if strings.TrimSpace(in.Comment) == "" {
		verr.Add("comment", "this field is required")
	}
	return id, verr.Err()
}
