package domain

import (
	"net/url"
	"strings"
	"time"
)

type Brand struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null;index"`
	Logo        string    `gorm:"size:255"`
	Description string    `gorm:"type:text"`
	Website     string    `gorm:"size:200"`
	Country     string    `gorm:"size:100"`
	IsPopular   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time

	// BatteryCount is filled by list queries with the number of active batteries.
	BatteryCount int64 `gorm:"-"`
}

type BrandInput struct {
	Name        string
	Logo        string
	Description string
	Website     string
	Country     string
	IsPopular   bool
}

func (in *BrandInput) Validate() error {
	verr := &ValidationError{}
	in.Name = strings.TrimSpace(in.Name)
	in.Website = strings.TrimSpace(in.Website)
	in.Country = strings.TrimSpace(in.Country)
	if in.Name == "" {
		verr.Add("name", "this field is required")
	} else if len([]rune(in.Name)) > 100 {
		verr.Add("name", "ensure this field has no more than 100 characters")
	}
	if len(in.Website) > 200 {
		verr.Add("website", "ensure this field has no more than 200 characters")
	} else if in.Website != "" {
		if u, err := url.Parse(in.Website); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			verr.Add("website", "enter a valid URL")
		}
	}
	if len([]rune(in.Country)) > 100 {
		verr.Add("country", "ensure this field has no more than 100 characters")
	}
	return verr.Err()
}

func (in *BrandInput) Apply(b *Brand) {
	b.Name = in.Name
	b.Logo = in.Logo
	b.Description = in.Description
	b.Website = in.Website
	b.Country = in.Country
	b.IsPopular = in.IsPopular
}

// BrandSlug is the URL token used for brand search suggestions.
func BrandSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
