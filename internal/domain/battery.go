package domain

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Voltage string

const (
	Voltage12 Voltage = "12V"
	Voltage24 Voltage = "24V"
	Voltage6  Voltage = "6V"
)

func (v Voltage) Valid() bool {
	return v == Voltage12 || v == Voltage24 || v == Voltage6
}

type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionUsed        Condition = "used"
	ConditionRefurbished Condition = "refurbished"
)

func (c Condition) Valid() bool {
	return c == ConditionNew || c == ConditionUsed || c == ConditionRefurbished
}

// StringList is stored as newline separated text. Substring predicates on
// the column then only ever see element text, never encoding punctuation.
type StringList []string

const listSep = "\n"

var listSanitizer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func (l StringList) Value() (driver.Value, error) {
	parts := make([]string, 0, len(l))
	for _, s := range l {
		if s = strings.TrimSpace(listSanitizer.Replace(s)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, listSep), nil
}

func (l *StringList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan StringList: unsupported type %T", src)
	}
	out := StringList{}
	for _, s := range strings.Split(raw, listSep) {
		if s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

type Battery struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name               string              `gorm:"size:200;not null"`
	BrandID            uint                `gorm:"not null;index"`
	Brand              Brand               `gorm:"constraint:OnDelete:CASCADE"`
	Categories         []Category          `gorm:"many2many:battery_categories;constraint:OnDelete:CASCADE"`
	CompatibleVehicles StringList          `gorm:"type:text"`
	VehicleMakes       StringList          `gorm:"type:text"`
	VehicleModels      StringList          `gorm:"type:text"`
	ModelNumber        string              `gorm:"size:100;uniqueIndex;not null"`
	Voltage            Voltage             `gorm:"type:varchar(10);not null;index"`
	AmpHours           int                 `gorm:"not null"`
	ColdCrankingAmps   int                 `gorm:"not null"`
	ReserveCapacity    int                 `gorm:"not null"`
	Length             decimal.Decimal     `gorm:"type:decimal(6,2)"`
	Width              decimal.Decimal     `gorm:"type:decimal(6,2)"`
	Height             decimal.Decimal     `gorm:"type:decimal(6,2)"`
	Weight             decimal.Decimal     `gorm:"type:decimal(6,2)"`
	Condition          Condition           `gorm:"type:varchar(20);not null"`
	Price              decimal.Decimal     `gorm:"type:decimal(10,2);not null;index"`
	OriginalPrice      decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	StockQuantity      int                 `gorm:"not null;default:0"`
	Description        string              `gorm:"type:text"`
	ShortDescription   string              `gorm:"size:300"`
	Features           datatypes.JSONSlice[string]
	Compatibility      datatypes.JSONSlice[string]
	Slug               string              `gorm:"size:250;uniqueIndex;not null"`
	IsFeatured         bool                `gorm:"not null;default:false"`
	IsPopular          bool                `gorm:"not null;default:false"`
	IsActive           bool                `gorm:"not null;index"`
	SellerID           uint                `gorm:"index"`
	Seller             User                `gorm:"constraint:OnDelete:CASCADE"`
	Images             []BatteryImage      `gorm:"constraint:OnDelete:CASCADE"`
	Reviews            []Review            `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time           `gorm:"index"`
	UpdatedAt          time.Time
}

// DiscountPercentage is the whole-number markdown from OriginalPrice, 0 when
// there is none.
func (b *Battery) DiscountPercentage() int {
	if !b.OriginalPrice.Valid || !b.OriginalPrice.Decimal.GreaterThan(b.Price) {
		return 0
	}
	orig := b.OriginalPrice.Decimal
	pct := orig.Sub(b.Price).Div(orig).Mul(decimal.NewFromInt(100))
	return int(pct.RoundBank(0).IntPart())
}

func (b *Battery) InStock() bool { return b.StockQuantity > 0 }

// PrimaryImage returns the image flagged primary, nil when none is.
func (b *Battery) PrimaryImage() *BatteryImage {
	for i := range b.Images {
		if b.Images[i].IsPrimary {
			return &b.Images[i]
		}
	}
	return nil
}

// AverageRating rounds the mean rating to one decimal, 0 without reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

type BatteryImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatteryID uuid.UUID `gorm:"type:uuid;index;not null"`
	Image     string    `gorm:"size:255;not null"`
	AltText   string    `gorm:"size:200"`
	IsPrimary bool      `gorm:"not null;default:false"`
	Order     int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time
}

// DashboardStats are the homepage counters.
type DashboardStats struct {
	TotalBatteries    int64 `json:"total_batteries"`
	FeaturedBatteries int64 `json:"featured_batteries"`
	PopularBatteries  int64 `json:"popular_batteries"`
	TotalBrands       int64 `json:"total_brands"`
	TotalCategories   int64 `json:"total_categories"`
	InStockBatteries  int64 `json:"in_stock_batteries"`
}

// Suggestion is one entry of the search-as-you-type list.
type Suggestion struct {
	Text string `json:"text"`
	Type string `json:"type"`
	Slug string `json:"slug"`
}
