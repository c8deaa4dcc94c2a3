package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BatteryInput is the writable surface of a Battery used by admin and import.
type BatteryInput struct {
	Name               string
	BrandID            uint
	CategoryIDs        []uint
	CompatibleVehicles []string
	VehicleMakes       []string
	VehicleModels      []string
	ModelNumber        string
	Voltage            Voltage
	AmpHours           int
	ColdCrankingAmps   int
	ReserveCapacity    int
	Length             decimal.Decimal
	Width              decimal.Decimal
	Height             decimal.Decimal
	Weight             decimal.Decimal
	Condition          Condition
	Price              decimal.Decimal
	OriginalPrice      *decimal.Decimal
	StockQuantity      int
	Description        string
	ShortDescription   string
	Features           []string
	Compatibility      []string
	Slug               string
	IsFeatured         bool
	IsPopular          bool
	IsActive           bool
}

var maxDimension = decimal.RequireFromString("9999.99")

func checkRange(verr *ValidationError, field string, v, lo, hi int) {
	if v < lo || v > hi {
		verr.Add(field, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
}

// Validate normalises text fields in place and checks every range rule.
func (in *BatteryInput) Validate() error {
	verr := &ValidationError{}
	in.Name = strings.TrimSpace(in.Name)
	in.ModelNumber = strings.TrimSpace(in.ModelNumber)
	in.ShortDescription = strings.TrimSpace(in.ShortDescription)
	in.Slug = strings.TrimSpace(in.Slug)

	if in.Name == "" {
		verr.Add("name", "this field is required")
	} else if len([]rune(in.Name)) > 200 {
		verr.Add("name", "ensure this field has no more than 200 characters")
	}
	if in.ModelNumber == "" {
		verr.Add("model_number", "this field is required")
	} else if len(in.ModelNumber) > 100 {
		verr.Add("model_number", "ensure this field has no more than 100 characters")
	}
	if in.BrandID == 0 {
		verr.Add("brand", "this field is required")
	}
	if in.Voltage == "" {
		in.Voltage = Voltage12
	}
	if !in.Voltage.Valid() {
		verr.Add("voltage", fmt.Sprintf("%q is not a valid choice", in.Voltage))
	}
	if in.Condition == "" {
		in.Condition = ConditionNew
	}
	if !in.Condition.Valid() {
		verr.Add("condition", fmt.Sprintf("%q is not a valid choice", in.Condition))
	}
	checkRange(verr, "amp_hours", in.AmpHours, 1, 1000)
	checkRange(verr, "cold_cranking_amps", in.ColdCrankingAmps, 1, 2000)
	checkRange(verr, "reserve_capacity", in.ReserveCapacity, 1, 500)

	dims := []struct {
		name string
		val  decimal.Decimal
	}{{"length", in.Length}, {"width", in.Width}, {"height", in.Height}, {"weight", in.Weight}}
	for _, d := range dims {
		if d.val.IsNegative() || d.val.GreaterThan(maxDimension) || !d.val.Equal(d.val.Round(2)) {
			verr.Add(d.name, "ensure no more than 6 digits with 2 decimal places")
		}
	}
	if in.Price.IsNegative() {
		verr.Add("price", "must be zero or greater")
	}
	if in.OriginalPrice != nil && in.OriginalPrice.IsNegative() {
		verr.Add("original_price", "must be zero or greater")
	}
	if in.StockQuantity < 0 {
		verr.Add("stock_quantity", "must be zero or greater")
	}
	if len([]rune(in.ShortDescription)) > 300 {
		verr.Add("short_description", "ensure this field has no more than 300 characters")
	}
	if strings.TrimSpace(in.Description) == "" {
		verr.Add("description", "this field is required")
	}
	if in.Slug != "" && Slugify(in.Slug) != in.Slug {
		verr.Add("slug", "enter a valid slug of letters, numbers and hyphens")
	}
	return verr.Err()
}

// Apply copies the input onto b, leaving identity and relations to the caller.
func (in *BatteryInput) Apply(b *Battery) {
	b.Name = in.Name
	b.BrandID = in.BrandID
	b.CompatibleVehicles = nonNil(in.CompatibleVehicles)
	b.VehicleMakes = nonNil(in.VehicleMakes)
	b.VehicleModels = nonNil(in.VehicleModels)
	b.ModelNumber = in.ModelNumber
	b.Voltage = in.Voltage
	b.AmpHours = in.AmpHours
	b.ColdCrankingAmps = in.ColdCrankingAmps
	b.ReserveCapacity = in.ReserveCapacity
	b.Length = in.Length
	b.Width = in.Width
	b.Height = in.Height
	b.Weight = in.Weight
	b.Condition = in.Condition
	b.Price = in.Price
	b.OriginalPrice = decimal.NullDecimal{}
	if in.OriginalPrice != nil {
		b.OriginalPrice = decimal.NewNullDecimal(*in.OriginalPrice)
	}
	b.StockQuantity = in.StockQuantity
	b.Description = in.Description
	b.ShortDescription = in.ShortDescription
	b.Features = nonNil(in.Features)
	b.Compatibility = nonNil(in.Compatibility)
	b.IsFeatured = in.IsFeatured
	b.IsPopular = in.IsPopular
	b.IsActive = in.IsActive
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
