package postgres

import (
	"strings"

	"gorm.io/gorm"

	"github.com/phenrril/exactmatch/internal/domain"
)

const categoryExists = "EXISTS (SELECT 1 FROM battery_categories bc JOIN categories c ON c.id = bc.category_id WHERE bc.battery_id = batteries.id AND "

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeArg builds a case-insensitive substring pattern for ilike. Wildcards in
// s match literally.
func likeArg(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// ilike is the predicate paired with likeArg.
func ilike(col string) string {
	return "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
}

var searchPredicate = "(" + strings.Join([]string{
	ilike("batteries.name"),
	ilike("batteries.model_number"),
	ilike("batteries.description"),
	ilike("batteries.short_description"),
	ilike("batteries.compatible_vehicles"),
	"batteries.brand_id IN (SELECT id FROM brands WHERE " + ilike("brands.name") + ")",
}, " OR ") + ")"

// applyBatteryQuery narrows q to the active batteries matching f. Each
// recognised parameter contributes one AND-ed predicate.
func applyBatteryQuery(q *gorm.DB, f domain.BatteryQuery) *gorm.DB {
	q = q.Where("batteries.is_active = ?", true)

	if f.MinPrice != nil {
		q = q.Where("batteries.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("batteries.price <= ?", *f.MaxPrice)
	}
	if b := strings.TrimSpace(f.Brand); b != "" {
		q = q.Where("batteries.brand_id IN (SELECT id FROM brands WHERE "+ilike("brands.name")+")", likeArg(b))
	}
	if f.BrandID != nil {
		q = q.Where("batteries.brand_id = ?", *f.BrandID)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where(categoryExists+ilike("c.name")+")", likeArg(c))
	}
	if len(f.CategoryIDs) > 0 {
		q = q.Where(categoryExists+"bc.category_id IN ?)", f.CategoryIDs)
	}
	if f.CategoryType != "" {
		q = q.Where(categoryExists+"c.category_type = ?)", string(f.CategoryType))
	}
	if f.Voltage != "" {
		q = q.Where("batteries.voltage = ?", string(f.Voltage))
	}
	if f.Condition != "" {
		q = q.Where("batteries.condition = ?", string(f.Condition))
	}
	if f.MinAmpHours != nil {
		q = q.Where("batteries.amp_hours >= ?", *f.MinAmpHours)
	}
	if f.MaxAmpHours != nil {
		q = q.Where("batteries.amp_hours <= ?", *f.MaxAmpHours)
	}
	if f.MinCCA != nil {
		q = q.Where("batteries.cold_cranking_amps >= ?", *f.MinCCA)
	}
	if f.MaxCCA != nil {
		q = q.Where("batteries.cold_cranking_amps <= ?", *f.MaxCCA)
	}
	if f.InStock {
		q = q.Where("batteries.stock_quantity > 0")
	}
	if v := strings.TrimSpace(f.VehicleSearch); strings.ContainsAny(v, "\r\n") {
		// list elements never contain line breaks
		q = q.Where("1 = 0")
	} else if v != "" {
		like := likeArg(v)
		q = q.Where("("+ilike("batteries.compatible_vehicles")+" OR "+ilike("batteries.vehicle_makes")+" OR "+ilike("batteries.vehicle_models")+")", like, like, like)
	}
	if f.IsFeatured != nil {
		q = q.Where("batteries.is_featured = ?", *f.IsFeatured)
	}
	if f.IsPopular != nil {
		q = q.Where("batteries.is_popular = ?", *f.IsPopular)
	}
	// every search term has to hit at least one of the text columns
	for _, term := range strings.Fields(f.Search) {
		like := likeArg(term)
		q = q.Where(searchPredicate, like, like, like, like, like, like)
	}
	return q
}

func applyOrdering(q *gorm.DB, fields []domain.SortField) *gorm.DB {
	for _, s := range fields {
		col, ok := domain.BatterySortFields[s.Field]
		if !ok {
			continue
		}
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		q = q.Order("batteries." + col + dir)
	}
	// stable pages when the sort key ties
	return q.Order("batteries.id ASC")
}
