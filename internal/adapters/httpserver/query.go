package httpserver

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phenrril/exactmatch/internal/domain"
)

// parseBatteryQuery reads the catalog listing parameters. Values that do not
// parse are dropped, so a malformed filter never fails the request.
func parseBatteryQuery(v url.Values) domain.BatteryQuery {
	q := domain.BatteryQuery{
		MinPrice:      queryDecimal(v, "min_price"),
		MaxPrice:      queryDecimal(v, "max_price"),
		Category:      strings.TrimSpace(v.Get("category")),
		CategoryIDs:   queryUintList(v, "categories"),
		MinAmpHours:   queryInt(v, "min_amp_hours"),
		MaxAmpHours:   queryInt(v, "max_amp_hours"),
		MinCCA:        queryInt(v, "min_cca"),
		MaxCCA:        queryInt(v, "max_cca"),
		VehicleSearch: strings.TrimSpace(v.Get("vehicle_search")),
		IsFeatured:    queryBool(v, "is_featured"),
		IsPopular:     queryBool(v, "is_popular"),
		Ordering:      parseOrdering(v.Get("ordering")),
	}

	// brand is always a name fragment; the exact id comes from brand_id
	q.Brand = strings.TrimSpace(v.Get("brand"))
	if ids := queryUintList(v, "brand_id"); len(ids) == 1 {
		q.BrandID = &ids[0]
	}

	if k := domain.CategoryKind(v.Get("category_type")); k.Valid() {
		q.CategoryType = k
	}
	if volt := domain.Voltage(v.Get("voltage")); volt.Valid() {
		q.Voltage = volt
	}
	if c := domain.Condition(v.Get("condition")); c.Valid() {
		q.Condition = c
	}
	if b := queryBool(v, "in_stock"); b != nil {
		q.InStock = *b
	}

	q.Search = strings.TrimSpace(v.Get("search"))
	if q.Search == "" {
		q.Search = strings.TrimSpace(v.Get("q"))
	}

	if p := queryInt(v, "page"); p != nil {
		q.Page = *p
	}
	if ps := queryInt(v, "page_size"); ps != nil {
		q.PageSize = *ps
	}
	return q
}

func parseOrdering(raw string) []domain.SortField {
	var out []domain.SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f := domain.SortField{Field: part}
		if strings.HasPrefix(part, "-") {
			f = domain.SortField{Field: part[1:], Desc: true}
		}
		if _, ok := domain.BatterySortFields[f.Field]; ok {
			out = append(out, f)
		}
	}
	return out
}

func queryDecimal(v url.Values, key string) *decimal.Decimal {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func queryInt(v url.Values, key string) *int {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func queryBool(v url.Values, key string) *bool {
	var b bool
	switch strings.ToLower(strings.TrimSpace(v.Get(key))) {
	case "true", "1", "yes", "on":
		b = true
	case "false", "0", "no", "off":
		b = false
	default:
		return nil
	}
	return &b
}

func queryUintList(v url.Values, key string) []uint {
	var out []uint
	for _, raw := range v[key] {
		for _, part := range strings.Split(raw, ",") {
			n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 0)
			if err != nil {
				continue
			}
			out = append(out, uint(n))
		}
	}
	return out
}

// pagingParams reads page and page_size for the fixed lists.
func pagingParams(v url.Values) (int, int) {
	page, size := 0, 0
	if p := queryInt(v, "page"); p != nil {
		page = *p
	}
	if ps := queryInt(v, "page_size"); ps != nil {
		size = *ps
	}
	return domain.ClampPaging(page, size)
}
