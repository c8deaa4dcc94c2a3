package domain

import "github.com/shopspring/decimal"

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// Sortable battery columns accepted by BatteryQuery.Ordering.
var BatterySortFields = map[string]string{
	"price":              "price",
	"created_at":         "created_at",
	"name":               "name",
	"amp_hours":          "amp_hours",
	"cold_cranking_amps": "cold_cranking_amps",
}

type SortField struct {
	Field string
	Desc  bool
}

// BatteryQuery is the structured form of the catalog listing parameters.
// Zero values mean "no constraint". Every set constraint is ANDed; the
// multi-valued ones (CategoryIDs, the vehicle fields, the search columns)
// are ORed internally.
type BatteryQuery struct {
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal

	Brand        string
	BrandID      *uint
	Category     string
	CategoryIDs  []uint
	CategoryType CategoryKind
	Voltage      Voltage
	Condition    Condition

	MinAmpHours *int
	MaxAmpHours *int
	MinCCA      *int
	MaxCCA      *int

	InStock       bool
	VehicleSearch string
	IsFeatured    *bool
	IsPopular     *bool

	Search   string
	Ordering []SortField

	Page     int
	PageSize int
}

// Normalize clamps paging and falls back to newest-first ordering.
func (q BatteryQuery) Normalize() BatteryQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	valid := q.Ordering[:0:0]
	for _, s := range q.Ordering {
		if _, ok := BatterySortFields[s.Field]; ok {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		valid = []SortField{{Field: "created_at", Desc: true}}
	}
	q.Ordering = valid
	return q
}

func (q BatteryQuery) Offset() int { return (q.Page - 1) * q.PageSize }

// Page is a generic slice of results with the total row count.
type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

func (p Page[T]) HasNext() bool { return int64(p.Page*p.PageSize) < p.Total }

func (p Page[T]) HasPrevious() bool { return p.Page > 1 }

// ClampPaging applies the shared page-size defaults to a page/size pair.
func ClampPaging(page, size int) (int, int) {
	q := BatteryQuery{Page: page, PageSize: size}.Normalize()
	return q.Page, q.PageSize
}
