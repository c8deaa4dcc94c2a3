package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type CategoryKind string

const (
	KindVehicleType CategoryKind = "vehicle_type"
	KindBatteryType CategoryKind = "battery_type"
	KindUseCase     CategoryKind = "use_case"
	KindBrandSeries CategoryKind = "brand_series"
)

func (k CategoryKind) Valid() bool {
	switch k {
	case KindVehicleType, KindBatteryType, KindUseCase, KindBrandSeries:
		return true
	}
	return false
}

type Category struct {
	ID               uint         `gorm:"primaryKey"`
	Name             string       `gorm:"size:100;not null"`
	CategoryType     CategoryKind `gorm:"type:varchar(20);not null;index"`
	Description      string       `gorm:"type:text"`
	Image            string       `gorm:"size:255"`
	ParentCategoryID *uint        `gorm:"index"`
	IsActive         bool         `gorm:"not null;index"`
	DisplayOrder     int          `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	BatteryCount  int64      `gorm:"-"`
	Subcategories []Category `gorm:"-"`
}

// CategoryListQuery selects reference categories. With neither Kind nor
// ParentID set only top-level categories are returned.
type CategoryListQuery struct {
	Kind     CategoryKind
	ParentID *uint
}

// EnsureAcyclic walks the ancestors of parentID and fails when id shows up
// among them. parentOf returns nil for a root category.
func EnsureAcyclic(id uint, parentID *uint, parentOf func(uint) (*uint, error)) error {
	if parentID == nil {
		return nil
	}
	seen := map[uint]struct{}{}
	cur := *parentID
	for {
		if id != 0 && cur == id {
			return ErrCategoryCycle
		}
		if _, ok := seen[cur]; ok {
			// the stored tree is already looping above the new parent
			return ErrCategoryCycle
		}
		seen[cur] = struct{}{}
		next, err := parentOf(cur)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		cur = *next
	}
}

func sortCategories(list []Category) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].DisplayOrder != list[j].DisplayOrder {
			return list[i].DisplayOrder < list[j].DisplayOrder
		}
		return list[i].Name < list[j].Name
	})
}

// BuildCategoryTree attaches active children to their parents and returns
// the categories selected by q, each carrying its subtree.
func BuildCategoryTree(all []Category, q CategoryListQuery) []Category {
	children := map[uint][]Category{}
	for _, c := range all {
		if c.ParentCategoryID != nil && c.IsActive {
			children[*c.ParentCategoryID] = append(children[*c.ParentCategoryID], c)
		}
	}
	var attach func(c Category, depth int) Category
	attach = func(c Category, depth int) Category {
		kids := children[c.ID]
		if len(kids) == 0 || depth > len(all) {
			c.Subcategories = []Category{}
			return c
		}
		out := make([]Category, 0, len(kids))
		for _, k := range kids {
			out = append(out, attach(k, depth+1))
		}
		sortCategories(out)
		c.Subcategories = out
		return c
	}

	res := []Category{}
	for _, c := range all {
		if !c.IsActive {
			continue
		}
		if q.Kind != "" && c.CategoryType != q.Kind {
			continue
		}
		if q.ParentID != nil {
			if c.ParentCategoryID == nil || *c.ParentCategoryID != *q.ParentID {
				continue
			}
		} else if q.Kind == "" && c.ParentCategoryID != nil {
			continue
		}
		res = append(res, attach(c, 0))
	}
	sortCategories(res)
	return res
}

type CategoryInput struct {
	Name             string
	CategoryType     CategoryKind
	Description      string
	Image            string
	ParentCategoryID *uint
	IsActive         bool
	DisplayOrder     int
}

func (in *CategoryInput) Validate() error {
	verr := &ValidationError{}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		verr.Add("name", "this field is required")
	} else if len([]rune(in.Name)) > 100 {
		verr.Add("name", "ensure this field has no more than 100 characters")
	}
	if !in.CategoryType.Valid() {
		verr.Add("category_type", fmt.Sprintf("%q is not a valid choice", in.CategoryType))
	}
	if in.DisplayOrder < 0 {
		verr.Add("display_order", "must be zero or greater")
	}
	return verr.Err()
}

func (in *CategoryInput) Apply(c *Category) {
	c.Name = in.Name
	c.CategoryType = in.CategoryType
	c.Description = in.Description
	c.Image = in.Image
	c.ParentCategoryID = in.ParentCategoryID
	c.IsActive = in.IsActive
	c.DisplayOrder = in.DisplayOrder
}
