package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/phenrril/exactmatch/internal/domain"
)

// views maps entities to their wire shapes for one request; media paths are
// made absolute against base.
type views struct {
	base string
}

func (s *Server) viewsFor(r *http.Request) views {
	if s.mediaBase != "" {
		return views{base: s.mediaBase}
	}
	return views{base: canonicalBase(r) + "/media"}
}

func (v views) media(p string) *string {
	if p == "" {
		return nil
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return &p
	}
	u := v.base + "/" + strings.TrimLeft(p, "/")
	return &u
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func optionalMoney(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := money(d.Decimal)
	return &s
}

type brandView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Logo        *string `json:"logo"`
	Description string  `json:"description"`
	Website     string  `json:"website"`
	Country     string  `json:"country"`
	IsPopular   bool    `json:"is_popular"`
}

type brandListView struct {
	brandView
	BatteryCount int64 `json:"battery_count"`
}

func (v views) brand(b *domain.Brand) brandView {
	return brandView{
		ID:          b.ID,
		Name:        b.Name,
		Logo:        v.media(b.Logo),
		Description: b.Description,
		Website:     b.Website,
		Country:     b.Country,
		IsPopular:   b.IsPopular,
	}
}

func (v views) brandWithCount(b *domain.Brand) brandListView {
	return brandListView{brandView: v.brand(b), BatteryCount: b.BatteryCount}
}

type categoryView struct {
	ID             uint                `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	CategoryType   domain.CategoryKind `json:"category_type"`
	ParentCategory *uint               `json:"parent_category"`
	Image          *string             `json:"image"`
	IsActive       bool                `json:"is_active"`
	DisplayOrder   int                 `json:"display_order"`
}

type categoryTreeView struct {
	categoryView
	BatteryCount  int64              `json:"battery_count"`
	Subcategories []categoryTreeView `json:"subcategories"`
}

func (v views) category(c *domain.Category) categoryView {
	return categoryView{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		CategoryType:   c.CategoryType,
		ParentCategory: c.ParentCategoryID,
		Image:          v.media(c.Image),
		IsActive:       c.IsActive,
		DisplayOrder:   c.DisplayOrder,
	}
}

func (v views) categoryTree(c *domain.Category) categoryTreeView {
	out := categoryTreeView{
		categoryView:  v.category(c),
		BatteryCount:  c.BatteryCount,
		Subcategories: make([]categoryTreeView, 0, len(c.Subcategories)),
	}
	for i := range c.Subcategories {
		out.Subcategories = append(out.Subcategories, v.categoryTree(&c.Subcategories[i]))
	}
	return out
}

type imageView struct {
	ID        uuid.UUID `json:"id"`
	Image     *string   `json:"image"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
	Order     int       `json:"order"`
}

func (v views) image(img *domain.BatteryImage) imageView {
	return imageView{ID: img.ID, Image: v.media(img.Image), AltText: img.AltText, IsPrimary: img.IsPrimary, Order: img.Order}
}

type reviewView struct {
	ID                 uint      `json:"id"`
	UserName           string    `json:"user_name"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title"`
	Comment            string    `json:"comment"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	CreatedAt          time.Time `json:"created_at"`
}

func toReviewView(r *domain.Review) reviewView {
	return reviewView{
		ID:                 r.ID,
		UserName:           r.User.Username,
		Rating:             r.Rating,
		Title:              r.Title,
		Comment:            r.Comment,
		IsVerifiedPurchase: r.IsVerifiedPurchase,
		CreatedAt:          r.CreatedAt,
	}
}

type batteryListView struct {
	ID                 uuid.UUID      `json:"id"`
	Name               string         `json:"name"`
	Brand              brandView      `json:"brand"`
	Categories         []categoryView `json:"categories"`
	ModelNumber        string         `json:"model_number"`
	Voltage            domain.Voltage `json:"voltage"`
	AmpHours           int            `json:"amp_hours"`
	ColdCrankingAmps   int            `json:"cold_cranking_amps"`
	Condition          string         `json:"condition"`
	Price              string         `json:"price"`
	OriginalPrice      *string        `json:"original_price"`
	ShortDescription   string         `json:"short_description"`
	IsFeatured         bool           `json:"is_featured"`
	IsPopular          bool           `json:"is_popular"`
	IsInStock          bool           `json:"is_in_stock"`
	StockQuantity      int            `json:"stock_quantity"`
	DiscountPercentage int            `json:"discount_percentage"`
	Slug               string         `json:"slug"`
	PrimaryImage       *string        `json:"primary_image"`
	AverageRating      float64        `json:"average_rating"`
	ReviewCount        int            `json:"review_count"`
	CreatedAt          time.Time      `json:"created_at"`
}

func (v views) batteryList(b *domain.Battery) batteryListView {
	out := batteryListView{
		ID:                 b.ID,
		Name:               b.Name,
		Brand:              v.brand(&b.Brand),
		Categories:         make([]categoryView, 0, len(b.Categories)),
		ModelNumber:        b.ModelNumber,
		Voltage:            b.Voltage,
		AmpHours:           b.AmpHours,
		ColdCrankingAmps:   b.ColdCrankingAmps,
		Condition:          string(b.Condition),
		Price:              money(b.Price),
		OriginalPrice:      optionalMoney(b.OriginalPrice),
		ShortDescription:   b.ShortDescription,
		IsFeatured:         b.IsFeatured,
		IsPopular:          b.IsPopular,
		IsInStock:          b.InStock(),
		StockQuantity:      b.StockQuantity,
		DiscountPercentage: b.DiscountPercentage(),
		Slug:               b.Slug,
		AverageRating:      domain.AverageRating(b.Reviews),
		ReviewCount:        len(b.Reviews),
		CreatedAt:          b.CreatedAt,
	}
	for i := range b.Categories {
		out.Categories = append(out.Categories, v.category(&b.Categories[i]))
	}
	if img := b.PrimaryImage(); img != nil {
		out.PrimaryImage = v.media(img.Image)
	}
	return out
}

type batteryDetailView struct {
	batteryListView
	ReserveCapacity    int          `json:"reserve_capacity"`
	Length             string       `json:"length"`
	Width              string       `json:"width"`
	Height             string       `json:"height"`
	Weight             string       `json:"weight"`
	Description        string       `json:"description"`
	Features           []string     `json:"features"`
	Compatibility      []string     `json:"compatibility"`
	CompatibleVehicles []string     `json:"compatible_vehicles"`
	VehicleMakes       []string     `json:"vehicle_makes"`
	VehicleModels      []string     `json:"vehicle_models"`
	SellerName         string       `json:"seller_name"`
	Images             []imageView  `json:"images"`
	Reviews            []reviewView `json:"reviews"`
	IsActive           bool         `json:"is_active"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (v views) batteryDetail(b *domain.Battery) batteryDetailView {
	out := batteryDetailView{
		batteryListView:    v.batteryList(b),
		ReserveCapacity:    b.ReserveCapacity,
		Length:             money(b.Length),
		Width:              money(b.Width),
		Height:             money(b.Height),
		Weight:             money(b.Weight),
		Description:        b.Description,
		Features:           orEmpty(b.Features),
		Compatibility:      orEmpty(b.Compatibility),
		CompatibleVehicles: orEmpty(b.CompatibleVehicles),
		VehicleMakes:       orEmpty(b.VehicleMakes),
		VehicleModels:      orEmpty(b.VehicleModels),
		SellerName:         b.Seller.Username,
		Images:             make([]imageView, 0, len(b.Images)),
		Reviews:            make([]reviewView, 0, len(b.Reviews)),
		IsActive:           b.IsActive,
		UpdatedAt:          b.UpdatedAt,
	}
	for i := range b.Images {
		out.Images = append(out.Images, v.image(&b.Images[i]))
	}
	for i := range b.Reviews {
		out.Reviews = append(out.Reviews, toReviewView(&b.Reviews[i]))
	}
	return out
}

type specificationsView struct {
	Technical struct {
		Voltage          domain.Voltage `json:"voltage"`
		AmpHours         int            `json:"amp_hours"`
		ColdCrankingAmps int            `json:"cold_cranking_amps"`
		ReserveCapacity  int            `json:"reserve_capacity"`
	} `json:"technical"`
	Physical struct {
		Length float64 `json:"length"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Weight float64 `json:"weight"`
	} `json:"physical"`
	Features      []string `json:"features"`
	Compatibility []string `json:"compatibility"`
}

func toSpecificationsView(b *domain.Battery) specificationsView {
	var out specificationsView
	out.Technical.Voltage = b.Voltage
	out.Technical.AmpHours = b.AmpHours
	out.Technical.ColdCrankingAmps = b.ColdCrankingAmps
	out.Technical.ReserveCapacity = b.ReserveCapacity
	out.Physical.Length = b.Length.InexactFloat64()
	out.Physical.Width = b.Width.InexactFloat64()
	out.Physical.Height = b.Height.InexactFloat64()
	out.Physical.Weight = b.Weight.InexactFloat64()
	out.Features = orEmpty(b.Features)
	out.Compatibility = orEmpty(b.Compatibility)
	return out
}

type orderItemView struct {
	ID           uint      `json:"id"`
	Battery      uuid.UUID `json:"battery"`
	BatteryName  string    `json:"battery_name"`
	BatteryImage *string   `json:"battery_image"`
	Quantity     int       `json:"quantity"`
	UnitPrice    string    `json:"unit_price"`
	TotalPrice   string    `json:"total_price"`
}

type orderView struct {
	ID                 uuid.UUID          `json:"id"`
	UserName           string             `json:"user_name"`
	Status             domain.OrderStatus `json:"status"`
	Subtotal           string             `json:"subtotal"`
	ShippingCost       string             `json:"shipping_cost"`
	TaxAmount          string             `json:"tax_amount"`
	TotalAmount        string             `json:"total_amount"`
	ShippingAddress    string             `json:"shipping_address"`
	ShippingCity       string             `json:"shipping_city"`
	ShippingPostalCode string             `json:"shipping_postal_code"`
	ShippingCountry    string             `json:"shipping_country"`
	PhoneNumber        string             `json:"phone_number"`
	Items              []orderItemView    `json:"items"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	ShippedAt          *time.Time         `json:"shipped_at"`
	DeliveredAt        *time.Time         `json:"delivered_at"`
}

func (v views) order(o *domain.Order) orderView {
	out := orderView{
		ID:                 o.ID,
		UserName:           o.User.Username,
		Status:             o.Status,
		Subtotal:           money(o.Subtotal),
		ShippingCost:       money(o.ShippingCost),
		TaxAmount:          money(o.TaxAmount),
		TotalAmount:        money(o.TotalAmount),
		ShippingAddress:    o.ShippingAddress,
		ShippingCity:       o.ShippingCity,
		ShippingPostalCode: o.ShippingPostalCode,
		ShippingCountry:    o.ShippingCountry,
		PhoneNumber:        o.PhoneNumber,
		Items:              make([]orderItemView, 0, len(o.Items)),
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		ShippedAt:          o.ShippedAt,
		DeliveredAt:        o.DeliveredAt,
	}
	for i := range o.Items {
		it := &o.Items[i]
		iv := orderItemView{
			ID:          it.ID,
			Battery:     it.BatteryID,
			BatteryName: it.Battery.Name,
			Quantity:    it.Quantity,
			UnitPrice:   money(it.UnitPrice),
			TotalPrice:  money(it.LineTotal()),
		}
		if img := it.Battery.PrimaryImage(); img != nil {
			iv.BatteryImage = v.media(img.Image)
		}
		out.Items = append(out.Items, iv)
	}
	return out
}

type wishlistView struct {
	ID        uint            `json:"id"`
	Battery   batteryListView `json:"battery"`
	CreatedAt time.Time       `json:"created_at"`
}

type userView struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined"`
}

func toUserView(u *domain.User) userView {
	return userView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsStaff:    u.IsStaff,
		DateJoined: u.DateJoined,
	}
}

type sessionView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userView  `json:"user"`
}

func toSessionView(s domain.Session) sessionView {
	return sessionView{Token: s.Token, ExpiresAt: s.ExpiresAt, User: toUserView(s.User)}
}
