package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

type Order struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID             uint            `gorm:"not null;index"`
	User               User            `gorm:"constraint:OnDelete:CASCADE"`
	Status             OrderStatus     `gorm:"type:varchar(20);not null;index"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ShippingCost       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TaxAmount          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ShippingAddress    string          `gorm:"type:text;not null"`
	ShippingCity       string          `gorm:"size:100;not null"`
	ShippingPostalCode string          `gorm:"size:20;not null"`
	ShippingCountry    string          `gorm:"size:100;not null"`
	PhoneNumber        string          `gorm:"size:20;not null"`
	Items              []OrderItem     `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time       `gorm:"index"`
	UpdatedAt          time.Time
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
}

type OrderItem struct {
	ID         uint            `gorm:"primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatteryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Battery    Battery         `gorm:"constraint:OnDelete:RESTRICT"`
	Quantity   int             `gorm:"not null;default:1"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// LineTotal is quantity × unit price.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// BeforeSave keeps TotalPrice derived from the row on every write.
func (i *OrderItem) BeforeSave(tx *gorm.DB) error {
	i.TotalPrice = i.LineTotal()
	return nil
}

// MarkStatus applies status and stamps the shipping timestamps.
func (o *Order) MarkStatus(s OrderStatus, now time.Time) {
	o.Status = s
	switch s {
	case OrderStatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case OrderStatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	}
}

// PricingPolicy holds the shipping and tax constants applied at order time.
type PricingPolicy struct {
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	TaxRate               decimal.Decimal
}

func DefaultPricing() PricingPolicy {
	return PricingPolicy{
		ShippingFee:           decimal.NewFromInt(50),
		FreeShippingThreshold: decimal.NewFromInt(500),
		TaxRate:               decimal.NewFromFloat(0.10),
	}
}

type OrderTotals struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	TaxAmount    decimal.Decimal
	TotalAmount  decimal.Decimal
}

// Totals sums the line totals and derives shipping, tax and the grand total.
func (p PricingPolicy) Totals(items []OrderItem) OrderTotals {
	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].LineTotal())
	}
	shipping := decimal.Zero
	if subtotal.LessThan(p.FreeShippingThreshold) {
		shipping = p.ShippingFee
	}
	tax := subtotal.Mul(p.TaxRate).Round(2)
	return OrderTotals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		TaxAmount:    tax,
		TotalAmount:  subtotal.Add(shipping).Add(tax),
	}
}

// MaxOrderQuantity bounds a single order line.
const MaxOrderQuantity = 1000

// maxAmount is the largest value a decimal(10,2) money column holds.
var maxAmount = decimal.RequireFromString("99999999.99")

// CheckAmounts reports lines whose total, or an order whose total, would not
// fit the money columns. Oversized lines are reported against their quantity.
func (t OrderTotals) CheckAmounts(items []OrderItem) error {
	verr := &ValidationError{}
	for i := range items {
		if items[i].LineTotal().GreaterThan(maxAmount) {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "line total exceeds the maximum order amount")
		}
	}
	if verr.Err() == nil && t.TotalAmount.GreaterThan(maxAmount) {
		verr.Add("items", "order total exceeds the maximum order amount")
	}
	return verr.Err()
}

func (o *Order) ApplyTotals(t OrderTotals) {
	o.Subtotal = t.Subtotal
	o.ShippingCost = t.ShippingCost
	o.TaxAmount = t.TaxAmount
	o.TotalAmount = t.TotalAmount
}

type OrderLineInput struct {
	BatteryID string
	Quantity  int
}

type OrderInput struct {
	ShippingAddress    string
	ShippingCity       string
	ShippingPostalCode string
	ShippingCountry    string
	PhoneNumber        string
	Items              []OrderLineInput
}

// OrderLine is a validated request line.
type OrderLine struct {
	BatteryID uuid.UUID
	Quantity  int
}

// Validate trims the shipping fields in place and parses the lines.
func (in *OrderInput) Validate() ([]OrderLine, error) {
	verr := &ValidationError{}
	required := []struct {
		name string
		val  *string
		max  int
	}{
		{"shipping_address", &in.ShippingAddress, 0},
		{"shipping_city", &in.ShippingCity, 100},
		{"shipping_postal_code", &in.ShippingPostalCode, 20},
		{"shipping_country", &in.ShippingCountry, 100},
		{"phone_number", &in.PhoneNumber, 20},
	}
	for _, f := range required {
		*f.val = strings.TrimSpace(*f.val)
		if *f.val == "" {
			verr.Add(f.name, "this field is required")
			continue
		}
		if f.max > 0 && len([]rune(*f.val)) > f.max {
			verr.Add(f.name, fmt.Sprintf("ensure this field has no more than %d characters", f.max))
		}
	}
	if len(in.Items) == 0 {
		verr.Add("items", "at least one item is required")
	}
	lines := make([]OrderLine, 0, len(in.Items))
	for i, it := range in.Items {
		id, err := uuid.Parse(strings.TrimSpace(it.BatteryID))
		if err != nil {
			verr.Add(fmt.Sprintf("items[%d].battery_id", i), "a valid battery id is required")
		}
		if it.Quantity < 1 {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "quantity must be at least 1")
		} else if it.Quantity > MaxOrderQuantity {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("quantity must be at most %d", MaxOrderQuantity))
		}
		lines = append(lines, OrderLine{BatteryID: id, Quantity: it.Quantity})
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
