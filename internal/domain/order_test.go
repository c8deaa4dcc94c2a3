package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotalsAtThreshold(t *testing.T) {
	items := []OrderItem{{Quantity: 2, UnitPrice: dec("250")}}
	got := DefaultPricing().Totals(items)
	assert.True(t, got.Subtotal.Equal(dec("500")), got.Subtotal.String())
	assert.True(t, got.ShippingCost.IsZero())
	assert.True(t, got.TaxAmount.Equal(dec("50.00")))
	assert.True(t, got.TotalAmount.Equal(dec("550.00")))
}

func TestTotalsBelowThreshold(t *testing.T) {
	items := []OrderItem{
		{Quantity: 1, UnitPrice: dec("199.99")},
		{Quantity: 3, UnitPrice: dec("10.05")},
	}
	got := DefaultPricing().Totals(items)
	assert.Equal(t, "230.14", got.Subtotal.StringFixed(2))
	assert.Equal(t, "50.00", got.ShippingCost.StringFixed(2))
	assert.Equal(t, "23.01", got.TaxAmount.StringFixed(2))
	assert.True(t, got.TotalAmount.Equal(got.Subtotal.Add(got.ShippingCost).Add(got.TaxAmount)))
}

func TestTotalsEmpty(t *testing.T) {
	got := DefaultPricing().Totals(nil)
	assert.True(t, got.Subtotal.IsZero())
	assert.Equal(t, "50.00", got.TotalAmount.StringFixed(2))
}

func TestOrderItemBeforeSave(t *testing.T) {
	it := &OrderItem{Quantity: 4, UnitPrice: dec("12.50"), TotalPrice: dec("1")}
	require.NoError(t, it.BeforeSave(nil))
	assert.Equal(t, "50.00", it.TotalPrice.StringFixed(2))

	it.Quantity = 1
	require.NoError(t, it.BeforeSave(nil))
	assert.Equal(t, "12.50", it.TotalPrice.StringFixed(2))
}

func TestMarkStatusStampsOnce(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	t1 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	o.MarkStatus(OrderStatusShipped, t1)
	o.MarkStatus(OrderStatusShipped, t1.Add(time.Hour))
	require.NotNil(t, o.ShippedAt)
	assert.Equal(t, t1, *o.ShippedAt)
	assert.Nil(t, o.DeliveredAt)

	o.MarkStatus(OrderStatusDelivered, t1.Add(2*time.Hour))
	require.NotNil(t, o.DeliveredAt)
	assert.Equal(t, OrderStatusDelivered, o.Status)
}

func TestOrderInputValidate(t *testing.T) {
	in := OrderInput{
		ShippingAddress: " 1 Moi Ave ", ShippingCity: "Nairobi", ShippingPostalCode: "00100",
		ShippingCountry: "Kenya", PhoneNumber: "0700000000",
		Items: []OrderLineInput{{BatteryID: uuid.NewString(), Quantity: 2}},
	}
	lines, err := in.Validate()
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, "1 Moi Ave", in.ShippingAddress)

	bad := OrderInput{Items: []OrderLineInput{{BatteryID: "nope", Quantity: 0}}}
	_, err = bad.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "shipping_city")
	assert.Contains(t, verr.Fields, "items[0].battery_id")
	assert.Contains(t, verr.Fields, "items[0].quantity")

	_, err = (&OrderInput{}).Validate()
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items")
}

func TestOrderTotalsCheckAmounts(t *testing.T) {
	line := func(price string, qty int) OrderItem {
		return OrderItem{UnitPrice: decimal.RequireFromString(price), Quantity: qty}
	}
	p := DefaultPricing()

	items := []OrderItem{line("250", 2)}
	assert.NoError(t, p.Totals(items).CheckAmounts(items))

	items = []OrderItem{line("10", 1), line("99999999.99", 2)}
	err := p.Totals(items).CheckAmounts(items)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items[1].quantity")
	assert.NotContains(t, verr.Fields, "items[0].quantity")

	items = []OrderItem{line("99999999.99", 1)}
	require.ErrorAs(t, p.Totals(items).CheckAmounts(items), &verr)
	assert.Contains(t, verr.Fields, "items")

	big := OrderInput{
		ShippingAddress: "1 Moi Ave", ShippingCity: "Nairobi", ShippingPostalCode: "00100",
		ShippingCountry: "Kenya", PhoneNumber: "0700000000",
		Items: []OrderLineInput{{BatteryID: uuid.NewString(), Quantity: MaxOrderQuantity + 1}},
	}
	_, err = big.Validate()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity must be at most 1000", verr.Fields["items[0].quantity"])
}
