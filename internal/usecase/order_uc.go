package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/exactmatch/internal/domain"
)

type OrderUC struct {
	Orders    domain.OrderRepo
	Batteries domain.BatteryRepo
	Pricing   domain.PricingPolicy
	Now       func() time.Time
}

func (uc *OrderUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// Create prices every line at the battery's current price and persists the
// order with its items in one transaction. Nothing is written when any
// battery is unknown or inactive.
func (uc *OrderUC) Create(ctx context.Context, actor domain.Actor, in domain.OrderInput) (*domain.Order, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	lines, err := in.Validate()
	if err != nil {
		return nil, err
	}
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		b, err := uc.Batteries.FindActiveByID(ctx, l.BatteryID)
		if err != nil {
			return nil, fmt.Errorf("battery %s: %w", l.BatteryID, err)
		}
		it := domain.OrderItem{BatteryID: b.ID, Battery: *b, Quantity: l.Quantity, UnitPrice: b.Price}
		it.TotalPrice = it.LineTotal()
		items = append(items, it)
	}

	o := &domain.Order{
		ID:                 uuid.New(),
		UserID:             actor.UserID,
		Status:             domain.OrderStatusPending,
		ShippingAddress:    in.ShippingAddress,
		ShippingCity:       in.ShippingCity,
		ShippingPostalCode: in.ShippingPostalCode,
		ShippingCountry:    in.ShippingCountry,
		PhoneNumber:        in.PhoneNumber,
		Items:              items,
	}
	totals := uc.Pricing.Totals(items)
	if err := totals.CheckAmounts(items); err != nil {
		return nil, err
	}
	o.ApplyTotals(totals)
	if err := uc.Orders.Create(ctx, o); err != nil {
		log.Error().Err(err).Uint("user_id", actor.UserID).Msg("create order")
		return nil, err
	}
	o.User = domain.User{ID: actor.UserID, Username: actor.Username}
	log.Info().Str("order_id", o.ID.String()).Uint("user_id", actor.UserID).Str("total", o.TotalAmount.StringFixed(2)).Msg("order created")
	return o, nil
}

func (uc *OrderUC) List(ctx context.Context, actor domain.Actor, page, pageSize int) (domain.Page[domain.Order], error) {
	if err := requireActor(actor); err != nil {
		return domain.Page[domain.Order]{}, err
	}
	page, pageSize = domain.ClampPaging(page, pageSize)
	list, total, err := uc.Orders.ListByUser(ctx, actor.UserID, page, pageSize)
	if err != nil {
		return domain.Page[domain.Order]{}, err
	}
	return domain.Page[domain.Order]{Items: list, Total: total, Page: page, PageSize: pageSize}, nil
}

// Get returns one of the actor's orders; other users' orders are not found.
func (uc *OrderUC) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Order, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return uc.Orders.FindForUser(ctx, id, actor.UserID)
}

func (uc *OrderUC) UpdateStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("%q is not a valid choice", status))
	}
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.MarkStatus(status, uc.now())
	if err := uc.Orders.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}
	log.Info().Str("order_id", o.ID.String()).Str("status", string(status)).Msg("order status changed")
	return o, nil
}
