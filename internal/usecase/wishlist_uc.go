package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/phenrril/exactmatch/internal/domain"
)

type WishlistUC struct {
	Wishlist  domain.WishlistRepo
	Batteries domain.BatteryRepo
}

// List returns the actor's entries whose battery is still on sale.
func (uc *WishlistUC) List(ctx context.Context, actor domain.Actor) ([]domain.Wishlist, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	all, err := uc.Wishlist.List(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Wishlist, 0, len(all))
	for _, w := range all {
		if w.Battery.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}

// Add is idempotent; created is false when the battery was already listed.
func (uc *WishlistUC) Add(ctx context.Context, actor domain.Actor, batteryID string) (created bool, err error) {
	if err := requireActor(actor); err != nil {
		return false, err
	}
	id, err := uuid.Parse(strings.TrimSpace(batteryID))
	if err != nil {
		return false, domain.ErrNotFound
	}
	if _, err := uc.Batteries.FindActiveByID(ctx, id); err != nil {
		return false, err
	}
	return uc.Wishlist.Add(ctx, actor.UserID, id)
}

func (uc *WishlistUC) Remove(ctx context.Context, actor domain.Actor, batteryID uuid.UUID) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return uc.Wishlist.Remove(ctx, actor.UserID, batteryID)
}
