package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/exactmatch/internal/domain"
)

const duplicateReview = "You have already reviewed this battery"

type ReviewUC struct {
	Reviews   domain.ReviewRepo
	Batteries domain.BatteryRepo
	Orders    domain.OrderRepo
}

// List returns the reviews of an active battery, newest first.
func (uc *ReviewUC) List(ctx context.Context, batteryID uuid.UUID) ([]domain.Review, error) {
	if _, err := uc.Batteries.FindActiveByID(ctx, batteryID); err != nil {
		return nil, err
	}
	return uc.Reviews.ListByBattery(ctx, batteryID)
}

func (uc *ReviewUC) Create(ctx context.Context, actor domain.Actor, in domain.ReviewInput) (*domain.Review, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	batteryID, err := in.Validate()
	if err != nil {
		return nil, err
	}
	if _, err := uc.Batteries.FindActiveByID(ctx, batteryID); err != nil {
		return nil, err
	}
	exists, err := uc.Reviews.Exists(ctx, batteryID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewValidationError("non_field_errors", duplicateReview)
	}
	verified, err := uc.Orders.HasPurchased(ctx, actor.UserID, batteryID)
	if err != nil {
		return nil, err
	}
	rv := &domain.Review{
		BatteryID:          batteryID,
		UserID:             actor.UserID,
		Rating:             in.Rating,
		Title:              strings.TrimSpace(in.Title),
		Comment:            strings.TrimSpace(in.Comment),
		IsVerifiedPurchase: verified,
	}
	if err := uc.Reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("non_field_errors", duplicateReview)
		}
		log.Error().Err(err).Str("battery_id", batteryID.String()).Uint("user_id", actor.UserID).Msg("create review")
		return nil, err
	}
	rv.User = domain.User{ID: actor.UserID, Username: actor.Username}
	return rv, nil
}
