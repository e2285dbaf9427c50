package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"promo-engine/internal/infra"
	"promo-engine/internal/pkg/errs"
	"promo-engine/internal/usecase/shared"
)

// FailedReservation reports one promotion that could not be reserved during
// commit. The rest of the combination still applies.
type FailedReservation struct {
	PromotionID uuid.UUID
	Reason      string
}

type CommitResult struct {
	Reserved []uuid.UUID
	Failed   []FailedReservation
}

// CheckoutUseCase consumes and returns usage units at order boundaries.
// Evaluation never reserves; only an actually-placed order does.
type CheckoutUseCase interface {
	Commit(ctx context.Context, customerID string, promotionIDs []uuid.UUID) (*CommitResult, error)
	Release(ctx context.Context, customerID string, promotionIDs []uuid.UUID) error
}

type checkoutUseCaseImpl struct {
	promotions shared.PromotionStore
	usage      shared.UsageStore
}

func NewCheckoutUseCase(promotions shared.PromotionStore, usage shared.UsageStore) CheckoutUseCase {
	return &checkoutUseCaseImpl{
		promotions: promotions,
		usage:      usage,
	}
}

// Commit reserves one usage unit per applied promotion. A promotion whose
// limit ran out between evaluation and commit fails alone; a transient
// conflict aborts the whole commit after compensating the reservations that
// already succeeded, so the caller can retry the checkout step.
func (c *checkoutUseCaseImpl) Commit(ctx context.Context, customerID string, promotionIDs []uuid.UUID) (*CommitResult, error) {
	result := &CommitResult{}

	for _, promotionID := range promotionIDs {
		snap, err := c.promotions.FindByID(ctx, promotionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				result.Failed = append(result.Failed, FailedReservation{
					PromotionID: promotionID,
					Reason:      "promotion no longer exists",
				})
				continue
			}
			c.compensate(ctx, customerID, result.Reserved)
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}

		check := shared.UsageCheck{
			PromotionID:      snap.ID,
			CustomerID:       customerID,
			Limit:            snap.UsageLimit,
			LimitPerCustomer: snap.UsageLimitPerCustomer,
		}

		switch err := c.usage.Reserve(ctx, check); {
		case err == nil:
			result.Reserved = append(result.Reserved, promotionID)
		case infra.IsKind(err, infra.KindLimitExceeded):
			result.Failed = append(result.Failed, FailedReservation{
				PromotionID: promotionID,
				Reason:      "usage limit exceeded",
			})
		case infra.IsKind(err, infra.KindConflict):
			c.compensate(ctx, customerID, result.Reserved)
			return nil, ErrConcurrencyConflict
		default:
			c.compensate(ctx, customerID, result.Reserved)
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	return result, nil
}

// Release frees reservations for a cancelled order. Releasing something that
// was never reserved is a no-op, so cancellation may race delivery paths
// safely.
func (c *checkoutUseCaseImpl) Release(ctx context.Context, customerID string, promotionIDs []uuid.UUID) error {
	for _, promotionID := range promotionIDs {
		if err := c.usage.Release(ctx, promotionID, customerID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}
	return nil
}

func (c *checkoutUseCaseImpl) compensate(ctx context.Context, customerID string, reserved []uuid.UUID) {
	for _, promotionID := range reserved {
		if err := c.usage.Release(ctx, promotionID, customerID); err != nil {
			slog.Warn("failed to release reservation during commit compensation",
				"promotion_id", promotionID, "error", err.Error())
		}
	}
}
