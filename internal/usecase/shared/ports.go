package shared

import (
	"context"

	"github.com/google/uuid"
)

// PromotionStore is the read side of the promotion catalog. The admin CRUD
// surface owns writes; the engine only ever reads snapshots.
type PromotionStore interface {
	ListActive(ctx context.Context) ([]*PromotionSnapshot, error)
	FindByCode(ctx context.Context, code string) (*PromotionSnapshot, error)
	FindByID(ctx context.Context, id uuid.UUID) (*PromotionSnapshot, error)
}

// UsageCheck identifies one promotion/customer pair together with the limits
// configured on the promotion, so counter stores stay limit-agnostic.
type UsageCheck struct {
	PromotionID      uuid.UUID
	CustomerID       string
	Limit            *int
	LimitPerCustomer *int
}

// UsageStore is the only mutable collaborator of the engine.
//
// CheckAvailable is a pure read and never blocks. Reserve atomically consumes
// one unit of both the global and the per-customer counter, or fails without
// touching either. Release is the compensating action and must be idempotent:
// releasing a reservation that was never made is a no-op.
type UsageStore interface {
	CheckAvailable(ctx context.Context, check UsageCheck) (bool, error)
	Reserve(ctx context.Context, check UsageCheck) error
	Release(ctx context.Context, promotionID uuid.UUID, customerID string) error
}
