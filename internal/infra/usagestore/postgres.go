// Package usagestore tracks how many times each promotion has been redeemed,
// globally and per customer. Two drivers exist: Postgres keeps the counters
// next to the catalog; Redis serves high-traffic flash promotions.
package usagestore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"promo-engine/internal/infra"
	"promo-engine/internal/usecase/shared"
)

// Postgres error codes worth retrying: serialization failure and deadlock.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

type PostgresStore struct {
	pool          *pgxpool.Pool
	maxRetries    int
	retryInterval time.Duration
}

func NewPostgresStore(pool *pgxpool.Pool, maxRetries int, retryInterval time.Duration) *PostgresStore {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &PostgresStore{pool: pool, maxRetries: maxRetries, retryInterval: retryInterval}
}

func (s *PostgresStore) CheckAvailable(ctx context.Context, check shared.UsageCheck) (bool, error) {
	const query = `
	SELECT
		COALESCE((SELECT used_count FROM promotion_usage WHERE promotion_id = $1), 0),
		COALESCE((SELECT used_count FROM promotion_customer_usage WHERE promotion_id = $1 AND customer_id = $2), 0)`

	var globalUsed, customerUsed int
	if err := s.pool.QueryRow(ctx, query, check.PromotionID, check.CustomerID).Scan(&globalUsed, &customerUsed); err != nil {
		return false, infra.WrapRepoErr("failed to read usage counters", err)
	}

	if check.Limit != nil && globalUsed >= *check.Limit {
		return false, nil
	}
	if check.LimitPerCustomer != nil && customerUsed >= *check.LimitPerCustomer {
		return false, nil
	}
	return true, nil
}

// Reserve consumes one global and one per-customer unit in a single
// transaction. The conditional upsert takes the row lock, so two concurrent
// reservations for the last unit serialize and exactly one wins.
func (s *PostgresStore) Reserve(ctx context.Context, check shared.UsageCheck) error {
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return infra.WrapRepoErr("reservation cancelled", ctx.Err())
			case <-time.After(s.retryInterval * time.Duration(attempt)):
			}
		}

		err := s.reserveOnce(ctx, check)
		if err == nil || !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return infra.WrapRepoErr("reservation kept conflicting", lastErr, infra.KindConflict)
}

func (s *PostgresStore) reserveOnce(ctx context.Context, check shared.UsageCheck) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin reservation transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const reserveGlobal = `
	INSERT INTO promotion_usage (promotion_id, used_count)
	VALUES ($1, 1)
	ON CONFLICT (promotion_id) DO UPDATE
		SET used_count = promotion_usage.used_count + 1
		WHERE $2::int IS NULL OR promotion_usage.used_count < $2
	RETURNING used_count`

	var usedCount int
	err = tx.QueryRow(ctx, reserveGlobal, check.PromotionID, check.Limit).Scan(&usedCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.WrapRepoErr("promotion usage limit reached", err, infra.KindLimitExceeded)
	}
	if err != nil {
		return wrapReserveErr(err)
	}

	const reserveCustomer = `
	INSERT INTO promotion_customer_usage (promotion_id, customer_id, used_count)
	VALUES ($1, $2, 1)
	ON CONFLICT (promotion_id, customer_id) DO UPDATE
		SET used_count = promotion_customer_usage.used_count + 1
		WHERE $3::int IS NULL OR promotion_customer_usage.used_count < $3
	RETURNING used_count`

	err = tx.QueryRow(ctx, reserveCustomer, check.PromotionID, check.CustomerID, check.LimitPerCustomer).Scan(&usedCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.WrapRepoErr("per-customer usage limit reached", err, infra.KindLimitExceeded)
	}
	if err != nil {
		return wrapReserveErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapReserveErr(err)
	}
	return nil
}

// Release gives one reservation back. The per-customer row gates the global
// decrement, so releasing something never reserved (or already released)
// changes nothing.
func (s *PostgresStore) Release(ctx context.Context, promotionID uuid.UUID, customerID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin release transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const releaseCustomer = `
	UPDATE promotion_customer_usage
	SET used_count = used_count - 1
	WHERE promotion_id = $1 AND customer_id = $2 AND used_count > 0`

	tag, err := tx.Exec(ctx, releaseCustomer, promotionID, customerID)
	if err != nil {
		return infra.WrapRepoErr("failed to release customer usage", err)
	}
	if tag.RowsAffected() == 0 {
		return tx.Commit(ctx)
	}

	const releaseGlobal = `
	UPDATE promotion_usage
	SET used_count = used_count - 1
	WHERE promotion_id = $1 AND used_count > 0`

	if _, err := tx.Exec(ctx, releaseGlobal, promotionID); err != nil {
		return infra.WrapRepoErr("failed to release global usage", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit release", err)
	}
	return nil
}

func wrapReserveErr(err error) error {
	if isRetryable(err) {
		return infra.WrapRepoErr("reservation conflicted", err, infra.KindConflict)
	}
	return infra.WrapRepoErr("failed to reserve usage", err)
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}
