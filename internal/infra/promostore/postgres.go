// Package promostore reads promotion definitions out of Postgres. The catalog
// is owned by the admin CRUD service; this side only ever selects.
package promostore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"promo-engine/internal/infra"
	"promo-engine/internal/usecase/shared"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Structured parts of a promotion are stored as jsonb; these mirror the
// document shapes the admin service writes.
type ruleDoc struct {
	Field       string   `json:"field"`
	Operator    string   `json:"operator"`
	NumberValue *int64   `json:"number_value,omitempty"`
	StringValue *string  `json:"string_value,omitempty"`
	ListValues  []string `json:"list_values,omitempty"`
	RangeLow    *int64   `json:"range_low,omitempty"`
	RangeHigh   *int64   `json:"range_high,omitempty"`
}

type tierDoc struct {
	ThresholdCents int64  `json:"threshold_cents"`
	Kind           string `json:"kind"`
	Value          int64  `json:"value"`
}

type windowDoc struct {
	Days        []int `json:"days"`
	StartMinute int   `json:"start_minute"`
	EndMinute   int   `json:"end_minute"`
}

type secondaryDoc struct {
	Kind       string `json:"kind"`
	ValueCents int64  `json:"value_cents"`
	Points     int    `json:"points"`
	ProductID  string `json:"product_id"`
}

const promotionColumns = `
	p.id, p.name, p.description, p.code,
	p.promo_type, p.target, p.trigger,
	p.rules, p.tiers, p.time_windows, p.secondary_reward,
	p.target_product_ids, p.target_categories, p.target_brands, p.exclude_product_ids,
	p.min_price_cents, p.max_price_cents, p.segments, p.devices,
	p.percent_value, p.fixed_cents, p.max_amount_cents,
	p.buy_quantity, p.get_quantity, p.bundle_size,
	p.free_shipping, p.gift_wrap,
	p.start_at, p.end_at, p.timezone, p.exclude_dates,
	p.usage_limit, p.usage_limit_per_customer, COALESCE(u.used_count, 0),
	p.can_combine_with_others, p.exclude_promotion_ids, p.priority,
	p.is_active, p.is_draft, p.created_at`

const fromPromotions = `
	FROM promotions p
	LEFT JOIN promotion_usage u ON u.promotion_id = p.id`

func (s *PostgresStore) ListActive(ctx context.Context) ([]*shared.PromotionSnapshot, error) {
	query := `SELECT` + promotionColumns + fromPromotions + `
	WHERE p.is_active = true AND p.is_draft = false
	ORDER BY p.created_at, p.id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active promotions", err)
	}
	defer rows.Close()

	var snapshots []*shared.PromotionSnapshot
	for rows.Next() {
		snap, err := scanPromotion(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan promotion row", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate promotion rows", err)
	}
	return snapshots, nil
}

func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*shared.PromotionSnapshot, error) {
	query := `SELECT` + promotionColumns + fromPromotions + `
	WHERE p.code = $1`

	rows, err := s.pool.Query(ctx, query, code)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find promotion by code", err)
	}
	defer rows.Close()

	return scanOne(rows, "promotion code not found")
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.PromotionSnapshot, error) {
	query := `SELECT` + promotionColumns + fromPromotions + `
	WHERE p.id = $1`

	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find promotion by id", err)
	}
	defer rows.Close()

	return scanOne(rows, "promotion not found")
}

func scanOne(rows pgx.Rows, notFoundMsg string) (*shared.PromotionSnapshot, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, infra.WrapRepoErr("failed to read promotion row", err)
		}
		return nil, infra.WrapRepoErr(notFoundMsg, pgx.ErrNoRows, infra.KindNotFound)
	}
	snap, err := scanPromotion(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan promotion row", err)
	}
	return snap, nil
}

func scanPromotion(row pgx.Row) (*shared.PromotionSnapshot, error) {
	var (
		snap          shared.PromotionSnapshot
		rulesJSON     []byte
		tiersJSON     []byte
		windowsJSON   []byte
		secondaryJSON []byte
		excludeIDs    []string
	)

	err := row.Scan(
		&snap.ID, &snap.Name, &snap.Description, &snap.Code,
		&snap.Type, &snap.Target, &snap.Trigger,
		&rulesJSON, &tiersJSON, &windowsJSON, &secondaryJSON,
		&snap.TargetProductIDs, &snap.TargetCategories, &snap.TargetBrands, &snap.ExcludeProductIDs,
		&snap.MinPriceCents, &snap.MaxPriceCents, &snap.Segments, &snap.Devices,
		&snap.PercentValue, &snap.FixedCents, &snap.MaxAmountCents,
		&snap.BuyQuantity, &snap.GetQuantity, &snap.BundleSize,
		&snap.FreeShipping, &snap.GiftWrap,
		&snap.StartAt, &snap.EndAt, &snap.Timezone, &snap.ExcludeDates,
		&snap.UsageLimit, &snap.UsageLimitPerCustomer, &snap.UsedCount,
		&snap.CanCombineWithOthers, &excludeIDs, &snap.Priority,
		&snap.IsActive, &snap.IsDraft, &snap.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeDocs(&snap, rulesJSON, tiersJSON, windowsJSON, secondaryJSON); err != nil {
		return nil, err
	}

	snap.ExcludePromotionIDs = make([]uuid.UUID, 0, len(excludeIDs))
	for _, raw := range excludeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New("malformed excluded promotion id: " + raw)
		}
		snap.ExcludePromotionIDs = append(snap.ExcludePromotionIDs, id)
	}

	return &snap, nil
}

func decodeDocs(snap *shared.PromotionSnapshot, rulesJSON, tiersJSON, windowsJSON, secondaryJSON []byte) error {
	if len(rulesJSON) > 0 {
		var docs []ruleDoc
		if err := json.Unmarshal(rulesJSON, &docs); err != nil {
			return err
		}
		snap.Rules = make([]shared.RuleSnapshot, 0, len(docs))
		for _, d := range docs {
			snap.Rules = append(snap.Rules, shared.RuleSnapshot(d))
		}
	}

	if len(tiersJSON) > 0 {
		var docs []tierDoc
		if err := json.Unmarshal(tiersJSON, &docs); err != nil {
			return err
		}
		snap.Tiers = make([]shared.TierSnapshot, 0, len(docs))
		for _, d := range docs {
			snap.Tiers = append(snap.Tiers, shared.TierSnapshot(d))
		}
	}

	if len(windowsJSON) > 0 {
		var docs []windowDoc
		if err := json.Unmarshal(windowsJSON, &docs); err != nil {
			return err
		}
		snap.Windows = make([]shared.WindowSnapshot, 0, len(docs))
		for _, d := range docs {
			snap.Windows = append(snap.Windows, shared.WindowSnapshot(d))
		}
	}

	if len(secondaryJSON) > 0 {
		var doc secondaryDoc
		if err := json.Unmarshal(secondaryJSON, &doc); err != nil {
			return err
		}
		converted := shared.SecondarySnapshot(doc)
		snap.Secondary = &converted
	}

	return nil
}
