//go:build unit || e2e

package dbtest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"promo-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// InsertPromotion writes a catalog row the way the admin service would,
// including the jsonb sub-documents.
func InsertPromotion(t *testing.T, db DBLike, snap *shared.PromotionSnapshot) {
	t.Helper()

	rulesJSON := marshalJSON(t, rulesDocs(snap.Rules))
	tiersJSON := marshalJSON(t, tiersDocs(snap.Tiers))
	windowsJSON := marshalJSON(t, windowDocs(snap.Windows))

	var secondaryJSON []byte
	if snap.Secondary != nil {
		secondaryJSON = marshalJSON(t, map[string]any{
			"kind":        snap.Secondary.Kind,
			"value_cents": snap.Secondary.ValueCents,
			"points":      snap.Secondary.Points,
			"product_id":  snap.Secondary.ProductID,
		})
	}

	excludeIDs := make([]string, 0, len(snap.ExcludePromotionIDs))
	for _, id := range snap.ExcludePromotionIDs {
		excludeIDs = append(excludeIDs, id.String())
	}

	const query = `
	INSERT INTO promotions (
		id, name, description, code,
		promo_type, target, trigger,
		rules, tiers, time_windows, secondary_reward,
		target_product_ids, target_categories, target_brands, exclude_product_ids,
		min_price_cents, max_price_cents, segments, devices,
		percent_value, fixed_cents, max_amount_cents,
		buy_quantity, get_quantity, bundle_size,
		free_shipping, gift_wrap,
		start_at, end_at, timezone, exclude_dates,
		usage_limit, usage_limit_per_customer,
		can_combine_with_others, exclude_promotion_ids, priority,
		is_active, is_draft, created_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7,
		$8, $9, $10, $11,
		$12, $13, $14, $15,
		$16, $17, $18, $19,
		$20, $21, $22,
		$23, $24, $25,
		$26, $27,
		$28, $29, $30, $31,
		$32, $33,
		$34, $35, $36,
		$37, $38, $39
	)`

	_, err := db.Exec(context.Background(), query,
		snap.ID, snap.Name, snap.Description, snap.Code,
		snap.Type, snap.Target, snap.Trigger,
		rulesJSON, tiersJSON, windowsJSON, secondaryJSON,
		textArray(snap.TargetProductIDs), textArray(snap.TargetCategories), textArray(snap.TargetBrands), textArray(snap.ExcludeProductIDs),
		snap.MinPriceCents, snap.MaxPriceCents, textArray(snap.Segments), textArray(snap.Devices),
		snap.PercentValue, snap.FixedCents, snap.MaxAmountCents,
		snap.BuyQuantity, snap.GetQuantity, snap.BundleSize,
		snap.FreeShipping, snap.GiftWrap,
		snap.StartAt, snap.EndAt, snap.Timezone, textArray(snap.ExcludeDates),
		snap.UsageLimit, snap.UsageLimitPerCustomer,
		snap.CanCombineWithOthers, excludeIDs, snap.Priority,
		snap.IsActive, snap.IsDraft, snap.CreatedAt,
	)
	require.NoError(t, err)
}

// SetUsedCount seeds the global counter as if the promotion had already been
// redeemed that many times.
func SetUsedCount(t *testing.T, db DBLike, promotionID uuid.UUID, usedCount int) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
	INSERT INTO promotion_usage (promotion_id, used_count) VALUES ($1, $2)
	ON CONFLICT (promotion_id) DO UPDATE SET used_count = $2`,
		promotionID, usedCount)
	require.NoError(t, err)
}

func marshalJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func rulesDocs(rules []shared.RuleSnapshot) []map[string]any {
	docs := make([]map[string]any, 0, len(rules))
	for _, r := range rules {
		doc := map[string]any{
			"field":    r.Field,
			"operator": r.Operator,
		}
		if r.NumberValue != nil {
			doc["number_value"] = *r.NumberValue
		}
		if r.StringValue != nil {
			doc["string_value"] = *r.StringValue
		}
		if len(r.ListValues) > 0 {
			doc["list_values"] = r.ListValues
		}
		if r.RangeLow != nil {
			doc["range_low"] = *r.RangeLow
		}
		if r.RangeHigh != nil {
			doc["range_high"] = *r.RangeHigh
		}
		docs = append(docs, doc)
	}
	return docs
}

func tiersDocs(tiers []shared.TierSnapshot) []map[string]any {
	docs := make([]map[string]any, 0, len(tiers))
	for _, tier := range tiers {
		docs = append(docs, map[string]any{
			"threshold_cents": tier.ThresholdCents,
			"kind":            tier.Kind,
			"value":           tier.Value,
		})
	}
	return docs
}

func windowDocs(windows []shared.WindowSnapshot) []map[string]any {
	docs := make([]map[string]any, 0, len(windows))
	for _, w := range windows {
		docs = append(docs, map[string]any{
			"days":         w.Days,
			"start_minute": w.StartMinute,
			"end_minute":   w.EndMinute,
		})
	}
	return docs
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
