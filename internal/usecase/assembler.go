package usecase

import (
	"time"

	"github.com/google/uuid"

	"promo-engine/internal/domain/promotion"
	"promo-engine/internal/pkg/errs"
	"promo-engine/internal/usecase/shared"
)

// assemblePromotion rebuilds the domain aggregate from its storage snapshot.
// Any failure here is a configuration error: the promotion was stored in a
// shape the engine refuses to evaluate.
func assemblePromotion(snap *shared.PromotionSnapshot) (*promotion.Promotion, error) {
	var code promotion.Code
	if snap.Code != nil {
		parsed, err := promotion.NewCode(*snap.Code)
		if err != nil {
			return nil, errs.Wrap(err, "promotion code")
		}
		code = parsed
	}

	rules := make([]promotion.Rule, 0, len(snap.Rules))
	for _, rs := range snap.Rules {
		rules = append(rules, promotion.Rule{
			Field:    promotion.Field(rs.Field),
			Operator: promotion.Operator(rs.Operator),
			Operand:  assembleOperand(rs),
		})
	}

	windows := make([]promotion.TimeWindow, 0, len(snap.Windows))
	for _, ws := range snap.Windows {
		days := make([]time.Weekday, 0, len(ws.Days))
		for _, d := range ws.Days {
			days = append(days, time.Weekday(d))
		}
		windows = append(windows, promotion.TimeWindow{
			Days:        days,
			StartMinute: ws.StartMinute,
			EndMinute:   ws.EndMinute,
		})
	}

	schedule, err := promotion.NewSchedule(snap.StartAt, snap.EndAt, snap.Timezone, windows, snap.ExcludeDates)
	if err != nil {
		return nil, errs.Wrap(err, "promotion schedule")
	}

	reward, err := promotion.NewReward(promotion.Type(snap.Type), promotion.RewardParams{
		PercentValue:   snap.PercentValue,
		FixedCents:     snap.FixedCents,
		MaxAmountCents: snap.MaxAmountCents,
		BuyQuantity:    snap.BuyQuantity,
		GetQuantity:    snap.GetQuantity,
		BundleSize:     snap.BundleSize,
		Secondary:      assembleSecondary(snap.Secondary),
		FreeShipping:   snap.FreeShipping,
		GiftWrap:       snap.GiftWrap,
	})
	if err != nil {
		return nil, errs.Wrap(err, "promotion reward")
	}

	tiers := make([]promotion.Tier, 0, len(snap.Tiers))
	for _, ts := range snap.Tiers {
		tiers = append(tiers, promotion.Tier{
			ThresholdCents: ts.ThresholdCents,
			Kind:           promotion.DiscountKind(ts.Kind),
			Value:          ts.Value,
		})
	}

	entity, err := promotion.New(promotion.Params{
		ID:          snap.ID,
		Name:        snap.Name,
		Description: snap.Description,
		Code:        code,
		Type:        promotion.Type(snap.Type),
		Target:      promotion.Target(snap.Target),
		Trigger:     promotion.Trigger(snap.Trigger),
		Rules:       rules,
		TargetFilter: promotion.TargetFilter{
			ProductIDs:        snap.TargetProductIDs,
			Categories:        snap.TargetCategories,
			Brands:            snap.TargetBrands,
			ExcludeProductIDs: snap.ExcludeProductIDs,
			MinPriceCents:     snap.MinPriceCents,
			MaxPriceCents:     snap.MaxPriceCents,
		},
		Segments: snap.Segments,
		Devices:  snap.Devices,
		Reward:   reward,
		Tiers:    tiers,
		Schedule: schedule,
		Usage: promotion.UsageLimits{
			Limit:            snap.UsageLimit,
			LimitPerCustomer: snap.UsageLimitPerCustomer,
			UsedCount:        snap.UsedCount,
		},
		Combination: promotion.CombinationPolicy{
			CanCombineWithOthers: snap.CanCombineWithOthers,
			ExcludePromotionIDs:  append([]uuid.UUID(nil), snap.ExcludePromotionIDs...),
			Priority:             snap.Priority,
		},
		IsActive:  snap.IsActive,
		IsDraft:   snap.IsDraft,
		CreatedAt: snap.CreatedAt,
	})
	if err != nil {
		return nil, errs.Wrap(err, "promotion definition")
	}
	return entity, nil
}

func assembleOperand(rs shared.RuleSnapshot) promotion.Operand {
	switch {
	case rs.RangeLow != nil && rs.RangeHigh != nil:
		return promotion.RangeOperand{Low: *rs.RangeLow, High: *rs.RangeHigh}
	case len(rs.ListValues) > 0:
		return promotion.ListOperand(rs.ListValues)
	case rs.NumberValue != nil:
		return promotion.NumberOperand(*rs.NumberValue)
	case rs.StringValue != nil:
		return promotion.StringOperand(*rs.StringValue)
	default:
		return nil
	}
}

func assembleSecondary(snap *shared.SecondarySnapshot) *promotion.SecondaryReward {
	if snap == nil {
		return nil
	}
	return &promotion.SecondaryReward{
		Kind:          promotion.SecondaryKind(snap.Kind),
		ValueCents:    snap.ValueCents,
		Points:        snap.Points,
		FreeProductID: snap.ProductID,
	}
}
