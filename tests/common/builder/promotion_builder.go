//go:build unit || e2e

package builder

import (
	"time"

	dompromo "promo-engine/internal/domain/promotion"
	"promo-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type PromotionBuilder struct {
	ID          uuid.UUID
	Name        string
	Description string
	Code        string

	Type    dompromo.Type
	Target  dompromo.Target
	Trigger dompromo.Trigger

	Rules        []dompromo.Rule
	TargetFilter dompromo.TargetFilter
	Segments     []string
	Devices      []string

	PercentValue   int64
	FixedCents     int64
	MaxAmountCents *int64
	BuyQuantity    int
	GetQuantity    int
	BundleSize     int
	Secondary      *dompromo.SecondaryReward
	FreeShippingFlag bool
	GiftWrap       bool

	Tiers []dompromo.Tier

	StartAt      time.Time
	EndAt        time.Time
	Timezone     string
	Windows      []dompromo.TimeWindow
	ExcludeDates []string

	UsageLimit            *int
	UsageLimitPerCustomer *int
	UsedCount             int

	CanCombineWithOthers bool
	ExcludePromotionIDs  []uuid.UUID
	Priority             int

	IsActive  bool
	IsDraft   bool
	CreatedAt time.Time
}

func NewPromotionBuilder() *PromotionBuilder {
	return &PromotionBuilder{
		ID:                   uuid.New(),
		Name:                 "Ten Percent Off",
		Description:          "Ten percent off the whole cart",
		Type:                 dompromo.TypePercentage,
		Target:               dompromo.TargetAllProducts,
		Trigger:              dompromo.TriggerAutoApply,
		PercentValue:         10,
		StartAt:              time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndAt:                time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
		Timezone:             "UTC",
		CanCombineWithOthers: true,
		IsActive:             true,
		CreatedAt:            time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *PromotionBuilder) With(mutate func(*PromotionBuilder)) *PromotionBuilder {
	mutate(b)
	return b
}

func (b *PromotionBuilder) BuildDomain() (*dompromo.Promotion, error) {
	var code dompromo.Code
	if b.Code != "" {
		parsed, err := dompromo.NewCode(b.Code)
		if err != nil {
			return nil, err
		}
		code = parsed
	}

	schedule, err := dompromo.NewSchedule(b.StartAt, b.EndAt, b.Timezone, b.Windows, b.ExcludeDates)
	if err != nil {
		return nil, err
	}

	reward, err := dompromo.NewReward(b.Type, dompromo.RewardParams{
		PercentValue:   b.PercentValue,
		FixedCents:     b.FixedCents,
		MaxAmountCents: b.MaxAmountCents,
		BuyQuantity:    b.BuyQuantity,
		GetQuantity:    b.GetQuantity,
		BundleSize:     b.BundleSize,
		Secondary:      b.Secondary,
		FreeShipping:   b.FreeShippingFlag,
		GiftWrap:       b.GiftWrap,
	})
	if err != nil {
		return nil, err
	}

	return dompromo.New(dompromo.Params{
		ID:           b.ID,
		Name:         b.Name,
		Description:  b.Description,
		Code:         code,
		Type:         b.Type,
		Target:       b.Target,
		Trigger:      b.Trigger,
		Rules:        b.Rules,
		TargetFilter: b.TargetFilter,
		Segments:     b.Segments,
		Devices:      b.Devices,
		Reward:       reward,
		Tiers:        b.Tiers,
		Schedule:     schedule,
		Usage: dompromo.UsageLimits{
			Limit:            b.UsageLimit,
			LimitPerCustomer: b.UsageLimitPerCustomer,
			UsedCount:        b.UsedCount,
		},
		Combination: dompromo.CombinationPolicy{
			CanCombineWithOthers: b.CanCombineWithOthers,
			ExcludePromotionIDs:  b.ExcludePromotionIDs,
			Priority:             b.Priority,
		},
		IsActive:  b.IsActive,
		IsDraft:   b.IsDraft,
		CreatedAt: b.CreatedAt,
	})
}

func (b *PromotionBuilder) BuildSnapshot() *shared.PromotionSnapshot {
	var code *string
	if b.Code != "" {
		c := b.Code
		code = &c
	}

	rules := make([]shared.RuleSnapshot, 0, len(b.Rules))
	for _, rule := range b.Rules {
		rules = append(rules, ruleSnapshot(rule))
	}

	tiers := make([]shared.TierSnapshot, 0, len(b.Tiers))
	for _, tier := range b.Tiers {
		tiers = append(tiers, shared.TierSnapshot{
			ThresholdCents: tier.ThresholdCents,
			Kind:           string(tier.Kind),
			Value:          tier.Value,
		})
	}

	windows := make([]shared.WindowSnapshot, 0, len(b.Windows))
	for _, w := range b.Windows {
		days := make([]int, 0, len(w.Days))
		for _, d := range w.Days {
			days = append(days, int(d))
		}
		windows = append(windows, shared.WindowSnapshot{
			Days:        days,
			StartMinute: w.StartMinute,
			EndMinute:   w.EndMinute,
		})
	}

	var secondary *shared.SecondarySnapshot
	if b.Secondary != nil {
		secondary = &shared.SecondarySnapshot{
			Kind:       string(b.Secondary.Kind),
			ValueCents: b.Secondary.ValueCents,
			Points:     b.Secondary.Points,
			ProductID:  b.Secondary.FreeProductID,
		}
	}

	return &shared.PromotionSnapshot{
		ID:                    b.ID,
		Name:                  b.Name,
		Description:           b.Description,
		Code:                  code,
		Type:                  string(b.Type),
		Target:                string(b.Target),
		Trigger:               string(b.Trigger),
		Rules:                 rules,
		TargetProductIDs:      b.TargetFilter.ProductIDs,
		TargetCategories:      b.TargetFilter.Categories,
		TargetBrands:          b.TargetFilter.Brands,
		ExcludeProductIDs:     b.TargetFilter.ExcludeProductIDs,
		MinPriceCents:         b.TargetFilter.MinPriceCents,
		MaxPriceCents:         b.TargetFilter.MaxPriceCents,
		Segments:              b.Segments,
		Devices:               b.Devices,
		PercentValue:          b.PercentValue,
		FixedCents:            b.FixedCents,
		MaxAmountCents:        b.MaxAmountCents,
		BuyQuantity:           b.BuyQuantity,
		GetQuantity:           b.GetQuantity,
		BundleSize:            b.BundleSize,
		Secondary:             secondary,
		FreeShipping:          b.FreeShippingFlag,
		GiftWrap:              b.GiftWrap,
		Tiers:                 tiers,
		StartAt:               b.StartAt,
		EndAt:                 b.EndAt,
		Timezone:              b.Timezone,
		Windows:               windows,
		ExcludeDates:          b.ExcludeDates,
		UsageLimit:            b.UsageLimit,
		UsageLimitPerCustomer: b.UsageLimitPerCustomer,
		UsedCount:             b.UsedCount,
		CanCombineWithOthers:  b.CanCombineWithOthers,
		ExcludePromotionIDs:   b.ExcludePromotionIDs,
		Priority:              b.Priority,
		IsActive:              b.IsActive,
		IsDraft:               b.IsDraft,
		CreatedAt:             b.CreatedAt,
	}
}

func ruleSnapshot(rule dompromo.Rule) shared.RuleSnapshot {
	snap := shared.RuleSnapshot{
		Field:    string(rule.Field),
		Operator: string(rule.Operator),
	}
	switch operand := rule.Operand.(type) {
	case dompromo.NumberOperand:
		v := int64(operand)
		snap.NumberValue = &v
	case dompromo.StringOperand:
		v := string(operand)
		snap.StringValue = &v
	case dompromo.ListOperand:
		snap.ListValues = operand
	case dompromo.RangeOperand:
		low, high := operand.Low, operand.High
		snap.RangeLow = &low
		snap.RangeHigh = &high
	}
	return snap
}

// Fluent builder methods
func (b *PromotionBuilder) WithID(id uuid.UUID) *PromotionBuilder {
	b.ID = id
	return b
}

func (b *PromotionBuilder) WithName(name string) *PromotionBuilder {
	b.Name = name
	return b
}

func (b *PromotionBuilder) WithCode(code string) *PromotionBuilder {
	b.Code = code
	b.Trigger = dompromo.TriggerManualCode
	return b
}

func (b *PromotionBuilder) WithType(promoType dompromo.Type) *PromotionBuilder {
	b.Type = promoType
	return b
}

func (b *PromotionBuilder) WithTarget(target dompromo.Target) *PromotionBuilder {
	b.Target = target
	return b
}

func (b *PromotionBuilder) WithRules(rules ...dompromo.Rule) *PromotionBuilder {
	b.Rules = rules
	return b
}

func (b *PromotionBuilder) WithTiers(tiers ...dompromo.Tier) *PromotionBuilder {
	b.Type = dompromo.TypeTieredDiscount
	b.Tiers = tiers
	return b
}

func (b *PromotionBuilder) WithPercent(percent int64) *PromotionBuilder {
	b.PercentValue = percent
	return b
}

func (b *PromotionBuilder) WithMaxAmount(cents int64) *PromotionBuilder {
	b.MaxAmountCents = &cents
	return b
}

func (b *PromotionBuilder) WithSchedule(startAt, endAt time.Time, timezone string) *PromotionBuilder {
	b.StartAt = startAt
	b.EndAt = endAt
	b.Timezone = timezone
	return b
}

func (b *PromotionBuilder) WithWindows(windows ...dompromo.TimeWindow) *PromotionBuilder {
	b.Windows = windows
	return b
}

func (b *PromotionBuilder) WithUsageLimit(limit int) *PromotionBuilder {
	b.UsageLimit = &limit
	return b
}

func (b *PromotionBuilder) WithUsageLimitPerCustomer(limit int) *PromotionBuilder {
	b.UsageLimitPerCustomer = &limit
	return b
}

func (b *PromotionBuilder) AsExclusive() *PromotionBuilder {
	b.CanCombineWithOthers = false
	return b
}

func (b *PromotionBuilder) WithPriority(priority int) *PromotionBuilder {
	b.Priority = priority
	return b
}

func (b *PromotionBuilder) WithExcluded(ids ...uuid.UUID) *PromotionBuilder {
	b.ExcludePromotionIDs = ids
	return b
}

func (b *PromotionBuilder) AsDraft() *PromotionBuilder {
	b.IsDraft = true
	return b
}

func (b *PromotionBuilder) AsInactive() *PromotionBuilder {
	b.IsActive = false
	return b
}
