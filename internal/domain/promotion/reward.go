package promotion

import (
	"sort"

	"promo-engine/internal/domain/cart"
)

// RewardResult is the computed benefit of one eligible promotion. All money
// is integer minor units; display conversion is the caller's problem.
type RewardResult struct {
	DiscountCents int64
	FreeShipping  bool
	GiftWrap      bool
	Secondary     *SecondaryReward
}

// ComputeReward calculates the discount for an already-eligible promotion
// over its matching line items. The discount never exceeds the base amount
// and never goes negative; percentage math rounds up so rounding always
// favors the customer.
func (p *Promotion) ComputeReward(ctx cart.Context, matching []cart.LineItem) RewardResult {
	base := p.RewardBase(ctx, matching)

	result := RewardResult{
		FreeShipping: p.reward.FreeShipping(),
		GiftWrap:     p.reward.GiftWrap(),
		Secondary:    p.reward.Secondary(),
	}

	switch p.promoType {
	case TypePercentage:
		result.DiscountCents = clampDiscount(p.capped(percentOf(base, p.reward.PercentValue())), base)
	case TypeFixed:
		result.DiscountCents = clampDiscount(p.reward.FixedCents(), base)
	case TypeTieredDiscount:
		result.DiscountCents = clampDiscount(p.tieredDiscount(base), base)
	case TypeFreeShipping:
		result.FreeShipping = true
		if ctx.ShippingCents != nil {
			result.DiscountCents = *ctx.ShippingCents
		}
	case TypeBuyXGetY:
		result.DiscountCents = clampDiscount(p.buyXGetYDiscount(matching), base)
	case TypeBundleDiscount:
		result.DiscountCents = clampDiscount(p.bundleDiscount(matching), base)
	}

	return result
}

// RewardBase is the amount a relative discount applies to: the whole cart
// for untargeted promotions, otherwise the matching line-item subtotals.
func (p *Promotion) RewardBase(ctx cart.Context, matching []cart.LineItem) int64 {
	if p.target == TargetAllProducts {
		return ctx.CartTotalCents
	}
	var base int64
	for _, item := range matching {
		base += item.SubtotalCents()
	}
	return base
}

// tieredDiscount applies the highest tier whose threshold is met. Meeting no
// tier is a zero reward, not ineligibility.
func (p *Promotion) tieredDiscount(base int64) int64 {
	var selected *Tier
	for i := range p.tiers {
		if p.tiers[i].ThresholdCents <= base {
			selected = &p.tiers[i]
		}
	}
	if selected == nil {
		return 0
	}
	if selected.Kind == DiscountKindPercentage {
		return p.capped(percentOf(base, selected.Value))
	}
	return p.capped(selected.Value)
}

// buyXGetYDiscount makes the cheapest qualifying units free: one free unit
// per complete buy+get group.
func (p *Promotion) buyXGetYDiscount(matching []cart.LineItem) int64 {
	units := expandUnits(matching)
	groupSize := p.reward.BuyQuantity() + p.reward.GetQuantity()
	freeUnits := (len(units) / groupSize) * p.reward.GetQuantity()
	if freeUnits == 0 {
		return 0
	}

	var discount int64
	for _, price := range units[:freeUnits] {
		discount += price
	}
	return p.capped(discount)
}

// bundleDiscount discounts the cheapest units of each complete bundle by the
// reward percentage.
func (p *Promotion) bundleDiscount(matching []cart.LineItem) int64 {
	units := expandUnits(matching)
	bundledUnits := (len(units) / p.reward.BundleSize()) * p.reward.BundleSize()
	if bundledUnits == 0 {
		return 0
	}

	var bundledValue int64
	for _, price := range units[:bundledUnits] {
		bundledValue += price
	}
	return p.capped(percentOf(bundledValue, p.reward.PercentValue()))
}

func (p *Promotion) capped(discount int64) int64 {
	if maxAmount := p.reward.MaxAmountCents(); maxAmount != nil && discount > *maxAmount {
		return *maxAmount
	}
	return discount
}

// expandUnits flattens line items into per-unit prices sorted cheapest first.
func expandUnits(items []cart.LineItem) []int64 {
	var units []int64
	for _, item := range items {
		for i := 0; i < item.Quantity; i++ {
			units = append(units, item.UnitPriceCents)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })
	return units
}

// percentOf rounds up to the next cent.
func percentOf(base, percent int64) int64 {
	return (base*percent + 99) / 100
}

func clampDiscount(discount, base int64) int64 {
	if discount < 0 {
		return 0
	}
	if discount > base {
		return base
	}
	return discount
}
