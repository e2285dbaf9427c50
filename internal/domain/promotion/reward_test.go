//go:build unit

package promotion_test

import (
	"testing"

	"promo-engine/internal/domain/cart"
	"promo-engine/internal/domain/promotion"
	"promo-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartWith(items ...cart.LineItem) cart.Context {
	ctx := cart.Context{CustomerID: "customer-1", Items: items}
	for _, item := range items {
		ctx.CartTotalCents += item.SubtotalCents()
	}
	return ctx
}

func computeReward(t *testing.T, b *builder.PromotionBuilder, ctx cart.Context) promotion.RewardResult {
	t.Helper()
	p, err := b.BuildDomain()
	require.NoError(t, err)
	return p.ComputeReward(ctx, p.MatchingItems(ctx))
}

func TestPercentageReward(t *testing.T) {
	t.Run("rounds up in the customer's favor", func(t *testing.T) {
		ctx := cartWith(cart.LineItem{ProductID: "p1", Quantity: 1, UnitPriceCents: 999})

		result := computeReward(t, builder.NewPromotionBuilder().WithPercent(10), ctx)
		// 10% of 9.99 is 0.999; the customer gets the full cent.
		assert.Equal(t, int64(100), result.DiscountCents)
	})

	t.Run("cap limits the discount", func(t *testing.T) {
		ctx := cartWith(cart.LineItem{ProductID: "p1", Quantity: 1, UnitPriceCents: 10000})

		result := computeReward(t, builder.NewPromotionBuilder().WithPercent(50).WithMaxAmount(2000), ctx)
		assert.Equal(t, int64(2000), result.DiscountCents)
	})

	t.Run("never exceeds the base amount", func(t *testing.T) {
		ctx := cartWith(cart.LineItem{ProductID: "p1", Quantity: 1, UnitPriceCents: 100})

		result := computeReward(t, builder.NewPromotionBuilder().WithPercent(100), ctx)
		assert.Equal(t, int64(100), result.DiscountCents)
	})
}

func TestFixedReward(t *testing.T) {
	t.Run("fixed amount off", func(t *testing.T) {
		ctx := cartWith(cart.LineItem{ProductID: "p1", Quantity: 1, UnitPriceCents: 8000})

		b := builder.NewPromotionBuilder().WithType(promotion.TypeFixed)
		b.FixedCents = 500
		result := computeReward(t, b, ctx)
		assert.Equal(t, int64(500), result.DiscountCents)
	})

	t.Run("clamped to the cart value", func(t *testing.T) {
		ctx := cartWith(cart.LineItem{ProductID: "p1", Quantity: 1, UnitPriceCents: 300})

		b := builder.NewPromotionBuilder().WithType(promotion.TypeFixed)
		b.FixedCents = 500
		result := computeReward(t, b, ctx)
		assert.Equal(t, int64(300), result.DiscountCents)
	})
}

func TestTieredReward(t *testing.T) {
	tiers := []promotion.Tier{
		{ThresholdCents: 10000, Kind: promotion.DiscountKindFixed, Value: 1000},
		{ThresholdCents: 50000, Kind: promotion.DiscountKindFixed, Value: 5000},
	}

	cases := []struct {
		name     string
		total    int64
		expected int64
	}{
		{"below every threshold applies with zero discount", 9999, 0},
		{"exactly at the first threshold", 10000, 1000},
		{"just below the next threshold stays on the lower tier", 49900, 1000},
		{"exactly at the higher threshold", 50000, 5000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := cartWith(cart.LineItem{ProductID: "p1", Quantity: 1, UnitPriceCents: c.total})
			result := computeReward(t, builder.NewPromotionBuilder().WithTiers(tiers...), ctx)
			assert.Equal(t, c.expected, result.DiscountCents)
		})
	}

	t.Run("percentage tier rounds up", func(t *testing.T) {
		ctx := cartWith(cart.LineItem{ProductID: "p1", Quantity: 1, UnitPriceCents: 10001})
		result := computeReward(t, builder.NewPromotionBuilder().WithTiers(
			promotion.Tier{ThresholdCents: 10000, Kind: promotion.DiscountKindPercentage, Value: 5},
		), ctx)
		// 5% of 100.01 is 5.0005, rounded up to 5.01.
		assert.Equal(t, int64(501), result.DiscountCents)
	})
}

func TestBuyXGetYReward(t *testing.T) {
	newBuilder := func() *builder.PromotionBuilder {
		b := builder.NewPromotionBuilder().WithType(promotion.TypeBuyXGetY)
		b.BuyQuantity = 2
		b.GetQuantity = 1
		return b
	}

	t.Run("cheapest unit of each complete group is free", func(t *testing.T) {
		ctx := cartWith(
			cart.LineItem{ProductID: "shirt", Quantity: 2, UnitPriceCents: 1000},
			cart.LineItem{ProductID: "socks", Quantity: 1, UnitPriceCents: 500},
		)
		result := computeReward(t, newBuilder(), ctx)
		assert.Equal(t, int64(500), result.DiscountCents)
	})

	t.Run("incomplete group earns nothing", func(t *testing.T) {
		ctx := cartWith(cart.LineItem{ProductID: "shirt", Quantity: 2, UnitPriceCents: 1000})
		result := computeReward(t, newBuilder(), ctx)
		assert.Equal(t, int64(0), result.DiscountCents)
	})

	t.Run("two complete groups free two cheapest units", func(t *testing.T) {
		ctx := cartWith(
			cart.LineItem{ProductID: "shirt", Quantity: 4, UnitPriceCents: 1000},
			cart.LineItem{ProductID: "socks", Quantity: 2, UnitPriceCents: 500},
		)
		result := computeReward(t, newBuilder(), ctx)
		assert.Equal(t, int64(1000), result.DiscountCents)
	})
}

func TestBundleReward(t *testing.T) {
	b := builder.NewPromotionBuilder().WithType(promotion.TypeBundleDiscount)
	b.BundleSize = 2
	b.PercentValue = 20

	ctx := cartWith(
		cart.LineItem{ProductID: "mug", Quantity: 2, UnitPriceCents: 1000},
		cart.LineItem{ProductID: "coaster", Quantity: 1, UnitPriceCents: 500},
	)
	result := computeReward(t, b, ctx)
	// One complete bundle of the two cheapest units (5.00 + 10.00) at 20% off.
	assert.Equal(t, int64(300), result.DiscountCents)
}

func TestFreeShippingReward(t *testing.T) {
	t.Run("discount equals the shipping cost", func(t *testing.T) {
		shipping := int64(599)
		ctx := cartWith(cart.LineItem{ProductID: "p1", Quantity: 1, UnitPriceCents: 5000})
		ctx.ShippingCents = &shipping

		result := computeReward(t, builder.NewPromotionBuilder().WithType(promotion.TypeFreeShipping), ctx)
		assert.Equal(t, int64(599), result.DiscountCents)
		assert.True(t, result.FreeShipping)
	})

	t.Run("unknown shipping cost still flags free shipping", func(t *testing.T) {
		ctx := cartWith(cart.LineItem{ProductID: "p1", Quantity: 1, UnitPriceCents: 5000})

		result := computeReward(t, builder.NewPromotionBuilder().WithType(promotion.TypeFreeShipping), ctx)
		assert.Equal(t, int64(0), result.DiscountCents)
		assert.True(t, result.FreeShipping)
	})
}

func TestRewardBaseForTargetedPromotion(t *testing.T) {
	b := builder.NewPromotionBuilder().WithPercent(10).WithTarget(promotion.TargetCategory)
	b.TargetFilter = promotion.TargetFilter{Categories: []string{"shoes"}}

	ctx := cartWith(
		cart.LineItem{ProductID: "sneaker", Quantity: 1, UnitPriceCents: 10000, Category: "shoes"},
		cart.LineItem{ProductID: "hat", Quantity: 1, UnitPriceCents: 90000, Category: "accessories"},
	)

	p, err := b.BuildDomain()
	require.NoError(t, err)

	matching := p.MatchingItems(ctx)
	require.Len(t, matching, 1)
	assert.Equal(t, int64(10000), p.RewardBase(ctx, matching))

	result := p.ComputeReward(ctx, matching)
	assert.Equal(t, int64(1000), result.DiscountCents)
}

func TestSecondaryRewardPassthrough(t *testing.T) {
	b := builder.NewPromotionBuilder().WithPercent(10)
	b.Secondary = &promotion.SecondaryReward{Kind: promotion.SecondaryLoyaltyPoints, Points: 250}

	ctx := cartWith(cart.LineItem{ProductID: "p1", Quantity: 1, UnitPriceCents: 1000})
	result := computeReward(t, b, ctx)

	require.NotNil(t, result.Secondary)
	assert.Equal(t, promotion.SecondaryLoyaltyPoints, result.Secondary.Kind)
	assert.Equal(t, 250, result.Secondary.Points)
}
