// Package evaluation holds the engine's output types and the combination
// optimizer that picks the final applied set.
package evaluation

import (
	"github.com/google/uuid"

	"promo-engine/internal/domain/promotion"
)

// ApplicationResult is the per-promotion outcome of one evaluation.
// FinalCents is always OriginalCents minus DiscountCents.
type ApplicationResult struct {
	PromotionID   uuid.UUID
	PromotionName string
	Code          string
	Applied       bool
	Reason        string
	DiscountCents int64
	OriginalCents int64
	FinalCents    int64
	MatchedRules  []string
	Warnings      []string
	FreeShipping  bool
	GiftWrap      bool
	Secondary     *promotion.SecondaryReward
}

// NewApplicationResult keeps the monetary invariant in one place.
func NewApplicationResult(p *promotion.Promotion, originalCents int64, reward promotion.RewardResult, matchedRules []string) ApplicationResult {
	discount := reward.DiscountCents
	if discount < 0 {
		discount = 0
	}
	if discount > originalCents {
		discount = originalCents
	}
	return ApplicationResult{
		PromotionID:   p.ID(),
		PromotionName: p.Name(),
		Code:          p.Code().String(),
		Applied:       true,
		DiscountCents: discount,
		OriginalCents: originalCents,
		FinalCents:    originalCents - discount,
		MatchedRules:  matchedRules,
		FreeShipping:  reward.FreeShipping,
		GiftWrap:      reward.GiftWrap,
		Secondary:     reward.Secondary,
	}
}

// Rejected builds the not-applied outcome with its failing reason.
func Rejected(p *promotion.Promotion, originalCents int64, reason string) ApplicationResult {
	return ApplicationResult{
		PromotionID:   p.ID(),
		PromotionName: p.Name(),
		Code:          p.Code().String(),
		Applied:       false,
		Reason:        reason,
		OriginalCents: originalCents,
		FinalCents:    originalCents,
	}
}

// CombinationResult is the final answer for a cart: the conflict-free applied
// set plus aggregate totals.
type CombinationResult struct {
	Applied            []ApplicationResult
	TotalDiscountCents int64
	OriginalTotalCents int64
	FinalTotalCents    int64
	FreeShipping       bool
}
