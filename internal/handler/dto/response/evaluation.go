package response

import (
	"github.com/google/uuid"

	"promo-engine/internal/domain/evaluation"
	"promo-engine/internal/domain/promotion"
	"promo-engine/internal/usecase"
)

type SecondaryRewardResponse struct {
	Kind          string `json:"kind"`
	ValueCents    int64  `json:"valueCents,omitempty"`
	Points        int    `json:"points,omitempty"`
	FreeProductID string `json:"freeProductId,omitempty"`
}

type ApplicationResultResponse struct {
	PromotionID   uuid.UUID                `json:"promotionId"`
	PromotionName string                   `json:"promotionName"`
	Code          string                   `json:"code,omitempty"`
	Applied       bool                     `json:"applied"`
	Reason        string                   `json:"reason,omitempty"`
	DiscountCents int64                    `json:"discountCents"`
	OriginalCents int64                    `json:"originalCents"`
	FinalCents    int64                    `json:"finalCents"`
	MatchedRules  []string                 `json:"matchedRules,omitempty"`
	Warnings      []string                 `json:"warnings,omitempty"`
	FreeShipping  bool                     `json:"freeShipping"`
	GiftWrap      bool                     `json:"giftWrap"`
	Secondary     *SecondaryRewardResponse `json:"secondary,omitempty"`
}

type CombinationResultResponse struct {
	Applied            []ApplicationResultResponse `json:"applied"`
	TotalDiscountCents int64                       `json:"totalDiscountCents"`
	OriginalTotalCents int64                       `json:"originalTotalCents"`
	FinalTotalCents    int64                       `json:"finalTotalCents"`
	FreeShipping       bool                        `json:"freeShipping"`
}

type ValidationResponse struct {
	Valid   bool     `json:"valid"`
	Reasons []string `json:"reasons"`
}

func FromApplicationResult(result *evaluation.ApplicationResult) *ApplicationResultResponse {
	return &ApplicationResultResponse{
		PromotionID:   result.PromotionID,
		PromotionName: result.PromotionName,
		Code:          result.Code,
		Applied:       result.Applied,
		Reason:        result.Reason,
		DiscountCents: result.DiscountCents,
		OriginalCents: result.OriginalCents,
		FinalCents:    result.FinalCents,
		MatchedRules:  result.MatchedRules,
		Warnings:      result.Warnings,
		FreeShipping:  result.FreeShipping,
		GiftWrap:      result.GiftWrap,
		Secondary:     fromSecondary(result.Secondary),
	}
}

func FromCombinationResult(result *evaluation.CombinationResult) *CombinationResultResponse {
	applied := make([]ApplicationResultResponse, 0, len(result.Applied))
	for i := range result.Applied {
		applied = append(applied, *FromApplicationResult(&result.Applied[i]))
	}
	return &CombinationResultResponse{
		Applied:            applied,
		TotalDiscountCents: result.TotalDiscountCents,
		OriginalTotalCents: result.OriginalTotalCents,
		FinalTotalCents:    result.FinalTotalCents,
		FreeShipping:       result.FreeShipping,
	}
}

func FromValidationResult(result *usecase.ValidationResult) *ValidationResponse {
	reasons := result.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return &ValidationResponse{
		Valid:   result.Valid,
		Reasons: reasons,
	}
}

func fromSecondary(secondary *promotion.SecondaryReward) *SecondaryRewardResponse {
	if secondary == nil {
		return nil
	}
	return &SecondaryRewardResponse{
		Kind:          string(secondary.Kind),
		ValueCents:    secondary.ValueCents,
		Points:        secondary.Points,
		FreeProductID: secondary.FreeProductID,
	}
}
