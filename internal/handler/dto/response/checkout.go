package response

import (
	"github.com/google/uuid"

	"promo-engine/internal/usecase"
)

type FailedReservationResponse struct {
	PromotionID uuid.UUID `json:"promotionId"`
	Reason      string    `json:"reason"`
}

type CommitResponse struct {
	Reserved []uuid.UUID                 `json:"reserved"`
	Failed   []FailedReservationResponse `json:"failed"`
}

func FromCommitResult(result *usecase.CommitResult) *CommitResponse {
	reserved := result.Reserved
	if reserved == nil {
		reserved = []uuid.UUID{}
	}
	failed := make([]FailedReservationResponse, 0, len(result.Failed))
	for _, f := range result.Failed {
		failed = append(failed, FailedReservationResponse{
			PromotionID: f.PromotionID,
			Reason:      f.Reason,
		})
	}
	return &CommitResponse{
		Reserved: reserved,
		Failed:   failed,
	}
}
