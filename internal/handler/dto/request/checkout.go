package request

import (
	"github.com/google/uuid"
)

type CommitRequest struct {
	CustomerID   string      `json:"customer_id" binding:"required"`
	PromotionIDs []uuid.UUID `json:"promotion_ids" binding:"required,min=1"`
}

type ReleaseRequest struct {
	CustomerID   string      `json:"customer_id" binding:"required"`
	PromotionIDs []uuid.UUID `json:"promotion_ids" binding:"required,min=1"`
}
