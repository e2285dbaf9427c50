package request

import (
	"strings"
	"time"

	"promo-engine/internal/domain/cart"
)

type LineItemRequest struct {
	ProductID      string `json:"product_id" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required,gt=0"`
	UnitPriceCents int64  `json:"unit_price_cents" binding:"gte=0"`
	Category       string `json:"category,omitempty"`
	Brand          string `json:"brand,omitempty"`
}

// EvaluationContextRequest mirrors cart.Context on the wire. cart_total_cents
// may be omitted, in which case it is derived from the line items.
type EvaluationContextRequest struct {
	CustomerID      string            `json:"customer_id" binding:"required"`
	CustomerSegment string            `json:"customer_segment,omitempty"`
	Items           []LineItemRequest `json:"items" binding:"required,dive"`
	CartTotalCents  *int64            `json:"cart_total_cents,omitempty"`
	ShippingCents   *int64            `json:"shipping_cents,omitempty"`
	OrderCount      int               `json:"order_count,omitempty"`
	TotalSpentCents int64             `json:"total_spent_cents,omitempty"`
	EvaluatedAt     *time.Time        `json:"evaluated_at,omitempty"`
	Timezone        string            `json:"timezone,omitempty"`
	DeviceType      string            `json:"device_type,omitempty"`
	AppliedCodes    []string          `json:"applied_codes,omitempty"`
	LoyaltyPoints   int               `json:"loyalty_points,omitempty"`
}

func (r EvaluationContextRequest) ToDomain() cart.Context {
	items := make([]cart.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, cart.LineItem{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			Category:       item.Category,
			Brand:          item.Brand,
		})
	}

	cartTotal := int64(0)
	if r.CartTotalCents != nil {
		cartTotal = *r.CartTotalCents
	} else {
		for _, item := range items {
			cartTotal += item.SubtotalCents()
		}
	}

	ctx := cart.Context{
		CustomerID:      r.CustomerID,
		CustomerSegment: r.CustomerSegment,
		Items:           items,
		CartTotalCents:  cartTotal,
		ShippingCents:   r.ShippingCents,
		OrderCount:      r.OrderCount,
		TotalSpentCents: r.TotalSpentCents,
		Timezone:        r.Timezone,
		DeviceType:      r.DeviceType,
		AppliedCodes:    r.AppliedCodes,
		LoyaltyPoints:   r.LoyaltyPoints,
	}
	if r.EvaluatedAt != nil {
		ctx.Now = *r.EvaluatedAt
	}
	return ctx
}

type EvaluateRequest struct {
	Context EvaluationContextRequest `json:"context" binding:"required"`
}

type ApplyCodeRequest struct {
	Code    string                   `json:"code" binding:"required"`
	Context EvaluationContextRequest `json:"context" binding:"required"`
}

func (r ApplyCodeRequest) TrimmedCode() string {
	return strings.TrimSpace(r.Code)
}

type ValidateRequest struct {
	Context EvaluationContextRequest `json:"context" binding:"required"`
}
