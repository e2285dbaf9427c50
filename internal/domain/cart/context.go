// Package cart holds the immutable snapshot an evaluation runs against.
// Nothing in this package mutates; the engine treats a Context as a value.
package cart

import (
	"time"
)

type LineItem struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
	Category       string
	Brand          string
}

func (li LineItem) SubtotalCents() int64 {
	return li.UnitPriceCents * int64(li.Quantity)
}

// Context is the full input snapshot for one evaluation: cart contents,
// customer profile aggregates, and the moment the evaluation runs at.
type Context struct {
	CustomerID      string
	CustomerSegment string
	Items           []LineItem
	CartTotalCents  int64
	ShippingCents   *int64
	OrderCount      int
	TotalSpentCents int64
	Now             time.Time
	Timezone        string
	DeviceType      string
	AppliedCodes    []string
	LoyaltyPoints   int
}

func (c Context) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c Context) HasAppliedCode(code string) bool {
	for _, applied := range c.AppliedCodes {
		if applied == code {
			return true
		}
	}
	return false
}
