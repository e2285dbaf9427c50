// Package shared holds the read snapshots and ports the usecase layer is
// built against. Snapshots are flat storage-shaped structs; the domain
// aggregate is assembled from them per evaluation.
package shared

import (
	"time"

	"github.com/google/uuid"
)

type RuleSnapshot struct {
	Field       string
	Operator    string
	NumberValue *int64
	StringValue *string
	ListValues  []string
	RangeLow    *int64
	RangeHigh   *int64
}

type TierSnapshot struct {
	ThresholdCents int64
	Kind           string
	Value          int64
}

type WindowSnapshot struct {
	Days        []int
	StartMinute int
	EndMinute   int
}

type SecondarySnapshot struct {
	Kind       string
	ValueCents int64
	Points     int
	ProductID  string
}

type PromotionSnapshot struct {
	ID          uuid.UUID
	Name        string
	Description string
	Code        *string

	Type    string
	Target  string
	Trigger string

	Rules []RuleSnapshot

	TargetProductIDs  []string
	TargetCategories  []string
	TargetBrands      []string
	ExcludeProductIDs []string
	MinPriceCents     *int64
	MaxPriceCents     *int64
	Segments          []string
	Devices           []string

	PercentValue   int64
	FixedCents     int64
	MaxAmountCents *int64
	BuyQuantity    int
	GetQuantity    int
	BundleSize     int
	Secondary      *SecondarySnapshot
	FreeShipping   bool
	GiftWrap       bool

	Tiers []TierSnapshot

	StartAt      time.Time
	EndAt        time.Time
	Timezone     string
	Windows      []WindowSnapshot
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
