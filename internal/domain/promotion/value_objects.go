package promotion

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidCode           = errors.New("invalid promotion code format")
	ErrInvalidRewardValue    = errors.New("reward value must be positive")
	ErrInvalidPercentValue   = errors.New("percentage value must be between 0 and 100")
	ErrInvalidQuantityRule   = errors.New("buy/get quantities must be positive")
	ErrInvalidBundleSize     = errors.New("bundle size must be at least 2")
	ErrNonIncreasingTiers    = errors.New("tier thresholds must be strictly increasing")
	ErrInvalidUsageLimit     = errors.New("usage limit must be positive when set")
	ErrMissingRuleOperand    = errors.New("rule operand does not match operator")
	ErrUnknownRuleField      = errors.New("unknown rule field")
	ErrUnknownOperator       = errors.New("unknown rule operator")
)

var codeRegex = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)

type Code string

func NewCode(raw string) (Code, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !codeRegex.MatchString(normalized) {
		return "", ErrInvalidCode
	}
	return Code(normalized), nil
}

func (c Code) String() string { return string(c) }

// Operand is the tagged union carried by a Rule. Exactly one concrete type
// is valid per operator class: NumberOperand for ordering comparisons,
// StringOperand for equality/contains on text fields, ListOperand for
// in/nin, RangeOperand for between.
type Operand interface {
	isOperand()
}

type NumberOperand int64

type StringOperand string

type ListOperand []string

type RangeOperand struct {
	Low  int64
	High int64
}

func (NumberOperand) isOperand() {}
func (StringOperand) isOperand() {}
func (ListOperand) isOperand()   {}
func (RangeOperand) isOperand()  {}

// Rule is one eligibility condition. All of a promotion's rules are AND-ed.
type Rule struct {
	Field    Field
	Operator Operator
	Operand  Operand
}

// Tier is one step of a progressive discount ladder.
type Tier struct {
	ThresholdCents int64
	Kind           DiscountKind
	Value          int64 // percent for PERCENTAGE, cents for FIXED
}

// ValidateTiers enforces the strictly-increasing-threshold invariant.
// A violation is a configuration error: the promotion must be excluded
// from evaluation, never silently skipped.
func ValidateTiers(tiers []Tier) error {
	for i, tier := range tiers {
		if tier.Kind == DiscountKindPercentage && (tier.Value < 0 || tier.Value > 100) {
			return ErrInvalidPercentValue
		}
		if tier.Value < 0 {
			return ErrInvalidRewardValue
		}
		if i > 0 && tiers[i].ThresholdCents <= tiers[i-1].ThresholdCents {
			return ErrNonIncreasingTiers
		}
	}
	return nil
}

// SecondaryReward is granted in addition to the primary discount and never
// changes the cart total.
type SecondaryReward struct {
	Kind          SecondaryKind
	ValueCents    int64  // CASHBACK
	Points        int    // LOYALTY_POINTS
	FreeProductID string // FREE_PRODUCT
}

// Reward describes how a promotion's discount is computed. Which fields are
// meaningful depends on the promotion Type; NewReward enforces that per type.
type Reward struct {
	percentValue   int64
	fixedCents     int64
	maxAmountCents *int64
	buyQuantity    int
	getQuantity    int
	bundleSize     int
	secondary      *SecondaryReward
	freeShipping   bool
	giftWrap       bool
}

type RewardParams struct {
	PercentValue   int64
	FixedCents     int64
	MaxAmountCents *int64
	BuyQuantity    int
	GetQuantity    int
	BundleSize     int
	Secondary      *SecondaryReward
	FreeShipping   bool
	GiftWrap       bool
}

func NewReward(promoType Type, params RewardParams) (Reward, error) {
	switch promoType {
	case TypePercentage:
		if params.PercentValue <= 0 || params.PercentValue > 100 {
			return Reward{}, ErrInvalidPercentValue
		}
	case TypeFixed:
		if params.FixedCents <= 0 {
			return Reward{}, ErrInvalidRewardValue
		}
	case TypeBuyXGetY:
		if params.BuyQuantity <= 0 || params.GetQuantity <= 0 {
			return Reward{}, ErrInvalidQuantityRule
		}
	case TypeBundleDiscount:
		if params.BundleSize < 2 {
			return Reward{}, ErrInvalidBundleSize
		}
		if params.PercentValue <= 0 || params.PercentValue > 100 {
			return Reward{}, ErrInvalidPercentValue
		}
	case TypeTieredDiscount, TypeFreeShipping:
		// value lives in the tiers / shipping cost
	}

	return Reward{
		percentValue:   params.PercentValue,
		fixedCents:     params.FixedCents,
		maxAmountCents: params.MaxAmountCents,
		buyQuantity:    params.BuyQuantity,
		getQuantity:    params.GetQuantity,
		bundleSize:     params.BundleSize,
		secondary:      params.Secondary,
		freeShipping:   params.FreeShipping,
		giftWrap:       params.GiftWrap,
	}, nil
}

func (r Reward) PercentValue() int64       { return r.percentValue }
func (r Reward) FixedCents() int64         { return r.fixedCents }
func (r Reward) MaxAmountCents() *int64    { return r.maxAmountCents }
func (r Reward) BuyQuantity() int          { return r.buyQuantity }
func (r Reward) GetQuantity() int          { return r.getQuantity }
func (r Reward) BundleSize() int           { return r.bundleSize }
func (r Reward) Secondary() *SecondaryReward { return r.secondary }
func (r Reward) FreeShipping() bool        { return r.freeShipping }
func (r Reward) GiftWrap() bool            { return r.giftWrap }

// TargetFilter narrows which line items a targeted promotion applies to.
// Exclusions always win over inclusions.
type TargetFilter struct {
	ProductIDs        []string
	Categories        []string
	Brands            []string
	ExcludeProductIDs []string
	MinPriceCents     *int64
	MaxPriceCents     *int64
}

// CombinationPolicy controls how a promotion may coexist with others in one
// applied set.
type CombinationPolicy struct {
	CanCombineWithOthers bool
	ExcludePromotionIDs  []uuid.UUID
	Priority             int
}

func (p CombinationPolicy) Excludes(id uuid.UUID) bool {
	for _, excluded := range p.ExcludePromotionIDs {
		if excluded == id {
			return true
		}
	}
	return false
}

// UsageLimits tracks consumption caps. Nil limits mean unlimited.
type UsageLimits struct {
	Limit            *int
	LimitPerCustomer *int
	UsedCount        int
}

func (u UsageLimits) Validate() error {
	if u.Limit != nil && *u.Limit <= 0 {
		return ErrInvalidUsageLimit
	}
	if u.LimitPerCustomer != nil && *u.LimitPerCustomer <= 0 {
		return ErrInvalidUsageLimit
	}
	return nil
}

// GloballyExhausted reports whether the shared counter has consumed the
// global limit. Per-customer exhaustion needs the counter store and is
// checked by the usage tracker, not here.
func (u UsageLimits) GloballyExhausted() bool {
	return u.Limit != nil && u.UsedCount >= *u.Limit
}
