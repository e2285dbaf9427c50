package promotion

import (
	"time"

	"github.com/google/uuid"
)

// Promotion is the campaign aggregate the engine evaluates. Instances are
// read-only inputs: the admin surface owns creation and editing, and the only
// field that ever changes after publication is the usage counter, which lives
// in the counter store rather than on this struct.
type Promotion struct {
	id          uuid.UUID
	name        string
	description string
	code        Code

	promoType Type
	target    Target
	trigger   Trigger

	rules        []Rule
	targetFilter TargetFilter
	segments     []string
	devices      []string

	reward Reward
	tiers  []Tier

	schedule    Schedule
	usage       UsageLimits
	combination CombinationPolicy

	isActive  bool
	isDraft   bool
	createdAt time.Time
}

// Params carries the raw attributes of a stored promotion into the
// constructor. Reward and Schedule arrive pre-validated value objects;
// New validates the cross-field invariants.
type Params struct {
	ID          uuid.UUID
	Name        string
	Description string
	Code        Code

	Type    Type
	Target  Target
	Trigger Trigger

	Rules        []Rule
	TargetFilter TargetFilter
	Segments     []string
	Devices      []string

	Reward Reward
	Tiers  []Tier

	Schedule    Schedule
	Usage       UsageLimits
	Combination CombinationPolicy

	IsActive  bool
	IsDraft   bool
	CreatedAt time.Time
}

func New(params Params) (*Promotion, error) {
	if params.Type == TypeTieredDiscount {
		if err := ValidateTiers(params.Tiers); err != nil {
			return nil, err
		}
	}
	if err := params.Usage.Validate(); err != nil {
		return nil, err
	}
	for _, rule := range params.Rules {
		if err := validateRule(rule); err != nil {
			return nil, err
		}
	}

	return &Promotion{
		id:           params.ID,
		name:         params.Name,
		description:  params.Description,
		code:         params.Code,
		promoType:    params.Type,
		target:       params.Target,
		trigger:      params.Trigger,
		rules:        params.Rules,
		targetFilter: params.TargetFilter,
		segments:     params.Segments,
		devices:      params.Devices,
		reward:       params.Reward,
		tiers:        params.Tiers,
		schedule:     params.Schedule,
		usage:        params.Usage,
		combination:  params.Combination,
		isActive:     params.IsActive,
		isDraft:      params.IsDraft,
		createdAt:    params.CreatedAt,
	}, nil
}

func (p *Promotion) ID() uuid.UUID                 { return p.id }
func (p *Promotion) Name() string                  { return p.name }
func (p *Promotion) Description() string           { return p.description }
func (p *Promotion) Code() Code                    { return p.code }
func (p *Promotion) Type() Type                    { return p.promoType }
func (p *Promotion) Target() Target                { return p.target }
func (p *Promotion) Trigger() Trigger              { return p.trigger }
func (p *Promotion) Rules() []Rule                 { return p.rules }
func (p *Promotion) TargetFilter() TargetFilter    { return p.targetFilter }
func (p *Promotion) Segments() []string            { return p.segments }
func (p *Promotion) Devices() []string             { return p.devices }
func (p *Promotion) Reward() Reward                { return p.reward }
func (p *Promotion) Tiers() []Tier                 { return p.tiers }
func (p *Promotion) Schedule() Schedule            { return p.schedule }
func (p *Promotion) Usage() UsageLimits            { return p.usage }
func (p *Promotion) Combination() CombinationPolicy { return p.combination }
func (p *Promotion) IsActive() bool                { return p.isActive }
func (p *Promotion) IsDraft() bool                 { return p.isDraft }
func (p *Promotion) CreatedAt() time.Time          { return p.createdAt }

func (p *Promotion) IsExpiredAt(now time.Time) bool {
	return p.schedule.ExpiredAt(now)
}

// IsApplicableAt is the gate every promotion must pass before rules are even
// looked at: published, currently scheduled, and not globally exhausted.
func (p *Promotion) IsApplicableAt(now time.Time) bool {
	if !p.isActive || p.isDraft {
		return false
	}
	if !p.schedule.IsOpenAt(now) {
		return false
	}
	return !p.usage.GloballyExhausted()
}

func validateRule(rule Rule) error {
	switch rule.Field {
	case FieldCartTotal, FieldItemCount, FieldCustomerSegment, FieldDeviceType,
		FieldOrderCount, FieldTotalSpent, FieldLoyaltyPoints, FieldCategory, FieldBrand:
	default:
		return ErrUnknownRuleField
	}

	switch rule.Operator {
	case OpGt, OpGte, OpLt, OpLte:
		if _, ok := rule.Operand.(NumberOperand); !ok {
			return ErrMissingRuleOperand
		}
	case OpEq, OpNe:
		switch rule.Operand.(type) {
		case NumberOperand, StringOperand:
		default:
			return ErrMissingRuleOperand
		}
	case OpIn, OpNin:
		if _, ok := rule.Operand.(ListOperand); !ok {
			return ErrMissingRuleOperand
		}
	case OpContains:
		if _, ok := rule.Operand.(StringOperand); !ok {
			return ErrMissingRuleOperand
		}
	case OpBetween:
		if _, ok := rule.Operand.(RangeOperand); !ok {
			return ErrMissingRuleOperand
		}
	default:
		return ErrUnknownOperator
	}
	return nil
}
