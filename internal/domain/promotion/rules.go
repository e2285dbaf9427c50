package promotion

import (
	"fmt"
	"strings"

	"promo-engine/internal/domain/cart"
)

// RuleOutcome is what the rule evaluator reports back to the orchestrator.
type RuleOutcome struct {
	Eligible     bool
	MatchedRules []string
	Reason       string
}

// EvaluateRules checks every eligibility condition of the promotion against
// the context. Conditions are AND-ed; the first failure decides the reason.
// Customer-segment and device restrictions run first: they are the cheapest
// checks and reject the most candidates on large catalogs. The context is
// never mutated.
func (p *Promotion) EvaluateRules(ctx cart.Context) RuleOutcome {
	matched := make([]string, 0, len(p.rules)+2)

	if len(p.segments) > 0 {
		if !containsString(p.segments, ctx.CustomerSegment) {
			return RuleOutcome{Reason: fmt.Sprintf("customer segment %q is not eligible", ctx.CustomerSegment)}
		}
		matched = append(matched, "customer segment "+ctx.CustomerSegment)
	}

	if len(p.devices) > 0 && !containsString(p.devices, ctx.DeviceType) {
		return RuleOutcome{Reason: fmt.Sprintf("device type %q is not eligible", ctx.DeviceType)}
	}

	// Target scoping is an implicit rule: a targeted promotion with no
	// matching line items is ineligible, not zero-discount.
	if p.target != TargetAllProducts && p.target != TargetCustomerSegment {
		if len(p.MatchingItems(ctx)) == 0 {
			return RuleOutcome{Reason: "no matching line items"}
		}
		matched = append(matched, "target "+string(p.target))
	}

	for _, rule := range p.rules {
		ok, err := evaluateRule(rule, ctx)
		if err != nil {
			return RuleOutcome{Reason: err.Error()}
		}
		if !ok {
			return RuleOutcome{Reason: "rule failed: " + describeRule(rule)}
		}
		matched = append(matched, describeRule(rule))
	}

	return RuleOutcome{Eligible: true, MatchedRules: matched}
}

// MatchingItems returns the line items inside the promotion's target set and
// outside its exclude set. For untargeted promotions every item qualifies.
func (p *Promotion) MatchingItems(ctx cart.Context) []cart.LineItem {
	if p.target == TargetAllProducts || p.target == TargetCustomerSegment {
		return ctx.Items
	}

	filter := p.targetFilter
	items := make([]cart.LineItem, 0, len(ctx.Items))
	for _, item := range ctx.Items {
		if containsString(filter.ExcludeProductIDs, item.ProductID) {
			continue
		}
		if !p.itemInTarget(item) {
			continue
		}
		items = append(items, item)
	}
	return items
}

func (p *Promotion) itemInTarget(item cart.LineItem) bool {
	filter := p.targetFilter
	switch p.target {
	case TargetSpecificProducts:
		return containsString(filter.ProductIDs, item.ProductID)
	case TargetCategory:
		return containsString(filter.Categories, item.Category)
	case TargetBrand:
		return containsString(filter.Brands, item.Brand)
	case TargetPriceRange:
		if filter.MinPriceCents != nil && item.UnitPriceCents < *filter.MinPriceCents {
			return false
		}
		if filter.MaxPriceCents != nil && item.UnitPriceCents > *filter.MaxPriceCents {
			return false
		}
		return true
	default:
		return true
	}
}

func evaluateRule(rule Rule, ctx cart.Context) (bool, error) {
	switch rule.Field {
	case FieldCartTotal, FieldItemCount, FieldOrderCount, FieldTotalSpent, FieldLoyaltyPoints:
		return evaluateNumericRule(rule, numericField(rule.Field, ctx))
	case FieldCustomerSegment:
		return evaluateStringRule(rule, []string{ctx.CustomerSegment})
	case FieldDeviceType:
		return evaluateStringRule(rule, []string{ctx.DeviceType})
	case FieldCategory:
		return evaluateStringRule(rule, itemValues(ctx.Items, func(li cart.LineItem) string { return li.Category }))
	case FieldBrand:
		return evaluateStringRule(rule, itemValues(ctx.Items, func(li cart.LineItem) string { return li.Brand }))
	default:
		return false, ErrUnknownRuleField
	}
}

func numericField(field Field, ctx cart.Context) int64 {
	switch field {
	case FieldCartTotal:
		return ctx.CartTotalCents
	case FieldItemCount:
		return int64(ctx.ItemCount())
	case FieldOrderCount:
		return int64(ctx.OrderCount)
	case FieldTotalSpent:
		return ctx.TotalSpentCents
	case FieldLoyaltyPoints:
		return int64(ctx.LoyaltyPoints)
	default:
		return 0
	}
}

func evaluateNumericRule(rule Rule, actual int64) (bool, error) {
	switch rule.Operator {
	case OpEq:
		operand, ok := rule.Operand.(NumberOperand)
		if !ok {
			return false, ErrMissingRuleOperand
		}
		return actual == int64(operand), nil
	case OpNe:
		operand, ok := rule.Operand.(NumberOperand)
		if !ok {
			return false, ErrMissingRuleOperand
		}
		return actual != int64(operand), nil
	case OpGt, OpGte, OpLt, OpLte:
		operand, ok := rule.Operand.(NumberOperand)
		if !ok {
			return false, ErrMissingRuleOperand
		}
		return compareNumeric(rule.Operator, actual, int64(operand)), nil
	case OpBetween:
		operand, ok := rule.Operand.(RangeOperand)
		if !ok {
			return false, ErrMissingRuleOperand
		}
		return actual >= operand.Low && actual <= operand.High, nil
	default:
		return false, ErrUnknownOperator
	}
}

func compareNumeric(op Operator, actual, expected int64) bool {
	switch op {
	case OpGt:
		return actual > expected
	case OpGte:
		return actual >= expected
	case OpLt:
		return actual < expected
	default:
		return actual <= expected
	}
}

// evaluateStringRule matches against every candidate value the field yields;
// multi-valued fields (category, brand across items) pass when any item
// satisfies the condition, except nin/ne which must hold for all of them.
func evaluateStringRule(rule Rule, values []string) (bool, error) {
	switch rule.Operator {
	case OpEq, OpContains:
		operand, ok := rule.Operand.(StringOperand)
		if !ok {
			return false, ErrMissingRuleOperand
		}
		for _, v := range values {
			if rule.Operator == OpEq && v == string(operand) {
				return true, nil
			}
			if rule.Operator == OpContains && strings.Contains(v, string(operand)) {
				return true, nil
			}
		}
		return false, nil
	case OpNe:
		operand, ok := rule.Operand.(StringOperand)
		if !ok {
			return false, ErrMissingRuleOperand
		}
		for _, v := range values {
			if v == string(operand) {
				return false, nil
			}
		}
		return true, nil
	case OpIn:
		operand, ok := rule.Operand.(ListOperand)
		if !ok {
			return false, ErrMissingRuleOperand
		}
		for _, v := range values {
			if containsString(operand, v) {
				return true, nil
			}
		}
		return false, nil
	case OpNin:
		operand, ok := rule.Operand.(ListOperand)
		if !ok {
			return false, ErrMissingRuleOperand
		}
		for _, v := range values {
			if containsString(operand, v) {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, ErrUnknownOperator
	}
}

func describeRule(rule Rule) string {
	switch operand := rule.Operand.(type) {
	case NumberOperand:
		return fmt.Sprintf("%s %s %d", rule.Field, rule.Operator, int64(operand))
	case StringOperand:
		return fmt.Sprintf("%s %s %s", rule.Field, rule.Operator, string(operand))
	case ListOperand:
		return fmt.Sprintf("%s %s [%s]", rule.Field, rule.Operator, strings.Join(operand, ","))
	case RangeOperand:
		return fmt.Sprintf("%s %s %d..%d", rule.Field, rule.Operator, operand.Low, operand.High)
	default:
		return fmt.Sprintf("%s %s", rule.Field, rule.Operator)
	}
}

func itemValues(items []cart.LineItem, value func(cart.LineItem) string) []string {
	values := make([]string, 0, len(items))
	for _, item := range items {
		values = append(values, value(item))
	}
	return values
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
