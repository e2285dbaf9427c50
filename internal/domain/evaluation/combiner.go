package evaluation

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"promo-engine/internal/domain/promotion"
)

// Candidate pairs an eligible, available promotion's result with the
// combination attributes the optimizer needs.
type Candidate struct {
	Result    ApplicationResult
	Policy    promotion.CombinationPolicy
	CreatedAt time.Time
}

// SelectBest chooses the applied subset that maximizes total discount under
// the combination constraints.
//
// Non-combinable promotions are mutually exclusive with everything, so the
// search space collapses: the best achievable outcome is either the single
// strongest exclusive candidate or the largest non-conflicting stack of
// combinable ones. Exclusion lists are small and sparse in practice, so the
// stack is built greedily in deterministic preference order instead of a full
// independent-set search. When the stack and the best exclusive candidate tie
// on discount, the stack wins: several advertised promotions beat one.
func SelectBest(candidates []Candidate, cartTotalCents int64) CombinationResult {
	exclusive := make([]Candidate, 0, len(candidates))
	combinable := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Policy.CanCombineWithOthers {
			combinable = append(combinable, c)
		} else {
			exclusive = append(exclusive, c)
		}
	}

	bestExclusive, hasExclusive := pickBestExclusive(exclusive)
	stack := buildStack(combinable)

	var stackDiscount int64
	for _, c := range stack {
		stackDiscount += c.Result.DiscountCents
	}

	useStack := len(stack) > 0
	if hasExclusive {
		switch {
		case bestExclusive.Result.DiscountCents > stackDiscount:
			useStack = false
		case bestExclusive.Result.DiscountCents == stackDiscount && len(stack) == 0:
			useStack = false
		}
	}

	var selected []Candidate
	if useStack {
		selected = stack
	} else if hasExclusive {
		selected = []Candidate{bestExclusive}
	}

	return assemble(selected, cartTotalCents)
}

func pickBestExclusive(exclusive []Candidate) (Candidate, bool) {
	if len(exclusive) == 0 {
		return Candidate{}, false
	}
	best := exclusive[0]
	for _, c := range exclusive[1:] {
		if preferCandidate(c, best) {
			best = c
		}
	}
	return best, true
}

// buildStack greedily admits combinable candidates in preference order,
// skipping any that conflict (either direction) with one already admitted.
func buildStack(combinable []Candidate) []Candidate {
	ordered := make([]Candidate, len(combinable))
	copy(ordered, combinable)
	sort.SliceStable(ordered, func(i, j int) bool {
		return preferCandidate(ordered[i], ordered[j])
	})

	stack := make([]Candidate, 0, len(ordered))
	for _, c := range ordered {
		if conflictsWithAny(c, stack) {
			continue
		}
		stack = append(stack, c)
	}
	return stack
}

func conflictsWithAny(c Candidate, chosen []Candidate) bool {
	for _, other := range chosen {
		if conflicts(c, other) {
			return true
		}
	}
	return false
}

func conflicts(a, b Candidate) bool {
	return a.Policy.Excludes(b.Result.PromotionID) || b.Policy.Excludes(a.Result.PromotionID)
}

// preferCandidate orders by discount, then priority, then creation time, then
// id so that evaluation stays deterministic for identical inputs.
func preferCandidate(a, b Candidate) bool {
	if a.Result.DiscountCents != b.Result.DiscountCents {
		return a.Result.DiscountCents > b.Result.DiscountCents
	}
	if a.Policy.Priority != b.Policy.Priority {
		return a.Policy.Priority > b.Policy.Priority
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return lessUUID(a.Result.PromotionID, b.Result.PromotionID)
}

func lessUUID(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func assemble(selected []Candidate, cartTotalCents int64) CombinationResult {
	result := CombinationResult{
		Applied:            make([]ApplicationResult, 0, len(selected)),
		OriginalTotalCents: cartTotalCents,
		FinalTotalCents:    cartTotalCents,
	}

	for _, c := range selected {
		result.Applied = append(result.Applied, c.Result)
		result.TotalDiscountCents += c.Result.DiscountCents
		if c.Result.FreeShipping {
			result.FreeShipping = true
		}
	}

	if result.TotalDiscountCents > cartTotalCents {
		result.TotalDiscountCents = cartTotalCents
	}
	result.FinalTotalCents = cartTotalCents - result.TotalDiscountCents
	return result
}
