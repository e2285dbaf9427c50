package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"promo-engine/internal/domain/cart"
	"promo-engine/internal/domain/evaluation"
	"promo-engine/internal/domain/promotion"
	"promo-engine/internal/infra"
	"promo-engine/internal/pkg/clock"
	"promo-engine/internal/pkg/errs"
	"promo-engine/internal/usecase/shared"
)

// evaluationParallelism caps the per-promotion fanout. Promotions are
// independent until combination, so they are scored concurrently.
const evaluationParallelism = 8

type ValidationResult struct {
	Valid   bool
	Reasons []string
}

type EvaluationUseCase interface {
	Evaluate(ctx context.Context, cartCtx cart.Context) (*evaluation.CombinationResult, error)
	ApplyCode(ctx context.Context, code string, cartCtx cart.Context) (*evaluation.ApplicationResult, error)
	Validate(ctx context.Context, promotionID uuid.UUID, cartCtx cart.Context) (*ValidationResult, error)
}

type evaluationUseCaseImpl struct {
	promotions shared.PromotionStore
	usage      shared.UsageStore
	clock      clock.Clock
}

func NewEvaluationUseCase(
	promotions shared.PromotionStore,
	usage shared.UsageStore,
	clock clock.Clock,
) EvaluationUseCase {
	return &evaluationUseCaseImpl{
		promotions: promotions,
		usage:      usage,
		clock:      clock,
	}
}

// Evaluate scores every auto-applying promotion against the cart and returns
// the best non-conflicting applied set. Pure read path: usage counters are
// only inspected, never consumed.
func (u *evaluationUseCaseImpl) Evaluate(ctx context.Context, cartCtx cart.Context) (*evaluation.CombinationResult, error) {
	cartCtx = u.normalize(cartCtx)

	snapshots, err := u.promotions.ListActive(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	candidates, err := u.collectCandidates(ctx, snapshots, cartCtx, func(snap *shared.PromotionSnapshot) bool {
		return snap.Trigger != string(promotion.TriggerManualCode)
	})
	if err != nil {
		return nil, err
	}

	result := evaluation.SelectBest(candidates, cartCtx.CartTotalCents)
	return &result, nil
}

// ApplyCode resolves a manually entered code and admits it into the same
// combination pool as the automatic promotions. A valid, eligible code can
// still lose to the current set if it conflicts with it.
func (u *evaluationUseCaseImpl) ApplyCode(ctx context.Context, rawCode string, cartCtx cart.Context) (*evaluation.ApplicationResult, error) {
	cartCtx = u.normalize(cartCtx)

	code, err := promotion.NewCode(rawCode)
	if err != nil {
		return nil, ErrInvalidCode
	}

	snap, err := u.promotions.FindByCode(ctx, code.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	entity, err := assemblePromotion(snap)
	if err != nil {
		// Configuration problems stay internal; the shopper just sees a
		// code that does not work.
		slog.Warn("promotion excluded from apply-code: invalid configuration",
			"promotion_id", snap.ID, "error", err.Error())
		return nil, ErrInvalidCode
	}

	if entity.Trigger() != promotion.TriggerManualCode {
		return nil, ErrInvalidCode
	}
	if !entity.IsActive() || entity.IsDraft() {
		return nil, ErrInvalidCode
	}

	now := cartCtx.Now
	if entity.IsExpiredAt(now) {
		return nil, ErrPromotionExpired
	}
	if !entity.Schedule().IsOpenAt(now) {
		return nil, errs.Wrap(ErrNotEligible, "promotion schedule is not currently open")
	}

	outcome := entity.EvaluateRules(cartCtx)
	if !outcome.Eligible {
		return nil, errs.Wrap(ErrNotEligible, outcome.Reason)
	}

	if entity.Usage().GloballyExhausted() {
		return nil, ErrUsageLimitExceeded
	}
	available, err := u.usage.CheckAvailable(ctx, usageCheckFor(entity, cartCtx.CustomerID))
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !available {
		return nil, ErrUsageLimitExceeded
	}

	codeCandidate := buildCandidate(entity, cartCtx, outcome.MatchedRules)

	snapshots, err := u.promotions.ListActive(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	candidates, err := u.collectCandidates(ctx, snapshots, cartCtx, func(other *shared.PromotionSnapshot) bool {
		return other.Trigger != string(promotion.TriggerManualCode) && other.ID != snap.ID
	})
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, codeCandidate)

	combined := evaluation.SelectBest(candidates, cartCtx.CartTotalCents)
	for i := range combined.Applied {
		if combined.Applied[i].PromotionID == entity.ID() {
			return &combined.Applied[i], nil
		}
	}
	return nil, errs.Wrap(ErrNotEligible, "code conflicts with promotions already applied to this cart")
}

// Validate runs the schedule, rule, and usage checks for one promotion and
// reports every failing reason. No rewards are computed; this backs the admin
// preview tooling.
func (u *evaluationUseCaseImpl) Validate(ctx context.Context, promotionID uuid.UUID, cartCtx cart.Context) (*ValidationResult, error) {
	cartCtx = u.normalize(cartCtx)

	snap, err := u.promotions.FindByID(ctx, promotionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	entity, err := assemblePromotion(snap)
	if err != nil {
		slog.Warn("promotion failed validation: invalid configuration",
			"promotion_id", snap.ID, "error", err.Error())
		return &ValidationResult{Reasons: []string{"promotion configuration is invalid"}}, nil
	}

	var reasons []string
	if !entity.IsActive() {
		reasons = append(reasons, "promotion is not active")
	}
	if entity.IsDraft() {
		reasons = append(reasons, "promotion is still a draft")
	}

	now := cartCtx.Now
	switch {
	case entity.Schedule().NotYetStartedAt(now):
		reasons = append(reasons, "promotion has not started yet")
	case entity.IsExpiredAt(now):
		reasons = append(reasons, "promotion has expired")
	case !entity.Schedule().IsOpenAt(now):
		reasons = append(reasons, "promotion schedule is not currently open")
	}

	if outcome := entity.EvaluateRules(cartCtx); !outcome.Eligible {
		reasons = append(reasons, outcome.Reason)
	}

	if entity.Usage().GloballyExhausted() {
		reasons = append(reasons, "promotion usage limit reached")
	} else {
		available, err := u.usage.CheckAvailable(ctx, usageCheckFor(entity, cartCtx.CustomerID))
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !available {
			reasons = append(reasons, "promotion usage limit reached for this customer")
		}
	}

	return &ValidationResult{Valid: len(reasons) == 0, Reasons: reasons}, nil
}

// collectCandidates fans the per-promotion pipeline out over the snapshot
// list. A promotion that fails any gate simply yields no candidate; a broken
// configuration is logged and isolated so it never aborts the others.
func (u *evaluationUseCaseImpl) collectCandidates(
	ctx context.Context,
	snapshots []*shared.PromotionSnapshot,
	cartCtx cart.Context,
	include func(*shared.PromotionSnapshot) bool,
) ([]evaluation.Candidate, error) {
	slots := make([]*evaluation.Candidate, len(snapshots))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(evaluationParallelism)

	for i, snap := range snapshots {
		if !include(snap) {
			continue
		}
		group.Go(func() error {
			candidate, err := u.evaluateOne(groupCtx, snap, cartCtx)
			if err != nil {
				return err
			}
			slots[i] = candidate
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]evaluation.Candidate, 0, len(snapshots))
	for _, slot := range slots {
		if slot != nil {
			candidates = append(candidates, *slot)
		}
	}
	return candidates, nil
}

// evaluateOne runs the full gate sequence for a single promotion. Returning
// (nil, nil) means "not a candidate"; an error only escapes for
// infrastructure failures.
func (u *evaluationUseCaseImpl) evaluateOne(ctx context.Context, snap *shared.PromotionSnapshot, cartCtx cart.Context) (*evaluation.Candidate, error) {
	entity, err := assemblePromotion(snap)
	if err != nil {
		slog.Warn("promotion excluded from evaluation: invalid configuration",
			"promotion_id", snap.ID, "name", snap.Name, "error", err.Error())
		return nil, nil
	}

	if !entity.IsApplicableAt(cartCtx.Now) {
		return nil, nil
	}

	outcome := entity.EvaluateRules(cartCtx)
	if !outcome.Eligible {
		return nil, nil
	}

	available, err := u.usage.CheckAvailable(ctx, usageCheckFor(entity, cartCtx.CustomerID))
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !available {
		return nil, nil
	}

	candidate := buildCandidate(entity, cartCtx, outcome.MatchedRules)
	return &candidate, nil
}

func buildCandidate(entity *promotion.Promotion, cartCtx cart.Context, matchedRules []string) evaluation.Candidate {
	matching := entity.MatchingItems(cartCtx)
	reward := entity.ComputeReward(cartCtx, matching)
	base := entity.RewardBase(cartCtx, matching)

	return evaluation.Candidate{
		Result:    evaluation.NewApplicationResult(entity, base, reward, matchedRules),
		Policy:    entity.Combination(),
		CreatedAt: entity.CreatedAt(),
	}
}

func usageCheckFor(entity *promotion.Promotion, customerID string) shared.UsageCheck {
	return shared.UsageCheck{
		PromotionID:      entity.ID(),
		CustomerID:       customerID,
		Limit:            entity.Usage().Limit,
		LimitPerCustomer: entity.Usage().LimitPerCustomer,
	}
}

func (u *evaluationUseCaseImpl) normalize(cartCtx cart.Context) cart.Context {
	if cartCtx.Now.IsZero() {
		cartCtx.Now = u.clock.Now()
	}
	return cartCtx
}
