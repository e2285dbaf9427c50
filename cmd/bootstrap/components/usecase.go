package components

import (
	"promo-engine/internal/pkg/clock"
	"promo-engine/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		usecase.NewEvaluationUseCase,
		usecase.NewCheckoutUseCase,
	),
)
