package components

import (
	"promo-engine/internal/handler"
	"promo-engine/internal/handler/api"
	"promo-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewEvaluationHandler,
		api.NewCheckoutHandler,
		middleware.NewServiceAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
