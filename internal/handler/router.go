package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"promo-engine/internal/handler/api"
	"promo-engine/internal/handler/middleware"
	"promo-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, evaluationHandler *api.EvaluationHandler, checkoutHandler *api.CheckoutHandler, authMiddleware *middleware.ServiceAuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, evaluationHandler, checkoutHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, evaluationHandler *api.EvaluationHandler, checkoutHandler *api.CheckoutHandler, authMiddleware *middleware.ServiceAuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		promotions := apiGroup.Group("/promotions")
		{
			addRoutes(promotions, []route{
				{Method: http.MethodPost, Path: "/evaluate", Handler: evaluationHandler.Evaluate},
				{Method: http.MethodPost, Path: "/apply-code", Handler: evaluationHandler.ApplyCode},
			})

			admin := promotions.Group("")
			admin.Use(authMiddleware.RequireScope(middleware.ScopeAdmin))
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/:id/validate", Handler: evaluationHandler.Validate},
			})
		}

		checkout := apiGroup.Group("/checkout")
		checkout.Use(authMiddleware.RequireScope(middleware.ScopeCheckout))
		{
			addRoutes(checkout, []route{
				{Method: http.MethodPost, Path: "/commit", Handler: checkoutHandler.Commit},
				{Method: http.MethodPost, Path: "/release", Handler: checkoutHandler.Release},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
