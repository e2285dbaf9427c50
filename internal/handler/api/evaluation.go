package api

import (
	"errors"
	"net/http"

	reqdto "promo-engine/internal/handler/dto/request"
	resdto "promo-engine/internal/handler/dto/response"
	"promo-engine/internal/handler/httperr"
	"promo-engine/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EvaluationHandler struct {
	evaluationUseCase usecase.EvaluationUseCase
}

func NewEvaluationHandler(evaluationUseCase usecase.EvaluationUseCase) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationUseCase: evaluationUseCase,
	}
}

// @Summary Evaluate cart
// @Description Evaluate all auto-applying promotions against a cart and return the best combination
// @Tags promotions
// @Accept json
// @Produce json
// @Param request body reqdto.EvaluateRequest true "Evaluation context"
// @Success 200 {object} resdto.CombinationResultResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /promotions/evaluate [post]
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	var req reqdto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.evaluationUseCase.Evaluate(c.Request.Context(), req.Context.ToDomain())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCombinationResult(result))
}

// @Summary Apply promotion code
// @Description Apply a manually entered promotion code to a cart
// @Tags promotions
// @Accept json
// @Produce json
// @Param request body reqdto.ApplyCodeRequest true "Code and evaluation context"
// @Success 200 {object} resdto.ApplicationResultResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /promotions/apply-code [post]
func (h *EvaluationHandler) ApplyCode(c *gin.Context) {
	var req reqdto.ApplyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.evaluationUseCase.ApplyCode(c.Request.Context(), req.TrimmedCode(), req.Context.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCode):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Invalid promotion code", nil)
		case errors.Is(err, usecase.ErrPromotionExpired):
			httperr.AbortWithError(c, http.StatusGone, err, "Promotion has expired", nil)
		case errors.Is(err, usecase.ErrNotEligible):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
		case errors.Is(err, usecase.ErrUsageLimitExceeded):
			httperr.AbortWithError(c, http.StatusConflict, err, "Promotion usage limit reached", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromApplicationResult(result))
}

// @Summary Validate promotion
// @Description Check whether a single promotion would apply to a cart, reporting every failing reason
// @Tags promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Promotion ID"
// @Param request body reqdto.ValidateRequest true "Evaluation context"
// @Success 200 {object} resdto.ValidationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /promotions/{id}/validate [post]
func (h *EvaluationHandler) Validate(c *gin.Context) {
	promotionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid promotion ID format", nil)
		return
	}

	var req reqdto.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.evaluationUseCase.Validate(c.Request.Context(), promotionID, req.Context.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPromotionNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Promotion not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromValidationResult(result))
}
