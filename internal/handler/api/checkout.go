package api

import (
	"errors"
	"net/http"

	reqdto "promo-engine/internal/handler/dto/request"
	resdto "promo-engine/internal/handler/dto/response"
	"promo-engine/internal/handler/httperr"
	"promo-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutUseCase usecase.CheckoutUseCase
}

func NewCheckoutHandler(checkoutUseCase usecase.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUseCase: checkoutUseCase,
	}
}

// @Summary Commit promotion usage
// @Description Reserve one usage unit per applied promotion for a placed order
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CommitRequest true "Commit request"
// @Success 200 {object} resdto.CommitResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /checkout/commit [post]
func (h *CheckoutHandler) Commit(c *gin.Context) {
	var req reqdto.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.checkoutUseCase.Commit(c.Request.Context(), req.CustomerID, req.PromotionIDs)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrConcurrencyConflict):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Reservation conflicted, retry the request", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCommitResult(result))
}

// @Summary Release promotion usage
// @Description Give back usage units reserved for a cancelled order
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReleaseRequest true "Release request"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /checkout/release [post]
func (h *CheckoutHandler) Release(c *gin.Context) {
	var req reqdto.ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.checkoutUseCase.Release(c.Request.Context(), req.CustomerID, req.PromotionIDs); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.Status(http.StatusNoContent)
}
