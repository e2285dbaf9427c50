//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"promo-engine/internal/handler/api"
	reqdto "promo-engine/internal/handler/dto/request"
	resdto "promo-engine/internal/handler/dto/response"
	"promo-engine/internal/handler/middleware"
	"promo-engine/internal/usecase"
	"promo-engine/tests/common/httptest"
	"promo-engine/tests/common/testutil"
	usecasemock "promo-engine/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCheckout *usecasemock.MockCheckoutUseCase
	handler      *api.CheckoutHandler
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCheckout = usecasemock.NewMockCheckoutUseCase(s.mockCtrl)
	s.handler = api.NewCheckoutHandler(s.mockCheckout)

	// Mock service authentication for the checkout-scoped routes
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("service_subject", "checkout-service")
		c.Next()
	}

	s.router.POST("/api/checkout/commit", authMiddleware, s.handler.Commit)
	s.router.POST("/api/checkout/release", authMiddleware, s.handler.Release)
}

func (s *CheckoutHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

// ================================================================================
// TestCommit
// ================================================================================

func (s *CheckoutHandlerTestSuite) TestCommit() {
	url := "/api/checkout/commit"
	promotionIDs := []uuid.UUID{uuid.New(), uuid.New()}
	reqBody := reqdto.CommitRequest{
		CustomerID:   "customer-1",
		PromotionIDs: promotionIDs,
	}

	s.Run("success: returns 200 OK with reserved and failed sets", func() {
		s.mockCheckout.EXPECT().Commit(gomock.Any(), "customer-1", promotionIDs).
			Return(&usecase.CommitResult{
				Reserved: promotionIDs[:1],
				Failed: []usecase.FailedReservation{{
					PromotionID: promotionIDs[1],
					Reason:      "usage limit exceeded",
				}},
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "checkout-token")

		var response resdto.CommitResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(promotionIDs[:1], response.Reserved)
		s.Require().Len(response.Failed, 1)
		s.Equal(promotionIDs[1], response.Failed[0].PromotionID)
		s.Equal("usage limit exceeded", response.Failed[0].Reason)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{"missing customer_id", testutil.Field("customer_id", nil)},
			{"missing promotion_ids", testutil.Field("promotion_ids", nil)},
			{"empty promotion_ids", testutil.Field("promotion_ids", []string{})},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "checkout-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 503 Service Unavailable on reservation conflict", func() {
		s.mockCheckout.EXPECT().Commit(gomock.Any(), "customer-1", promotionIDs).
			Return(nil, usecase.ErrConcurrencyConflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "checkout-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "Reservation conflicted")
	})

	s.Run("error: 500 Internal Server Error on infrastructure failure", func() {
		s.mockCheckout.EXPECT().Commit(gomock.Any(), "customer-1", promotionIDs).
			Return(nil, usecase.ErrDatabaseOperationFailed).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "checkout-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestRelease
// ================================================================================

func (s *CheckoutHandlerTestSuite) TestRelease() {
	url := "/api/checkout/release"
	promotionIDs := []uuid.UUID{uuid.New()}
	reqBody := reqdto.ReleaseRequest{
		CustomerID:   "customer-1",
		PromotionIDs: promotionIDs,
	}

	s.Run("success: returns 204 No Content", func() {
		s.mockCheckout.EXPECT().Release(gomock.Any(), "customer-1", promotionIDs).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "checkout-token")
		s.Equal(http.StatusNoContent, rec.Code)
		s.Empty(rec.Body.String())
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 500 Internal Server Error when release fails", func() {
		s.mockCheckout.EXPECT().Release(gomock.Any(), "customer-1", promotionIDs).
			Return(usecase.ErrDatabaseOperationFailed).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "checkout-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
