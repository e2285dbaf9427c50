//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"promo-engine/internal/domain/evaluation"
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

type EvaluationHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockCtrl       *gomock.Controller
	mockEvaluation *usecasemock.MockEvaluationUseCase
	handler        *api.EvaluationHandler
}

func (s *EvaluationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockEvaluation = usecasemock.NewMockEvaluationUseCase(s.mockCtrl)
	s.handler = api.NewEvaluationHandler(s.mockEvaluation)

	// Mock service authentication for the admin-scoped route
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("service_subject", "admin-console")
		c.Next()
	}

	s.router.POST("/api/promotions/evaluate", s.handler.Evaluate)
	s.router.POST("/api/promotions/apply-code", s.handler.ApplyCode)
	s.router.POST("/api/promotions/:id/validate", authMiddleware, s.handler.Validate)
}

func (s *EvaluationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestEvaluationHandlerSuite(t *testing.T) {
	suite.Run(t, new(EvaluationHandlerTestSuite))
}

func evaluationRequestBody() reqdto.EvaluateRequest {
	return reqdto.EvaluateRequest{
		Context: reqdto.EvaluationContextRequest{
			CustomerID: "customer-1",
			Items: []reqdto.LineItemRequest{
				{ProductID: "sneaker", Quantity: 2, UnitPriceCents: 5000, Category: "shoes"},
			},
		},
	}
}

// ================================================================================
// TestEvaluate
// ================================================================================

func (s *EvaluationHandlerTestSuite) TestEvaluate() {
	url := "/api/promotions/evaluate"
	reqBody := evaluationRequestBody()

	s.Run("success: returns 200 OK with combination result", func() {
		promoID := uuid.New()
		s.mockEvaluation.EXPECT().Evaluate(gomock.Any(), gomock.Any()).
			Return(&evaluation.CombinationResult{
				Applied: []evaluation.ApplicationResult{{
					PromotionID:   promoID,
					PromotionName: "ten off",
					Applied:       true,
					DiscountCents: 1000,
					OriginalCents: 10000,
					FinalCents:    9000,
				}},
				TotalDiscountCents: 1000,
				OriginalTotalCents: 10000,
				FinalTotalCents:    9000,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.CombinationResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response.Applied, 1)
		s.Equal(promoID, response.Applied[0].PromotionID)
		s.Equal(int64(1000), response.TotalDiscountCents)
		s.Equal(int64(9000), response.FinalTotalCents)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{"missing context", testutil.Field("context", nil)},
			{
				"missing customer_id",
				func(m map[string]any) { delete(m["context"].(map[string]any), "customer_id") },
			},
			{
				"zero quantity",
				func(m map[string]any) {
					items := m["context"].(map[string]any)["items"].([]any)
					items[0].(map[string]any)["quantity"] = 0
				},
			},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 500 Internal Server Error when evaluation fails", func() {
		s.mockEvaluation.EXPECT().Evaluate(gomock.Any(), gomock.Any()).
			Return(nil, usecase.ErrDatabaseOperationFailed).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestApplyCode
// ================================================================================

func (s *EvaluationHandlerTestSuite) TestApplyCode() {
	url := "/api/promotions/apply-code"
	reqBody := reqdto.ApplyCodeRequest{
		Code:    "SUMMER20",
		Context: evaluationRequestBody().Context,
	}

	s.Run("success: returns 200 OK with application result", func() {
		promoID := uuid.New()
		s.mockEvaluation.EXPECT().ApplyCode(gomock.Any(), "SUMMER20", gomock.Any()).
			Return(&evaluation.ApplicationResult{
				PromotionID:   promoID,
				PromotionName: "summer sale",
				Code:          "SUMMER20",
				Applied:       true,
				DiscountCents: 2000,
				OriginalCents: 10000,
				FinalCents:    8000,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.ApplicationResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(promoID, response.PromotionID)
		s.Equal("SUMMER20", response.Code)
		s.Equal(int64(2000), response.DiscountCents)
	})

	s.Run("error: 400 Bad Request when code is missing", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("code", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name           string
			usecaseError   error
			expectedStatus int
			expectedMsg    string
		}{
			{"invalid code", usecase.ErrInvalidCode, http.StatusNotFound, "Invalid promotion code"},
			{"expired promotion", usecase.ErrPromotionExpired, http.StatusGone, "Promotion has expired"},
			{"not eligible", usecase.ErrNotEligible, http.StatusUnprocessableEntity, "not eligible"},
			{"usage exhausted", usecase.ErrUsageLimitExceeded, http.StatusConflict, "Promotion usage limit reached"},
			{"infrastructure failure", usecase.ErrDatabaseOperationFailed, http.StatusInternalServerError, "Internal server error"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockEvaluation.EXPECT().ApplyCode(gomock.Any(), "SUMMER20", gomock.Any()).
					Return(nil, tc.usecaseError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestValidate
// ================================================================================

func (s *EvaluationHandlerTestSuite) TestValidate() {
	promotionID := uuid.New()
	url := "/api/promotions/" + promotionID.String() + "/validate"
	reqBody := reqdto.ValidateRequest{Context: evaluationRequestBody().Context}

	s.Run("success: returns 200 OK with validation result", func() {
		s.mockEvaluation.EXPECT().Validate(gomock.Any(), promotionID, gomock.Any()).
			Return(&usecase.ValidationResult{Valid: false, Reasons: []string{"promotion has expired"}}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "admin-token")

		var response resdto.ValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.False(response.Valid)
		s.Equal([]string{"promotion has expired"}, response.Reasons)
	})

	s.Run("success: a valid promotion reports empty reasons", func() {
		s.mockEvaluation.EXPECT().Validate(gomock.Any(), promotionID, gomock.Any()).
			Return(&usecase.ValidationResult{Valid: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "admin-token")

		var response resdto.ValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Valid)
		s.Equal([]string{}, response.Reasons)
	})

	s.Run("error: 400 Bad Request on malformed promotion id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/promotions/not-a-uuid/validate", reqBody, "admin-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid promotion ID format")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 404 Not Found for unknown promotion", func() {
		s.mockEvaluation.EXPECT().Validate(gomock.Any(), promotionID, gomock.Any()).
			Return(nil, usecase.ErrPromotionNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "admin-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Promotion not found")
	})
}
