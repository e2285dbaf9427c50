//go:build e2e

package promotion_test

import (
	"net/http"
	"testing"
	"time"

	dompromo "promo-engine/internal/domain/promotion"
	"promo-engine/internal/handler/dto/request"
	"promo-engine/internal/handler/dto/response"
	"promo-engine/internal/handler/middleware"
	"promo-engine/internal/pkg/jwt"
	"promo-engine/tests/common/builder"
	"promo-engine/tests/common/dbtest"
	"promo-engine/tests/common/httptest"
	"promo-engine/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	evaluateURL  = "/api/promotions/evaluate"
	applyCodeURL = "/api/promotions/apply-code"
)

// Fixed evaluation instant inside every builder default schedule.
var evaluatedAt = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type PromotionSuite struct {
	e2e.SharedSuite
}

func (s *PromotionSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestPromotionSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PromotionSuite))
}

func evaluationContext(cartTotalCents int64) request.EvaluationContextRequest {
	at := evaluatedAt
	return request.EvaluationContextRequest{
		CustomerID: "customer-1",
		Items: []request.LineItemRequest{
			{ProductID: "sneaker", Quantity: 1, UnitPriceCents: cartTotalCents, Category: "shoes"},
		},
		EvaluatedAt: &at,
	}
}

func ruleCartTotalAtLeast(cents int64) dompromo.Rule {
	return dompromo.Rule{
		Field:    dompromo.FieldCartTotal,
		Operator: dompromo.OpGte,
		Operand:  dompromo.NumberOperand(cents),
	}
}

func (s *PromotionSuite) adminToken() string {
	t := s.T()
	duration, err := time.ParseDuration(s.Config.JWT.Duration)
	require.NoError(t, err)
	token, err := jwt.NewService(s.Config.JWT.Secret, duration).GenerateToken("admin-console", middleware.ScopeAdmin)
	require.NoError(t, err)
	return token
}

// =============================================================================
// TestEvaluate - Cart evaluation API tests
// =============================================================================

func (s *PromotionSuite) TestEvaluate() {
	s.Run("Normal case: combinable promotions stack", func() {
		t := s.T()

		ten := builder.NewPromotionBuilder().WithName("ten off").WithPercent(10).BuildSnapshot()
		five := builder.NewPromotionBuilder().WithName("five off").WithPercent(5).BuildSnapshot()
		dbtest.InsertPromotion(t, s.DB, ten)
		dbtest.InsertPromotion(t, s.DB, five)

		reqBody := request.EvaluateRequest{Context: evaluationContext(10000)}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, evaluateURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result response.CombinationResultResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &result))
		require.Len(t, result.Applied, 2)
		require.Equal(t, int64(1500), result.TotalDiscountCents)
		require.Equal(t, int64(8500), result.FinalTotalCents)
	})

	s.Run("Normal case: a stronger exclusive promotion wins alone", func() {
		t := s.T()

		small := builder.NewPromotionBuilder().WithName("small").WithPercent(5).BuildSnapshot()
		exclusive := builder.NewPromotionBuilder().WithName("mega sale").WithPercent(50).AsExclusive().BuildSnapshot()
		dbtest.InsertPromotion(t, s.DB, small)
		dbtest.InsertPromotion(t, s.DB, exclusive)

		reqBody := request.EvaluateRequest{Context: evaluationContext(10000)}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, evaluateURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result response.CombinationResultResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &result))
		require.Len(t, result.Applied, 1)
		require.Equal(t, exclusive.ID, result.Applied[0].PromotionID)
		require.Equal(t, int64(5000), result.TotalDiscountCents)
	})

	s.Run("Normal case: an exhausted promotion is skipped", func() {
		t := s.T()

		limited := builder.NewPromotionBuilder().WithName("limited").WithUsageLimit(1).BuildSnapshot()
		dbtest.InsertPromotion(t, s.DB, limited)
		dbtest.SetUsedCount(t, s.DB, limited.ID, 1)

		reqBody := request.EvaluateRequest{Context: evaluationContext(10000)}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, evaluateURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result response.CombinationResultResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &result))
		require.Empty(t, result.Applied)
		require.Equal(t, int64(10000), result.FinalTotalCents)
	})

	s.Run("Error case: malformed request is rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, evaluateURL, map[string]any{"context": map[string]any{}}, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =============================================================================
// TestApplyCode - Manual code application API tests
// =============================================================================

func (s *PromotionSuite) TestApplyCode() {
	s.Run("Normal case: a valid code applies", func() {
		t := s.T()

		coded := builder.NewPromotionBuilder().WithName("summer sale").WithCode("SUMMER20").WithPercent(20).BuildSnapshot()
		dbtest.InsertPromotion(t, s.DB, coded)

		reqBody := request.ApplyCodeRequest{Code: "summer20", Context: evaluationContext(10000)}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, applyCodeURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result response.ApplicationResultResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &result))
		require.Equal(t, coded.ID, result.PromotionID)
		require.Equal(t, "SUMMER20", result.Code)
		require.True(t, result.Applied)
		require.Equal(t, int64(2000), result.DiscountCents)
	})

	s.Run("Error case: unknown code returns 404", func() {
		t := s.T()

		reqBody := request.ApplyCodeRequest{Code: "NOSUCHCODE", Context: evaluationContext(10000)}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, applyCodeURL, reqBody, "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Error case: expired code returns 410", func() {
		t := s.T()

		expired := builder.NewPromotionBuilder().
			WithCode("OLDCODE").
			WithSchedule(
				time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
				"UTC",
			).
			BuildSnapshot()
		dbtest.InsertPromotion(t, s.DB, expired)

		reqBody := request.ApplyCodeRequest{Code: "OLDCODE", Context: evaluationContext(10000)}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, applyCodeURL, reqBody, "")
		require.Equal(t, http.StatusGone, w.Code)
	})

	s.Run("Error case: ineligible cart returns 422", func() {
		t := s.T()

		coded := builder.NewPromotionBuilder().
			WithCode("BIGSPENDER").
			WithRules(ruleCartTotalAtLeast(50000)).
			BuildSnapshot()
		dbtest.InsertPromotion(t, s.DB, coded)

		reqBody := request.ApplyCodeRequest{Code: "BIGSPENDER", Context: evaluationContext(10000)}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, applyCodeURL, reqBody, "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

// =============================================================================
// TestValidate - Admin validation API tests
// =============================================================================

func (s *PromotionSuite) TestValidate() {
	s.Run("Normal case: reports failing reasons", func() {
		t := s.T()

		draft := builder.NewPromotionBuilder().AsDraft().BuildSnapshot()
		dbtest.InsertPromotion(t, s.DB, draft)

		reqBody := request.ValidateRequest{Context: evaluationContext(10000)}
		url := "/api/promotions/" + draft.ID.String() + "/validate"
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, reqBody, s.adminToken())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result response.ValidationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &result))
		require.False(t, result.Valid)
		require.Contains(t, result.Reasons, "promotion is still a draft")
	})

	s.Run("Error case: requires a service token", func() {
		t := s.T()

		reqBody := request.ValidateRequest{Context: evaluationContext(10000)}
		url := "/api/promotions/" + uuid.New().String() + "/validate"
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, reqBody, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("Error case: unknown promotion returns 404", func() {
		t := s.T()

		reqBody := request.ValidateRequest{Context: evaluationContext(10000)}
		url := "/api/promotions/" + uuid.New().String() + "/validate"
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, reqBody, s.adminToken())
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
