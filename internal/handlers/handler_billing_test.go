package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/billing"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/dto"
	"github.com/harborlaw/legal_billing_app/internal/handlers"
	"github.com/harborlaw/legal_billing_app/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock BillingService ---
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) UnbilledSummary(ctx context.Context, clientID string, period billing.Period) (*domain.ClientSummary, error) {
	args := m.Called(ctx, clientID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientSummary), args.Error(1)
}

func (m *MockBillingService) ComputeDraft(ctx context.Context, clientID string, period billing.Period, draft billing.Draft) (*domain.Totals, []domain.EffectiveLine, error) {
	args := m.Called(ctx, clientID, period, draft)
	var totals *domain.Totals
	if args.Get(0) != nil {
		totals = args.Get(0).(*domain.Totals)
	}
	var lines []domain.EffectiveLine
	if args.Get(1) != nil {
		lines = args.Get(1).([]domain.EffectiveLine)
	}
	return totals, lines, args.Error(2)
}

func (m *MockBillingService) ExportUnbilledSummary(ctx context.Context, clientID string, period billing.Period) ([]byte, string, error) {
	args := m.Called(ctx, clientID, period)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.BillingSvcFacade = (*MockBillingService)(nil)

// --- Test Suite ---
type BillingHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockBillingService *MockBillingService
	jwtSecret          string
}

func (suite *BillingHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "lba-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *BillingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockBillingService = new(MockBillingService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterBillingRoutes(v1, suite.mockBillingService)
}

func (suite *BillingHandlerTestSuite) authedRequest(method, url string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString()))
	req.Header.Set("Accept", "application/json")
	return req
}

// --- Test Cases ---

func (suite *BillingHandlerTestSuite) TestUnbilledSummary_Success() {
	clientID := uuid.NewString()
	oldest := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)

	expected := &domain.ClientSummary{
		ClientID:        clientID,
		TotalHours:      decimal.RequireFromString("6.5"),
		TotalAmount:     decimal.RequireFromString("1300"),
		EntryCount:      4,
		OldestEntryDate: &oldest,
		Cases: []domain.CaseGroup{
			{CaseID: "case-a", CaseNumber: "2026-017", TotalHours: decimal.RequireFromString("4"), TotalAmount: decimal.RequireFromString("800"), EntryCount: 2},
			{CaseID: domain.NoCaseKey, TotalHours: decimal.RequireFromString("2.5"), TotalAmount: decimal.RequireFromString("500"), EntryCount: 2},
		},
	}

	suite.mockBillingService.On("UnbilledSummary",
		mock.Anything,
		clientID,
		mock.MatchedBy(func(p billing.Period) bool {
			return p.Kind == billing.PeriodAll
		}),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/clients/%s/unbilled-summary", clientID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, url, nil))

	suite.Equal(http.StatusOK, w.Code)

	var responseBody dto.UnbilledSummaryResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Equal(clientID, responseBody.ClientID)
	suite.Equal(4, responseBody.EntryCount)
	suite.Len(responseBody.Cases, 2)
	suite.True(responseBody.TotalAmount.Equal(decimal.RequireFromString("1300")))

	suite.mockBillingService.AssertExpectations(suite.T())
}

func (suite *BillingHandlerTestSuite) TestUnbilledSummary_CustomPeriod() {
	clientID := uuid.NewString()

	suite.mockBillingService.On("UnbilledSummary",
		mock.Anything,
		clientID,
		mock.MatchedBy(func(p billing.Period) bool {
			return p.Kind == billing.PeriodCustom &&
				p.Start.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)) &&
				p.End.Equal(time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC))
		}),
	).Return(&domain.ClientSummary{ClientID: clientID}, nil).Once()

	url := fmt.Sprintf("/api/v1/clients/%s/unbilled-summary?period=CUSTOM&startDate=2026-01-01&endDate=2026-01-31", clientID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, url, nil))

	suite.Equal(http.StatusOK, w.Code)
	suite.mockBillingService.AssertExpectations(suite.T())
}

func (suite *BillingHandlerTestSuite) TestUnbilledSummary_InvalidCustomDates() {
	clientID := uuid.NewString()

	url := fmt.Sprintf("/api/v1/clients/%s/unbilled-summary?period=CUSTOM&startDate=2026-02-01&endDate=2026-01-01", clientID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, url, nil))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockBillingService.AssertNotCalled(suite.T(), "UnbilledSummary", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillingHandlerTestSuite) TestUnbilledSummary_ClientNotFound() {
	clientID := uuid.NewString()

	suite.mockBillingService.On("UnbilledSummary", mock.Anything, clientID, mock.Anything).
		Return(nil, apperrors.NewAppError(404, "client not found", apperrors.ErrNotFound)).Once()

	url := fmt.Sprintf("/api/v1/clients/%s/unbilled-summary", clientID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, url, nil))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *BillingHandlerTestSuite) TestUnbilledSummary_Unauthenticated() {
	clientID := uuid.NewString()

	url := fmt.Sprintf("/api/v1/clients/%s/unbilled-summary", clientID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockBillingService.AssertNotCalled(suite.T(), "UnbilledSummary", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillingHandlerTestSuite) TestComputeDraftTotals_Success() {
	clientID := uuid.NewString()

	adjustedHours := decimal.RequireFromString("1.5")
	requestBody, err := json.Marshal(dto.ComputeDraftRequest{
		SelectedEntryIDs: []string{"e2", "e1"},
		Adjustments: map[string]dto.LineItemAdjustmentDTO{
			"e1": {AdjustedHours: &adjustedHours},
		},
		ManualItems: []dto.ManualLineItemDTO{
			{Description: "Filing fee", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(75)},
		},
	})
	suite.Require().NoError(err)

	expectedTotals := &domain.Totals{
		OriginalTotal:    decimal.RequireFromString("500"),
		TotalTimeAmount:  decimal.RequireFromString("450"),
		TotalHours:       decimal.RequireFromString("4.5"),
		FinalTotal:       decimal.RequireFromString("450"),
		ManualItemsTotal: decimal.RequireFromString("75"),
		GrandTotal:       decimal.RequireFromString("525"),
	}
	expectedLines := []domain.EffectiveLine{
		{EntryID: "e2", Hours: decimal.RequireFromString("3"), Amount: decimal.RequireFromString("300")},
		{EntryID: "e1", Hours: decimal.RequireFromString("1.5"), Amount: decimal.RequireFromString("150")},
	}

	suite.mockBillingService.On("ComputeDraft",
		mock.Anything,
		clientID,
		mock.MatchedBy(func(p billing.Period) bool { return p.Kind == billing.PeriodAll }),
		mock.MatchedBy(func(d billing.Draft) bool {
			return len(d.SelectedEntryIDs) == 2 && d.SelectedEntryIDs[0] == "e2" &&
				d.Adjustments["e1"].AdjustedHours != nil &&
				len(d.ManualItems) == 1
		}),
	).Return(expectedTotals, expectedLines, nil).Once()

	url := fmt.Sprintf("/api/v1/clients/%s/invoice-drafts/totals", clientID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, requestBody))

	suite.Equal(http.StatusOK, w.Code)

	var responseBody dto.ComputeDraftResponse
	err = json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.True(responseBody.Totals.GrandTotal.Equal(decimal.RequireFromString("525")))
	suite.Len(responseBody.Lines, 2)
	suite.Equal("e2", responseBody.Lines[0].EntryID)

	suite.mockBillingService.AssertExpectations(suite.T())
}

func (suite *BillingHandlerTestSuite) TestComputeDraftTotals_NegativeFiguresRejected() {
	clientID := uuid.NewString()

	negativeAmount := decimal.RequireFromString("-500")
	requestBody, err := json.Marshal(dto.ComputeDraftRequest{
		SelectedEntryIDs: []string{"e1"},
		Adjustments: map[string]dto.LineItemAdjustmentDTO{
			"e1": {AdjustedAmount: &negativeAmount},
		},
	})
	suite.Require().NoError(err)

	url := fmt.Sprintf("/api/v1/clients/%s/invoice-drafts/totals", clientID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, requestBody))

	suite.Equal(http.StatusBadRequest, w.Code)

	var errBody map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &errBody))
	suite.Contains(errBody["error"], "must not be negative")
	suite.mockBillingService.AssertNotCalled(suite.T(), "ComputeDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillingHandlerTestSuite) TestComputeDraftTotals_UnbillableEntry() {
	clientID := uuid.NewString()

	requestBody, err := json.Marshal(dto.ComputeDraftRequest{
		SelectedEntryIDs: []string{"e-gone"},
	})
	suite.Require().NoError(err)

	suite.mockBillingService.On("ComputeDraft", mock.Anything, clientID, mock.Anything, mock.Anything).
		Return(nil, nil, apperrors.NewAppError(400, "entry e-gone is not billable for this client and period", apperrors.ErrValidation)).Once()

	url := fmt.Sprintf("/api/v1/clients/%s/invoice-drafts/totals", clientID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, requestBody))

	suite.Equal(http.StatusBadRequest, w.Code)

	var errBody map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &errBody))
	suite.Contains(errBody["error"], "e-gone")
}

func (suite *BillingHandlerTestSuite) TestExportUnbilledSummary_Success() {
	clientID := uuid.NewString()
	content := []byte("PK\x03\x04 fake workbook")

	suite.mockBillingService.On("ExportUnbilledSummary", mock.Anything, clientID, mock.Anything).
		Return(content, "unbilled-demo.xlsx", nil).Once()

	url := fmt.Sprintf("/api/v1/clients/%s/unbilled-summary/export", clientID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, url, nil))

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "unbilled-demo.xlsx")
	suite.Equal(content, w.Body.Bytes())
}

// --- Run Test Suite ---
func TestBillingHandler(t *testing.T) {
	suite.Run(t, new(BillingHandlerTestSuite))
}
