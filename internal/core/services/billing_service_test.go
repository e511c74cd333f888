package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/billing"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BillingServiceTestSuite struct {
	suite.Suite
	mockEntryRepo  *MockTimeEntryRepository
	mockClientRepo *MockClientRepository
	mockCaseRepo   *MockCaseRepository
	service        portssvc.BillingSvcFacade
	ctx            context.Context
}

func (suite *BillingServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockTimeEntryRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockCaseRepo = new(MockCaseRepository)
	suite.service = services.NewBillingService(suite.mockEntryRepo, suite.mockClientRepo, suite.mockCaseRepo)
	suite.ctx = context.Background()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func workDay(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func (suite *BillingServiceTestSuite) stubClient(clientID string) {
	suite.mockClientRepo.On("FindClientByID", suite.ctx, clientID).
		Return(&domain.Client{ClientID: clientID, Name: "Acme Corp", HourlyRate: dec("200"), IsActive: true}, nil)
}

func (suite *BillingServiceTestSuite) TestUnbilledSummaryGroupsByCase() {
	caseA := "case-a"
	entries := []domain.TimeEntry{
		{EntryID: "e1", ClientID: "client-1", CaseID: &caseA, Hours: dec("2"), Rate: dec("100"), WorkDate: workDay(3)},
		{EntryID: "e2", ClientID: "client-1", CaseID: &caseA, Hours: dec("1.5"), Rate: dec("100"), WorkDate: workDay(5)},
		{EntryID: "e3", ClientID: "client-1", Hours: dec("1"), Rate: dec("250"), WorkDate: workDay(1)},
	}

	suite.stubClient("client-1")
	suite.mockEntryRepo.On("FindUnbilledEntries", suite.ctx, "client-1", (*time.Time)(nil), (*time.Time)(nil)).
		Return(entries, nil).Once()
	suite.mockCaseRepo.On("FindCasesByIDs", suite.ctx, []string{caseA}).
		Return(map[string]domain.Case{
			caseA: {CaseID: caseA, ClientID: "client-1", Number: "2026-017", Title: "Acme v. Initech"},
		}, nil).Once()

	summary, err := suite.service.UnbilledSummary(suite.ctx, "client-1", billing.Period{Kind: billing.PeriodAll})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 3, summary.EntryCount)
	assert.True(suite.T(), summary.TotalHours.Equal(dec("4.5")))
	assert.True(suite.T(), summary.TotalAmount.Equal(dec("600")))
	suite.Require().NotNil(summary.OldestEntryDate)
	assert.True(suite.T(), summary.OldestEntryDate.Equal(workDay(1)))

	suite.Require().Len(summary.Cases, 2)
	byCase := make(map[string]domain.CaseGroup, len(summary.Cases))
	for _, g := range summary.Cases {
		byCase[g.CaseID] = g
	}
	assert.Equal(suite.T(), "Acme v. Initech", byCase[caseA].CaseTitle)
	assert.Equal(suite.T(), 2, byCase[caseA].EntryCount)
	assert.True(suite.T(), byCase[caseA].TotalAmount.Equal(dec("350")))
	assert.Equal(suite.T(), 1, byCase[domain.NoCaseKey].EntryCount)

	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockCaseRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestUnbilledSummaryClientNotFound() {
	suite.mockClientRepo.On("FindClientByID", suite.ctx, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	summary, err := suite.service.UnbilledSummary(suite.ctx, "missing", billing.Period{Kind: billing.PeriodAll})

	suite.Require().Error(err)
	assert.Nil(suite.T(), summary)
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr))
	assert.Equal(suite.T(), 404, appErr.Code)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindUnbilledEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestUnbilledSummaryEmptyClient() {
	suite.stubClient("client-1")
	suite.mockEntryRepo.On("FindUnbilledEntries", suite.ctx, "client-1", (*time.Time)(nil), (*time.Time)(nil)).
		Return([]domain.TimeEntry{}, nil).Once()

	summary, err := suite.service.UnbilledSummary(suite.ctx, "client-1", billing.Period{Kind: billing.PeriodAll})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, summary.EntryCount)
	assert.True(suite.T(), summary.TotalAmount.IsZero())
	assert.Nil(suite.T(), summary.OldestEntryDate)
	assert.Empty(suite.T(), summary.Cases)
	suite.mockCaseRepo.AssertNotCalled(suite.T(), "FindCasesByIDs", mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestUnbilledSummaryCustomPeriodBounds() {
	start := workDay(1)
	end := workDay(31)

	suite.stubClient("client-1")
	suite.mockEntryRepo.On("FindUnbilledEntries", suite.ctx, "client-1",
		mock.MatchedBy(func(from *time.Time) bool { return from != nil && from.Equal(start) }),
		mock.MatchedBy(func(to *time.Time) bool { return to != nil && to.Equal(end) })).
		Return([]domain.TimeEntry{}, nil).Once()

	_, err := suite.service.UnbilledSummary(suite.ctx, "client-1",
		billing.Period{Kind: billing.PeriodCustom, Start: start, End: end})

	suite.Require().NoError(err)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestComputeDraftWithAdjustmentsAndManualItems() {
	entries := []domain.TimeEntry{
		{EntryID: "e1", ClientID: "client-1", Hours: dec("2"), Rate: dec("100"), WorkDate: workDay(3)},
		{EntryID: "e2", ClientID: "client-1", Hours: dec("3"), Rate: dec("100"), WorkDate: workDay(4)},
		{EntryID: "e3", ClientID: "client-1", Hours: dec("4"), Rate: dec("100"), WorkDate: workDay(5)},
	}

	suite.stubClient("client-1")
	suite.mockEntryRepo.On("FindUnbilledEntries", suite.ctx, "client-1", (*time.Time)(nil), (*time.Time)(nil)).
		Return(entries, nil).Once()

	adjustedHours := dec("1.5")
	draft := billing.Draft{
		SelectedEntryIDs: []string{"e2", "e1"},
		Adjustments: map[string]domain.LineItemAdjustment{
			"e1": {AdjustedHours: &adjustedHours},
		},
		ManualItems: []domain.ManualLineItem{
			{Description: "Filing fee", Quantity: dec("2"), UnitPrice: dec("75")},
		},
	}

	totals, lines, err := suite.service.ComputeDraft(suite.ctx, "client-1", billing.Period{Kind: billing.PeriodAll}, draft)

	suite.Require().NoError(err)
	// e1 and e2 selected at their stated rates, before adjustment.
	assert.True(suite.T(), totals.OriginalTotal.Equal(dec("500")))
	// e1's hours override reprices it to 1.5 x 100.
	assert.True(suite.T(), totals.TotalTimeAmount.Equal(dec("450")))
	assert.True(suite.T(), totals.TotalHours.Equal(dec("4.5")))
	assert.True(suite.T(), totals.FinalTotal.Equal(dec("450")))
	assert.True(suite.T(), totals.Discount.IsZero())
	assert.True(suite.T(), totals.ManualItemsTotal.Equal(dec("150")))
	assert.True(suite.T(), totals.GrandTotal.Equal(dec("600")))

	// Lines come back in selection order, not storage order.
	suite.Require().Len(lines, 2)
	assert.Equal(suite.T(), "e2", lines[0].EntryID)
	assert.Equal(suite.T(), "e1", lines[1].EntryID)
	assert.True(suite.T(), lines[1].Hours.Equal(dec("1.5")))
	assert.True(suite.T(), lines[1].Amount.Equal(dec("150")))
}

func (suite *BillingServiceTestSuite) TestComputeDraftManualTotalDiscount() {
	entries := []domain.TimeEntry{
		{EntryID: "e1", ClientID: "client-1", Hours: dec("10"), Rate: dec("100"), WorkDate: workDay(3)},
	}

	suite.stubClient("client-1")
	suite.mockEntryRepo.On("FindUnbilledEntries", suite.ctx, "client-1", (*time.Time)(nil), (*time.Time)(nil)).
		Return(entries, nil).Once()

	manualTotal := dec("800")
	draft := billing.Draft{
		SelectedEntryIDs: []string{"e1"},
		ManualTotal:      &manualTotal,
	}

	totals, _, err := suite.service.ComputeDraft(suite.ctx, "client-1", billing.Period{Kind: billing.PeriodAll}, draft)

	suite.Require().NoError(err)
	assert.True(suite.T(), totals.TotalTimeAmount.Equal(dec("1000")))
	assert.True(suite.T(), totals.FinalTotal.Equal(dec("800")))
	assert.True(suite.T(), totals.Discount.Equal(dec("200")))
	assert.True(suite.T(), totals.GrandTotal.Equal(dec("800")))
}

func (suite *BillingServiceTestSuite) TestComputeDraftRejectsUnknownEntry() {
	suite.stubClient("client-1")
	suite.mockEntryRepo.On("FindUnbilledEntries", suite.ctx, "client-1", (*time.Time)(nil), (*time.Time)(nil)).
		Return([]domain.TimeEntry{
			{EntryID: "e1", ClientID: "client-1", Hours: dec("1"), Rate: dec("100"), WorkDate: workDay(3)},
		}, nil).Once()

	draft := billing.Draft{SelectedEntryIDs: []string{"e1", "e-other"}}

	totals, lines, err := suite.service.ComputeDraft(suite.ctx, "client-1", billing.Period{Kind: billing.PeriodAll}, draft)

	suite.Require().Error(err)
	assert.Nil(suite.T(), totals)
	assert.Nil(suite.T(), lines)
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr))
	assert.Equal(suite.T(), 400, appErr.Code)
	assert.Contains(suite.T(), appErr.Message, "e-other")
}

func TestBillingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillingServiceTestSuite))
}
