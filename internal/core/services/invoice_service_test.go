package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/billing"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockEntryRepo   *MockTimeEntryRepository
	mockClientRepo  *MockClientRepository
	service         portssvc.InvoiceSvcFacade
	ctx             context.Context
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockEntryRepo = new(MockTimeEntryRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockEntryRepo, suite.mockClientRepo)
	suite.ctx = context.Background()
}

func (suite *InvoiceServiceTestSuite) stubClient(clientID string) {
	suite.mockClientRepo.On("FindClientByID", suite.ctx, clientID).
		Return(&domain.Client{ClientID: clientID, Name: "Acme Corp", HourlyRate: dec("200"), IsActive: true}, nil)
}

func (suite *InvoiceServiceTestSuite) TestCreateFromDraftRequiresContent() {
	invoice, err := suite.service.CreateFromDraft(suite.ctx, "client-1", billing.Period{Kind: billing.PeriodAll}, billing.Draft{}, "user-1")

	suite.Require().Error(err)
	assert.Nil(suite.T(), invoice)
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr))
	assert.Equal(suite.T(), 400, appErr.Code)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "FindClientByID", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateFromDraftPersistsComputedTotals() {
	entries := []domain.TimeEntry{
		{EntryID: "e1", ClientID: "client-1", Description: "Drafted motion", Hours: dec("2"), Rate: dec("100"), WorkDate: workDay(3)},
		{EntryID: "e2", ClientID: "client-1", Description: "Client call", Hours: dec("1"), Rate: dec("100"), WorkDate: workDay(4)},
	}

	suite.stubClient("client-1")
	suite.mockEntryRepo.On("FindUnbilledEntries", suite.ctx, "client-1", (*time.Time)(nil), (*time.Time)(nil)).
		Return(entries, nil).Once()

	var saved domain.Invoice
	suite.mockInvoiceRepo.On("SaveInvoice", suite.ctx, mock.AnythingOfType("domain.Invoice"), []string{"e1", "e2"}).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Invoice)
		}).
		Return(nil).Once()

	draft := billing.Draft{
		SelectedEntryIDs: []string{"e1", "e2"},
		ManualItems: []domain.ManualLineItem{
			{Description: "Courier", Quantity: dec("1"), UnitPrice: dec("40")},
		},
	}

	invoice, err := suite.service.CreateFromDraft(suite.ctx, "client-1", billing.Period{Kind: billing.PeriodAll}, draft, "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	assert.Equal(suite.T(), domain.InvoiceDraft, invoice.Status)
	assert.True(suite.T(), strings.HasPrefix(invoice.Number, "DRAFT-"))
	assert.Len(suite.T(), invoice.Number, len("DRAFT-")+8)
	assert.True(suite.T(), invoice.GrandTotal.Equal(dec("340")))
	assert.True(suite.T(), invoice.TotalTimeAmount.Equal(dec("300")))
	assert.True(suite.T(), invoice.ManualItemsTotal.Equal(dec("40")))
	assert.Equal(suite.T(), "user-1", invoice.CreatedBy)

	suite.Require().Len(saved.LineItems, 3)
	assert.Equal(suite.T(), domain.LineItemTime, saved.LineItems[0].Kind)
	suite.Require().NotNil(saved.LineItems[0].EntryID)
	assert.Equal(suite.T(), "e1", *saved.LineItems[0].EntryID)
	assert.Equal(suite.T(), domain.LineItemManual, saved.LineItems[2].Kind)
	assert.True(suite.T(), saved.LineItems[2].Amount.Equal(dec("40")))

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateFromDraftRejectsUnbillableEntry() {
	suite.stubClient("client-1")
	suite.mockEntryRepo.On("FindUnbilledEntries", suite.ctx, "client-1", (*time.Time)(nil), (*time.Time)(nil)).
		Return([]domain.TimeEntry{}, nil).Once()

	draft := billing.Draft{SelectedEntryIDs: []string{"e-gone"}}

	invoice, err := suite.service.CreateFromDraft(suite.ctx, "client-1", billing.Period{Kind: billing.PeriodAll}, draft, "user-1")

	suite.Require().Error(err)
	assert.Nil(suite.T(), invoice)
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr))
	assert.Equal(suite.T(), 400, appErr.Code)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateFromDraftConcurrentBillingConflict() {
	entries := []domain.TimeEntry{
		{EntryID: "e1", ClientID: "client-1", Hours: dec("1"), Rate: dec("100"), WorkDate: workDay(3)},
	}

	suite.stubClient("client-1")
	suite.mockEntryRepo.On("FindUnbilledEntries", suite.ctx, "client-1", (*time.Time)(nil), (*time.Time)(nil)).
		Return(entries, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", suite.ctx, mock.AnythingOfType("domain.Invoice"), []string{"e1"}).
		Return(apperrors.ErrEntryInvoiced).Once()

	invoice, err := suite.service.CreateFromDraft(suite.ctx, "client-1", billing.Period{Kind: billing.PeriodAll},
		billing.Draft{SelectedEntryIDs: []string{"e1"}}, "user-1")

	suite.Require().Error(err)
	assert.Nil(suite.T(), invoice)
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr))
	assert.Equal(suite.T(), 409, appErr.Code)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrEntryInvoiced))
}

func (suite *InvoiceServiceTestSuite) TestFinalizeInvoiceAssignsNumber() {
	draftInvoice := &domain.Invoice{
		InvoiceID: "inv-1",
		ClientID:  "client-1",
		Number:    "DRAFT-inv00001",
		Status:    domain.InvoiceDraft,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, "inv-1").Return(draftInvoice, nil).Once()
	suite.mockInvoiceRepo.On("NextInvoiceNumber", suite.ctx, "INV", mock.AnythingOfType("int")).
		Return("INV-2026-0042", nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", suite.ctx, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Number == "INV-2026-0042" && inv.Status == domain.InvoiceFinalized && inv.LastUpdatedBy == "user-1"
	})).Return(nil).Once()

	invoice, err := suite.service.FinalizeInvoice(suite.ctx, "inv-1", "user-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "INV-2026-0042", invoice.Number)
	assert.Equal(suite.T(), domain.InvoiceFinalized, invoice.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestFinalizeInvoiceRejectsNonDraft() {
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, "inv-1").
		Return(&domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceSent}, nil).Once()

	invoice, err := suite.service.FinalizeInvoice(suite.ctx, "inv-1", "user-1")

	suite.Require().Error(err)
	assert.Nil(suite.T(), invoice)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrInvoiceNotEditable))
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "NextInvoiceNumber", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestFinalizeInvoiceNumberRace() {
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, "inv-1").
		Return(&domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceDraft}, nil).Once()
	suite.mockInvoiceRepo.On("NextInvoiceNumber", suite.ctx, "INV", mock.AnythingOfType("int")).
		Return("INV-2026-0042", nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", suite.ctx, mock.AnythingOfType("domain.Invoice")).
		Return(apperrors.ErrDuplicate).Once()

	invoice, err := suite.service.FinalizeInvoice(suite.ctx, "inv-1", "user-1")

	suite.Require().Error(err)
	assert.Nil(suite.T(), invoice)
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr))
	assert.Equal(suite.T(), 409, appErr.Code)
}

func (suite *InvoiceServiceTestSuite) TestMarkSentTransition() {
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, "inv-1").
		Return(&domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceFinalized}, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", suite.ctx, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.InvoiceSent
	})).Return(nil).Once()

	invoice, err := suite.service.MarkSent(suite.ctx, "inv-1", "user-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.InvoiceSent, invoice.Status)
}

func (suite *InvoiceServiceTestSuite) TestMarkSentRejectsDraft() {
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, "inv-1").
		Return(&domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceDraft}, nil).Once()

	invoice, err := suite.service.MarkSent(suite.ctx, "inv-1", "user-1")

	suite.Require().Error(err)
	assert.Nil(suite.T(), invoice)
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr))
	assert.Equal(suite.T(), 409, appErr.Code)
	assert.Contains(suite.T(), appErr.Message, "DRAFT")
}

func (suite *InvoiceServiceTestSuite) TestMarkPaidSetsPaidDate() {
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, "inv-1").
		Return(&domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceSent}, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", suite.ctx, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.InvoicePaid && inv.PaidDate != nil
	})).Return(nil).Once()

	invoice, err := suite.service.MarkPaid(suite.ctx, "inv-1", "user-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.InvoicePaid, invoice.Status)
	suite.Require().NotNil(invoice.PaidDate)
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoiceReleasesEntries() {
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, "inv-1").
		Return(&domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceSent}, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", suite.ctx, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.InvoiceVoid
	})).Return(nil).Once()
	suite.mockInvoiceRepo.On("ReleaseEntries", suite.ctx, "inv-1", "user-1").Return(nil).Once()

	invoice, err := suite.service.VoidInvoice(suite.ctx, "inv-1", "user-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.InvoiceVoid, invoice.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoiceRejectsPaid() {
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, "inv-1").
		Return(&domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoicePaid}, nil).Once()

	invoice, err := suite.service.VoidInvoice(suite.ctx, "inv-1", "user-1")

	suite.Require().Error(err)
	assert.Nil(suite.T(), invoice)
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr))
	assert.Equal(suite.T(), 409, appErr.Code)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "ReleaseEntries", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoiceIdempotent() {
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, "inv-1").
		Return(&domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceVoid}, nil).Once()
	suite.mockInvoiceRepo.On("ReleaseEntries", suite.ctx, "inv-1", "user-1").Return(nil).Once()

	invoice, err := suite.service.VoidInvoice(suite.ctx, "inv-1", "user-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.InvoiceVoid, invoice.Status)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStatus", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoiceRetriesReleaseAfterFailure() {
	// First void persists the VOID status but the release fails.
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, "inv-1").
		Return(&domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceSent}, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", suite.ctx, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.InvoiceVoid
	})).Return(nil).Once()
	suite.mockInvoiceRepo.On("ReleaseEntries", suite.ctx, "inv-1", "user-1").
		Return(errors.New("connection reset")).Once()

	invoice, err := suite.service.VoidInvoice(suite.ctx, "inv-1", "user-1")
	suite.Require().Error(err)
	assert.Nil(suite.T(), invoice)

	// The retry sees the invoice already VOID and must still release the
	// entries rather than returning success with them locked.
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, "inv-1").
		Return(&domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceVoid}, nil).Once()
	suite.mockInvoiceRepo.On("ReleaseEntries", suite.ctx, "inv-1", "user-1").
		Return(nil).Once()

	invoice, err = suite.service.VoidInvoice(suite.ctx, "inv-1", "user-1")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.InvoiceVoid, invoice.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertNumberOfCalls(suite.T(), "ReleaseEntries", 2)
}

func (suite *InvoiceServiceTestSuite) TestListInvoicesPassesFilters() {
	clientID := "client-1"
	status := domain.InvoiceSent
	suite.mockInvoiceRepo.On("FindInvoices", suite.ctx, &clientID, &status, 20, 0).
		Return([]domain.Invoice{{InvoiceID: "inv-1"}}, nil).Once()

	invoices, err := suite.service.ListInvoices(suite.ctx, &clientID, &status, 20, 0)

	suite.Require().NoError(err)
	assert.Len(suite.T(), invoices, 1)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
