package services_test

import (
	"context"
	"time"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// --- Mock ClientRepository ---
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindClients(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteClient(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

// --- Mock CaseRepository ---
type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) FindCaseByID(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCaseRepository) FindCasesByClient(ctx context.Context, clientID string, limit, offset int) ([]domain.Case, error) {
	args := m.Called(ctx, clientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}

func (m *MockCaseRepository) FindCasesByIDs(ctx context.Context, caseIDs []string) (map[string]domain.Case, error) {
	args := m.Called(ctx, caseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Case), args.Error(1)
}

func (m *MockCaseRepository) SaveCase(ctx context.Context, c domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCaseRepository) UpdateCase(ctx context.Context, c domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// --- Mock TimeEntryRepository ---
type MockTimeEntryRepository struct {
	mock.Mock
}

func (m *MockTimeEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.TimeEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) FindEntriesByClient(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.TimeEntry, *string, error) {
	args := m.Called(ctx, clientID, limit, nextToken)
	var entries []domain.TimeEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.TimeEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockTimeEntryRepository) FindUnbilledEntries(ctx context.Context, clientID string, from, to *time.Time) ([]domain.TimeEntry, error) {
	args := m.Called(ctx, clientID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) SaveEntry(ctx context.Context, entry domain.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) UpdateEntry(ctx context.Context, entry domain.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoices(ctx context.Context, clientID *string, status *domain.InvoiceStatus, limit, offset int) ([]domain.Invoice, error) {
	args := m.Called(ctx, clientID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) NextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error) {
	args := m.Called(ctx, prefix, year)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, billedEntryIDs []string) error {
	args := m.Called(ctx, invoice, billedEntryIDs)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ReleaseEntries(ctx context.Context, invoiceID string, updatedBy string) error {
	args := m.Called(ctx, invoiceID, updatedBy)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockInvoiceRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshTokenDetails(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshTokenDetails(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}
