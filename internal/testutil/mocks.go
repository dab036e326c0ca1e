package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockClientRepository is an in-memory domain.ClientRepository
type MockClientRepository struct {
	mu      sync.Mutex
	Clients []domain.Client
	ListErr error
	SaveErr error
}

// NewMockClientRepository creates a new MockClientRepository
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{}
}

// ListAll returns a copy of every client in insertion order
func (m *MockClientRepository) ListAll(ctx context.Context) ([]domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]domain.Client(nil), m.Clients...), nil
}

// Insert adds a client
func (m *MockClientRepository) Insert(ctx context.Context, client domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	for _, c := range m.Clients {
		if c.ID == client.ID {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrPersistence, client.ID)
		}
	}
	m.Clients = append(m.Clients, client)
	return nil
}

// UpsertMany replaces clients by id or appends new ones
func (m *MockClientRepository) UpsertMany(ctx context.Context, clients []domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	for _, client := range clients {
		replaced := false
		for i := range m.Clients {
			if m.Clients[i].ID == client.ID {
				m.Clients[i] = client
				replaced = true
				break
			}
		}
		if !replaced {
			m.Clients = append(m.Clients, client)
		}
	}
	return nil
}

// DeleteByID removes a client
func (m *MockClientRepository) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	for i := range m.Clients {
		if m.Clients[i].ID == id {
			m.Clients = append(m.Clients[:i], m.Clients[i+1:]...)
			return nil
		}
	}
	return nil
}

// AddClient adds a client to the mock repository (helper for tests)
func (m *MockClientRepository) AddClient(client domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clients = append(m.Clients, client)
}

// MockServiceRecordRepository is an in-memory domain.ServiceRecordRepository
type MockServiceRecordRepository struct {
	mu        sync.Mutex
	Records   []domain.ServiceRecord
	ListErr   error
	InsertErr error
	UpsertErr error
	DeleteErr error
	// UpsertCalls counts UpsertMany invocations
	UpsertCalls int
}

// NewMockServiceRecordRepository creates a new MockServiceRecordRepository
func NewMockServiceRecordRepository() *MockServiceRecordRepository {
	return &MockServiceRecordRepository{}
}

// ListAll returns a copy of every record
func (m *MockServiceRecordRepository) ListAll(ctx context.Context) ([]domain.ServiceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]domain.ServiceRecord(nil), m.Records...), nil
}

// Insert adds a record
func (m *MockServiceRecordRepository) Insert(ctx context.Context, record domain.ServiceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Records = append(m.Records, record)
	return nil
}

// UpsertMany replaces records by id or appends new ones
func (m *MockServiceRecordRepository) UpsertMany(ctx context.Context, records []domain.ServiceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for _, record := range records {
		replaced := false
		for i := range m.Records {
			if m.Records[i].ID == record.ID {
				m.Records[i] = record
				replaced = true
				break
			}
		}
		if !replaced {
			m.Records = append(m.Records, record)
		}
	}
	return nil
}

// DeleteByID removes a record
func (m *MockServiceRecordRepository) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i := range m.Records {
		if m.Records[i].ID == id {
			m.Records = append(m.Records[:i], m.Records[i+1:]...)
			return nil
		}
	}
	return nil
}

// AddRecord adds a record to the mock repository (helper for tests)
func (m *MockServiceRecordRepository) AddRecord(record domain.ServiceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, record)
}

// Get returns a record by id (helper for tests)
func (m *MockServiceRecordRepository) Get(id string) (domain.ServiceRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.ServiceRecord{}, false
}

// MockExpenseRepository is an in-memory domain.ExpenseRepository
type MockExpenseRepository struct {
	mu          sync.Mutex
	Expenses    []domain.Expense
	ListErr     error
	InsertErr   error
	UpsertErr   error
	DeleteErr   error
	UpsertCalls int
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{}
}

// ListAll returns a copy of every expense
func (m *MockExpenseRepository) ListAll(ctx context.Context) ([]domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]domain.Expense(nil), m.Expenses...), nil
}

// Insert adds an expense
func (m *MockExpenseRepository) Insert(ctx context.Context, expense domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Expenses = append(m.Expenses, expense)
	return nil
}

// UpsertMany replaces expenses by id or appends new ones
func (m *MockExpenseRepository) UpsertMany(ctx context.Context, expenses []domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for _, expense := range expenses {
		replaced := false
		for i := range m.Expenses {
			if m.Expenses[i].ID == expense.ID {
				m.Expenses[i] = expense
				replaced = true
				break
			}
		}
		if !replaced {
			m.Expenses = append(m.Expenses, expense)
		}
	}
	return nil
}

// DeleteByID removes an expense
func (m *MockExpenseRepository) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i := range m.Expenses {
		if m.Expenses[i].ID == id {
			m.Expenses = append(m.Expenses[:i], m.Expenses[i+1:]...)
			return nil
		}
	}
	return nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense domain.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Expenses = append(m.Expenses, expense)
}

// Get returns an expense by id (helper for tests)
func (m *MockExpenseRepository) Get(id string) (domain.Expense, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Expense{}, false
}

// MockAgendaRepository is an in-memory domain.AgendaRepository
type MockAgendaRepository struct {
	mu        sync.Mutex
	Items     []domain.AgendaItem
	DeleteErr error
}

// NewMockAgendaRepository creates a new MockAgendaRepository
func NewMockAgendaRepository() *MockAgendaRepository {
	return &MockAgendaRepository{}
}

// ListAll returns a copy of every agenda item
func (m *MockAgendaRepository) ListAll(ctx context.Context) ([]domain.AgendaItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AgendaItem(nil), m.Items...), nil
}

// Insert adds an agenda item
func (m *MockAgendaRepository) Insert(ctx context.Context, item domain.AgendaItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items = append(m.Items, item)
	return nil
}

// UpsertMany replaces agenda items by id or appends new ones
func (m *MockAgendaRepository) UpsertMany(ctx context.Context, items []domain.AgendaItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		replaced := false
		for i := range m.Items {
			if m.Items[i].ID == item.ID {
				m.Items[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			m.Items = append(m.Items, item)
		}
	}
	return nil
}

// DeleteByID removes an agenda item
func (m *MockAgendaRepository) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i := range m.Items {
		if m.Items[i].ID == id {
			m.Items = append(m.Items[:i], m.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

// AddItem adds an agenda item to the mock repository (helper for tests)
func (m *MockAgendaRepository) AddItem(item domain.AgendaItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items = append(m.Items, item)
}

// MockClosedMonthRepository is an in-memory domain.ClosedMonthRepository.
// Like the real stores it enforces one archive per month key.
type MockClosedMonthRepository struct {
	mu        sync.Mutex
	Months    map[domain.MonthKey]domain.ClosedMonth
	ListErr   error
	InsertErr error
	DeleteErr error
	// DeleteCalls counts DeleteByKey invocations
	DeleteCalls int
}

// NewMockClosedMonthRepository creates a new MockClosedMonthRepository
func NewMockClosedMonthRepository() *MockClosedMonthRepository {
	return &MockClosedMonthRepository{
		Months: make(map[domain.MonthKey]domain.ClosedMonth),
	}
}

// ListAll returns every archive
func (m *MockClosedMonthRepository) ListAll(ctx context.Context) ([]domain.ClosedMonth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	result := make([]domain.ClosedMonth, 0, len(m.Months))
	for _, cm := range m.Months {
		result = append(result, cm)
	}
	return result, nil
}

// GetByKey returns the archive for a month key
func (m *MockClosedMonthRepository) GetByKey(ctx context.Context, key domain.MonthKey) (*domain.ClosedMonth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	cm, ok := m.Months[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cm, nil
}

// Insert stores an archive, rejecting a taken month key
func (m *MockClosedMonthRepository) Insert(ctx context.Context, month domain.ClosedMonth) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	if _, ok := m.Months[month.Key]; ok {
		return domain.ErrMonthAlreadyClosed
	}
	m.Months[month.Key] = month
	return nil
}

// DeleteByKey removes the archive for a month key
func (m *MockClosedMonthRepository) DeleteByKey(ctx context.Context, key domain.MonthKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Months, key)
	return nil
}

// AddMonth adds an archive to the mock repository (helper for tests)
func (m *MockClosedMonthRepository) AddMonth(month domain.ClosedMonth) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Months[month.Key] = month
}

// Has reports whether an archive exists (helper for tests)
func (m *MockClosedMonthRepository) Has(key domain.MonthKey) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Months[key]
	return ok
}

// MockArchiveExporter records exported and removed archives
type MockArchiveExporter struct {
	mu        sync.Mutex
	Exported  []domain.MonthKey
	Removed   []domain.MonthKey
	ExportErr error
}

// Export records the archive key
func (m *MockArchiveExporter) Export(ctx context.Context, month domain.ClosedMonth) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExportErr != nil {
		return m.ExportErr
	}
	m.Exported = append(m.Exported, month.Key)
	return nil
}

// Remove records the removed key
func (m *MockArchiveExporter) Remove(ctx context.Context, key domain.MonthKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, key)
	return nil
}

// Date builds a UTC calendar day (helper for tests)
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewService builds a service record with total = hectares x price (helper for tests)
func NewService(clientID string, date time.Time, hectares, unitPrice int64) domain.ServiceRecord {
	ha := decimal.NewFromInt(hectares)
	price := decimal.NewFromInt(unitPrice)
	return domain.ServiceRecord{
		ID:         uuid.NewString(),
		Date:       date,
		ClientID:   clientID,
		ClientName: clientID,
		AreaID:     clientID + "-area",
		AreaName:   clientID + " area",
		Hectares:   ha,
		Type:       domain.ApplicationSpraying,
		UnitPrice:  price,
		TotalValue: domain.ServiceTotal(ha, price),
	}
}

// NewExpense builds an expense (helper for tests)
func NewExpense(date time.Time, amount int64) domain.Expense {
	return domain.Expense{
		ID:          uuid.NewString(),
		Date:        date,
		Description: "Fuel",
		Amount:      decimal.NewFromInt(amount),
		Category:    "operations",
	}
}
