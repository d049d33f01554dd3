// Package mocks holds testify mocks of the core ports.
package mocks

import (
	"context"

	"catalog-service/internal/core"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Database is a mock implementation of core.Database
type Database struct {
	mock.Mock
}

func (m *Database) Begin(ctx context.Context) (core.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(core.Session), args.Error(1)
}

// Session is a mock implementation of core.Session. The repository
// accessors return the embedded repository mocks.
type Session struct {
	mock.Mock
	CompanyRepo *CompanyRepository
	StoreRepo   *StoreRepository
	ProductRepo *ProductRepository
}

// NewSession returns a Session wired to fresh repository mocks.
func NewSession() *Session {
	return &Session{
		CompanyRepo: new(CompanyRepository),
		StoreRepo:   new(StoreRepository),
		ProductRepo: new(ProductRepository),
	}
}

func (m *Session) Companies() core.CompanyRepository { return m.CompanyRepo }

func (m *Session) Stores() core.StoreRepository { return m.StoreRepo }

func (m *Session) Products() core.ProductRepository { return m.ProductRepo }

func (m *Session) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *Session) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// CompanyRepository is a mock implementation of core.CompanyRepository
type CompanyRepository struct {
	mock.Mock
}

func (m *CompanyRepository) Create(ctx context.Context, company *core.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *CompanyRepository) ExistsByCode(ctx context.Context, code int) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *CompanyRepository) FindByCode(ctx context.Context, code int) (*core.Company, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.Company), args.Error(1)
}

func (m *CompanyRepository) List(ctx context.Context) ([]core.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]core.Company), args.Error(1)
}

func (m *CompanyRepository) Update(ctx context.Context, company *core.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *CompanyRepository) Delete(ctx context.Context, company *core.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *CompanyRepository) HasStores(ctx context.Context, companyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID)
	return args.Bool(0), args.Error(1)
}

// StoreRepository is a mock implementation of core.StoreRepository
type StoreRepository struct {
	mock.Mock
}

func (m *StoreRepository) Create(ctx context.Context, store *core.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *StoreRepository) ExistsInCompany(ctx context.Context, code int, companyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, code, companyID)
	return args.Bool(0), args.Error(1)
}

func (m *StoreRepository) FindWithCompany(ctx context.Context, code, companyCode int) (*core.Store, error) {
	args := m.Called(ctx, code, companyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.Store), args.Error(1)
}

func (m *StoreRepository) ListByCompanyCode(ctx context.Context, companyCode int) ([]core.Store, error) {
	args := m.Called(ctx, companyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]core.Store), args.Error(1)
}

func (m *StoreRepository) Update(ctx context.Context, store *core.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *StoreRepository) Delete(ctx context.Context, store *core.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *StoreRepository) HasProducts(ctx context.Context, storeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, storeID)
	return args.Bool(0), args.Error(1)
}

// ProductRepository is a mock implementation of core.ProductRepository
type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) Create(ctx context.Context, product *core.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) ExistsInStore(ctx context.Context, code int, storeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, code, storeID)
	return args.Bool(0), args.Error(1)
}

func (m *ProductRepository) FindWithHierarchy(ctx context.Context, code, storeCode, companyCode int) (*core.Product, error) {
	args := m.Called(ctx, code, storeCode, companyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.Product), args.Error(1)
}

func (m *ProductRepository) ListByStore(ctx context.Context, storeCode, companyCode int) ([]core.Product, error) {
	args := m.Called(ctx, storeCode, companyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]core.Product), args.Error(1)
}

func (m *ProductRepository) Update(ctx context.Context, product *core.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) Delete(ctx context.Context, product *core.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// EventProducer is a mock implementation of core.EventProducer
type EventProducer struct {
	mock.Mock
}

func (m *EventProducer) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	args := m.Called(ctx, eventType, key, payload)
	return args.Error(0)
}

func (m *EventProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}
