package core

import (
	"context"

	"github.com/google/uuid"
)

// Database opens persistence sessions. Every service call works inside
// exactly one session.
type Database interface {
	Begin(ctx context.Context) (Session, error)
}

// Session is a unit of work. Nothing written through its repositories is
// visible to other sessions until Commit. Rollback after Commit is a no-op.
type Session interface {
	Companies() CompanyRepository
	Stores() StoreRepository
	Products() ProductRepository
	Commit() error
	Rollback() error
}

// Finders return (nil, nil) when nothing matches.

type CompanyRepository interface {
	Create(ctx context.Context, company *Company) error
	ExistsByCode(ctx context.Context, code int) (bool, error)
	FindByCode(ctx context.Context, code int) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, company *Company) error
	Delete(ctx context.Context, company *Company) error
	HasStores(ctx context.Context, companyID uuid.UUID) (bool, error)
}

type StoreRepository interface {
	Create(ctx context.Context, store *Store) error
	ExistsInCompany(ctx context.Context, code int, companyID uuid.UUID) (bool, error)
	// FindWithCompany matches on the store code and the owning company code.
	FindWithCompany(ctx context.Context, code, companyCode int) (*Store, error)
	ListByCompanyCode(ctx context.Context, companyCode int) ([]Store, error)
	Update(ctx context.Context, store *Store) error
	Delete(ctx context.Context, store *Store) error
	HasProducts(ctx context.Context, storeID uuid.UUID) (bool, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	ExistsInStore(ctx context.Context, code int, storeID uuid.UUID) (bool, error)
	// FindWithHierarchy matches on the full company/store/product code triple.
	FindWithHierarchy(ctx context.Context, code, storeCode, companyCode int) (*Product, error)
	ListByStore(ctx context.Context, storeCode, companyCode int) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, product *Product) error
}

// EventProducer defines the contract for sending catalog change events (Kafka)
type EventProducer interface {
	Publish(ctx context.Context, eventType, key string, payload interface{}) error
	Close() error
}

// Catalog change event types.
const (
	EventCompanyCreated = "CompanyCreated"
	EventCompanyUpdated = "CompanyUpdated"
	EventCompanyDeleted = "CompanyDeleted"
	EventStoreCreated   = "StoreCreated"
	EventStoreUpdated   = "StoreUpdated"
	EventStoreDeleted   = "StoreDeleted"
	EventProductCreated = "ProductCreated"
	EventProductUpdated = "ProductUpdated"
	EventProductDeleted = "ProductDeleted"
)
