package service

import (
	"cmp"
	"context"
	"slices"

	"catalog-service/internal/core"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoreService manages stores scoped to their owning company.
type StoreService struct {
	db       core.Database
	producer core.EventProducer
	log      *zap.Logger
}

func NewStoreService(db core.Database, p core.EventProducer, log *zap.Logger) *StoreService {
	return &StoreService{
		db:       db,
		producer: p,
		log:      log,
	}
}

func (s *StoreService) Create(ctx context.Context, companyCode int, in core.StoreCreate) (*core.StoreDTO, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	company, err := findCompany(ctx, sess, companyCode)
	if err != nil {
		return nil, err
	}

	// Store codes are unique per company
	exists, err := sess.Stores().ExistsInCompany(ctx, in.Code, company.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.AlreadyExistsf("Store with code %d already exists", in.Code)
	}

	store := &core.Store{
		ID:          uuid.New(),
		Code:        in.Code,
		Name:        in.Name,
		Address:     in.Address,
		CompanyID:   company.ID,
		CompanyCode: company.Code,
	}
	if err := sess.Stores().Create(ctx, store); err != nil {
		return nil, err
	}
	if err := sess.Commit(); err != nil {
		return nil, err
	}

	dto := store.DTO()
	publish(ctx, s.producer, s.log, core.EventStoreCreated, storeKey(dto.CompanyCode, dto.Code), dto)
	return dto, nil
}

func (s *StoreService) Get(ctx context.Context, code, companyCode int) (*core.StoreDTO, error) {
	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	store, err := findStore(ctx, sess, code, companyCode)
	if err != nil {
		return nil, err
	}
	return store.DTO(), nil
}

// GetAll lists the stores of a company ordered by code. An unknown company
// yields an empty list rather than NotFound.
func (s *StoreService) GetAll(ctx context.Context, companyCode int) ([]core.StoreDTO, error) {
	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	stores, err := sess.Stores().ListByCompanyCode(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	out := make([]core.StoreDTO, 0, len(stores))
	for i := range stores {
		out = append(out, *stores[i].DTO())
	}
	slices.SortFunc(out, func(a, b core.StoreDTO) int { return cmp.Compare(a.Code, b.Code) })
	return out, nil
}

func (s *StoreService) Update(ctx context.Context, code, companyCode int, in core.StoreUpdate) (*core.StoreDTO, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	store, err := findStore(ctx, sess, code, companyCode)
	if err != nil {
		return nil, err
	}

	store.Update(in.Name, in.Address)
	if err := sess.Stores().Update(ctx, store); err != nil {
		return nil, err
	}
	if err := sess.Commit(); err != nil {
		return nil, err
	}

	dto := store.DTO()
	publish(ctx, s.producer, s.log, core.EventStoreUpdated, storeKey(dto.CompanyCode, dto.Code), dto)
	return dto, nil
}

// Delete removes a store that owns no products.
func (s *StoreService) Delete(ctx context.Context, code, companyCode int) error {
	sess, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer sess.Rollback()

	store, err := findStore(ctx, sess, code, companyCode)
	if err != nil {
		return err
	}

	hasProducts, err := sess.Stores().HasProducts(ctx, store.ID)
	if err != nil {
		return err
	}
	if hasProducts {
		return core.DeleteConflictf("It is not possible to delete a store that has associated products")
	}

	if err := sess.Stores().Delete(ctx, store); err != nil {
		return err
	}
	if err := sess.Commit(); err != nil {
		return err
	}

	publish(ctx, s.producer, s.log, core.EventStoreDeleted, storeKey(companyCode, code),
		map[string]int{"code": code, "companyCode": companyCode})
	return nil
}

func findStore(ctx context.Context, sess core.Session, code, companyCode int) (*core.Store, error) {
	store, err := sess.Stores().FindWithCompany(ctx, code, companyCode)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, core.NotFoundf("Store with code %d was not found", code)
	}
	return store, nil
}
