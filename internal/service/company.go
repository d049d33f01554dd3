package service

import (
	"cmp"
	"context"
	"slices"

	"catalog-service/internal/core"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CompanyService struct {
	db       core.Database
	producer core.EventProducer
	log      *zap.Logger
}

func NewCompanyService(db core.Database, p core.EventProducer, log *zap.Logger) *CompanyService {
	return &CompanyService{
		db:       db,
		producer: p,
		log:      log,
	}
}

func (s *CompanyService) Create(ctx context.Context, in core.CompanyCreate) (*core.CompanyDTO, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	// Unique code check
	exists, err := sess.Companies().ExistsByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.AlreadyExistsf("Company with code %d already exists", in.Code)
	}

	company := &core.Company{
		ID:          uuid.New(),
		Code:        in.Code,
		Name:        in.Name,
		CountryCode: in.CountryCode,
	}
	if err := sess.Companies().Create(ctx, company); err != nil {
		return nil, err
	}
	if err := sess.Commit(); err != nil {
		return nil, err
	}

	dto := company.DTO()
	publish(ctx, s.producer, s.log, core.EventCompanyCreated, companyKey(dto.Code), dto)
	return dto, nil
}

func (s *CompanyService) Get(ctx context.Context, code int) (*core.CompanyDTO, error) {
	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	company, err := findCompany(ctx, sess, code)
	if err != nil {
		return nil, err
	}
	return company.DTO(), nil
}

// GetAll returns every company ordered by code.
func (s *CompanyService) GetAll(ctx context.Context) ([]core.CompanyDTO, error) {
	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	companies, err := sess.Companies().List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]core.CompanyDTO, 0, len(companies))
	for i := range companies {
		out = append(out, *companies[i].DTO())
	}
	slices.SortFunc(out, func(a, b core.CompanyDTO) int { return cmp.Compare(a.Code, b.Code) })
	return out, nil
}

// Update replaces name and country code of an existing company.
func (s *CompanyService) Update(ctx context.Context, code int, in core.CompanyUpdate) (*core.CompanyDTO, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	company, err := findCompany(ctx, sess, code)
	if err != nil {
		return nil, err
	}

	company.Update(in.Name, in.CountryCode)
	if err := sess.Companies().Update(ctx, company); err != nil {
		return nil, err
	}
	if err := sess.Commit(); err != nil {
		return nil, err
	}

	dto := company.DTO()
	publish(ctx, s.producer, s.log, core.EventCompanyUpdated, companyKey(dto.Code), dto)
	return dto, nil
}

// Delete removes a company that owns no stores.
func (s *CompanyService) Delete(ctx context.Context, code int) error {
	sess, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer sess.Rollback()

	company, err := findCompany(ctx, sess, code)
	if err != nil {
		return err
	}

	hasStores, err := sess.Companies().HasStores(ctx, company.ID)
	if err != nil {
		return err
	}
	if hasStores {
		return core.DeleteConflictf("It is not possible to delete a company that has associated stores")
	}

	if err := sess.Companies().Delete(ctx, company); err != nil {
		return err
	}
	if err := sess.Commit(); err != nil {
		return err
	}

	publish(ctx, s.producer, s.log, core.EventCompanyDeleted, companyKey(code), map[string]int{"code": code})
	return nil
}

func findCompany(ctx context.Context, sess core.Session, code int) (*core.Company, error) {
	company, err := sess.Companies().FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, core.NotFoundf("Company with code %d was not found", code)
	}
	return company, nil
}
