package sqlstore

import (
	"context"

	"catalog-service/internal/core"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var companies = table[core.Company]{
	name:    "companies",
	entity:  "Company",
	columns: []string{"id", "code", "name", "country_code"},
}

type companyRepo struct {
	s *session
}

func (r companyRepo) Create(ctx context.Context, c *core.Company) error {
	err := companies.insert(ctx, r.s, map[string]interface{}{
		"id":           c.ID,
		"code":         c.Code,
		"name":         c.Name,
		"country_code": c.CountryCode,
	})
	return r.s.dialect.translate(err,
		core.AlreadyExistsf("Company with code %d already exists", c.Code),
		nil,
	)
}

func (r companyRepo) ExistsByCode(ctx context.Context, code int) (bool, error) {
	return companies.exists(ctx, r.s, sq.Eq{"code": code})
}

func (r companyRepo) FindByCode(ctx context.Context, code int) (*core.Company, error) {
	return companies.findOne(ctx, r.s, companies.selectAll(r.s).Where(sq.Eq{"code": code}))
}

func (r companyRepo) List(ctx context.Context) ([]core.Company, error) {
	return companies.findAll(ctx, r.s, companies.selectAll(r.s).OrderBy("code"))
}

func (r companyRepo) Update(ctx context.Context, c *core.Company) error {
	return companies.update(ctx, r.s, map[string]interface{}{
		"name":         c.Name,
		"country_code": c.CountryCode,
	}, sq.Eq{"id": c.ID.String()})
}

func (r companyRepo) Delete(ctx context.Context, c *core.Company) error {
	err := companies.delete(ctx, r.s, sq.Eq{"id": c.ID.String()})
	return r.s.dialect.translate(err,
		nil,
		core.DeleteConflictf("It is not possible to delete a company that has associated stores"),
	)
}

func (r companyRepo) HasStores(ctx context.Context, companyID uuid.UUID) (bool, error) {
	return stores.exists(ctx, r.s, sq.Eq{"company_id": companyID.String()})
}
