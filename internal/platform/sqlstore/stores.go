package sqlstore

import (
	"context"

	"catalog-service/internal/core"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var stores = table[core.Store]{
	name:   "stores",
	entity: "Store",
}

type storeRepo struct {
	s *session
}

// withCompany selects stores joined with their owning company so that
// CompanyCode is populated.
func (r storeRepo) withCompany() sq.SelectBuilder {
	return r.s.sq.
		Select("s.id", "s.code", "s.name", "s.address", "s.company_id", "c.code AS company_code").
		From("stores s").
		Join("companies c ON c.id = s.company_id")
}

func (r storeRepo) Create(ctx context.Context, st *core.Store) error {
	err := stores.insert(ctx, r.s, map[string]interface{}{
		"id":         st.ID,
		"code":       st.Code,
		"name":       st.Name,
		"address":    st.Address,
		"company_id": st.CompanyID,
	})
	return r.s.dialect.translate(err,
		core.AlreadyExistsf("Store with code %d already exists", st.Code),
		core.NotFoundf("Company with code %d was not found", st.CompanyCode),
	)
}

func (r storeRepo) ExistsInCompany(ctx context.Context, code int, companyID uuid.UUID) (bool, error) {
	return stores.exists(ctx, r.s, sq.Eq{"code": code, "company_id": companyID.String()})
}

func (r storeRepo) FindWithCompany(ctx context.Context, code, companyCode int) (*core.Store, error) {
	return stores.findOne(ctx, r.s, r.withCompany().Where(sq.Eq{"s.code": code, "c.code": companyCode}))
}

func (r storeRepo) ListByCompanyCode(ctx context.Context, companyCode int) ([]core.Store, error) {
	return stores.findAll(ctx, r.s, r.withCompany().Where(sq.Eq{"c.code": companyCode}).OrderBy("s.code"))
}

func (r storeRepo) Update(ctx context.Context, st *core.Store) error {
	return stores.update(ctx, r.s, map[string]interface{}{
		"name":    st.Name,
		"address": st.Address,
	}, sq.Eq{"id": st.ID.String()})
}

func (r storeRepo) Delete(ctx context.Context, st *core.Store) error {
	err := stores.delete(ctx, r.s, sq.Eq{"id": st.ID.String()})
	return r.s.dialect.translate(err,
		nil,
		core.DeleteConflictf("It is not possible to delete a store that has associated products"),
	)
}

func (r storeRepo) HasProducts(ctx context.Context, storeID uuid.UUID) (bool, error) {
	return products.exists(ctx, r.s, sq.Eq{"store_id": storeID.String()})
}
