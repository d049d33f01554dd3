package sqlstore

import (
	"context"

	"catalog-service/internal/core"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var products = table[core.Product]{
	name:   "products",
	entity: "Product",
}

type productRepo struct {
	s *session
}

func (r productRepo) withHierarchy() sq.SelectBuilder {
	return r.s.sq.
		Select(
			"p.id", "p.code", "p.name", "p.description", "p.price", "p.store_id",
			"s.code AS store_code", "c.code AS company_code",
		).
		From("products p").
		Join("stores s ON s.id = p.store_id").
		Join("companies c ON c.id = s.company_id")
}

func (r productRepo) Create(ctx context.Context, p *core.Product) error {
	err := products.insert(ctx, r.s, map[string]interface{}{
		"id":          p.ID,
		"code":        p.Code,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"store_id":    p.StoreID,
	})
	return r.s.dialect.translate(err,
		core.AlreadyExistsf("Product with code %d already exists", p.Code),
		core.NotFoundf("Store with code %d was not found", p.StoreCode),
	)
}

func (r productRepo) ExistsInStore(ctx context.Context, code int, storeID uuid.UUID) (bool, error) {
	return products.exists(ctx, r.s, sq.Eq{"code": code, "store_id": storeID.String()})
}

func (r productRepo) FindWithHierarchy(ctx context.Context, code, storeCode, companyCode int) (*core.Product, error) {
	return products.findOne(ctx, r.s, r.withHierarchy().Where(sq.Eq{
		"p.code": code,
		"s.code": storeCode,
		"c.code": companyCode,
	}))
}

func (r productRepo) ListByStore(ctx context.Context, storeCode, companyCode int) ([]core.Product, error) {
	q := r.withHierarchy().
		Where(sq.Eq{"s.code": storeCode, "c.code": companyCode}).
		OrderBy("p.code")
	return products.findAll(ctx, r.s, q)
}

func (r productRepo) Update(ctx context.Context, p *core.Product) error {
	return products.update(ctx, r.s, map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
	}, sq.Eq{"id": p.ID.String()})
}

func (r productRepo) Delete(ctx context.Context, p *core.Product) error {
	return products.delete(ctx, r.s, sq.Eq{"id": p.ID.String()})
}
