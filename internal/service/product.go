package service

import (
	"cmp"
	"context"
	"slices"

	"catalog-service/internal/core"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService manages products addressed through the full
// company/store/product hierarchy.
type ProductService struct {
	db       core.Database
	producer core.EventProducer
	log      *zap.Logger
}

func NewProductService(db core.Database, p core.EventProducer, log *zap.Logger) *ProductService {
	return &ProductService{
		db:       db,
		producer: p,
		log:      log,
	}
}

func (s *ProductService) Create(ctx context.Context, storeCode, companyCode int, in core.ProductCreate) (*core.ProductDTO, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	store, err := findStore(ctx, sess, storeCode, companyCode)
	if err != nil {
		return nil, err
	}

	// Product codes are unique per store
	exists, err := sess.Products().ExistsInStore(ctx, in.Code, store.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.AlreadyExistsf("Product with code %d already exists", in.Code)
	}

	product := &core.Product{
		ID:          uuid.New(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Price:       core.RoundPrice(in.Price),
		StoreID:     store.ID,
		StoreCode:   store.Code,
		CompanyCode: store.CompanyCode,
	}
	if err := sess.Products().Create(ctx, product); err != nil {
		return nil, err
	}
	if err := sess.Commit(); err != nil {
		return nil, err
	}

	dto := product.DTO()
	publish(ctx, s.producer, s.log, core.EventProductCreated, productKey(dto.CompanyCode, dto.StoreCode, dto.Code), dto)
	return dto, nil
}

func (s *ProductService) Get(ctx context.Context, code, storeCode, companyCode int) (*core.ProductDTO, error) {
	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	product, err := findProduct(ctx, sess, code, storeCode, companyCode)
	if err != nil {
		return nil, err
	}
	return product.DTO(), nil
}

// GetAllByStore lists the products of a store ordered by code.
func (s *ProductService) GetAllByStore(ctx context.Context, storeCode, companyCode int) ([]core.ProductDTO, error) {
	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	products, err := sess.Products().ListByStore(ctx, storeCode, companyCode)
	if err != nil {
		return nil, err
	}

	out := make([]core.ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *products[i].DTO())
	}
	slices.SortFunc(out, func(a, b core.ProductDTO) int { return cmp.Compare(a.Code, b.Code) })
	return out, nil
}

func (s *ProductService) Update(ctx context.Context, code, storeCode, companyCode int, in core.ProductUpdate) (*core.ProductDTO, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback()

	product, err := findProduct(ctx, sess, code, storeCode, companyCode)
	if err != nil {
		return nil, err
	}

	product.Update(in.Name, in.Description, in.Price)
	if err := sess.Products().Update(ctx, product); err != nil {
		return nil, err
	}
	if err := sess.Commit(); err != nil {
		return nil, err
	}

	dto := product.DTO()
	publish(ctx, s.producer, s.log, core.EventProductUpdated, productKey(dto.CompanyCode, dto.StoreCode, dto.Code), dto)
	return dto, nil
}

// Delete removes a product. Products have no children, so there is no
// conflict check.
func (s *ProductService) Delete(ctx context.Context, code, storeCode, companyCode int) error {
	sess, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer sess.Rollback()

	product, err := findProduct(ctx, sess, code, storeCode, companyCode)
	if err != nil {
		return err
	}

	if err := sess.Products().Delete(ctx, product); err != nil {
		return err
	}
	if err := sess.Commit(); err != nil {
		return err
	}

	publish(ctx, s.producer, s.log, core.EventProductDeleted, productKey(companyCode, storeCode, code),
		map[string]int{"code": code, "storeCode": storeCode, "companyCode": companyCode})
	return nil
}

func findProduct(ctx context.Context, sess core.Session, code, storeCode, companyCode int) (*core.Product, error) {
	product, err := sess.Products().FindWithHierarchy(ctx, code, storeCode, companyCode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, core.NotFoundf("Product with code %d was not found", code)
	}
	return product, nil
}
