package handler

import (
	"fmt"
	"net/http"

	"catalog-service/internal/core"
)

// productPathCodes holds the codes addressing a product collection or item.
type productPathCodes struct {
	companyCode int
	storeCode   int
	code        int
}

func parentCodes(w http.ResponseWriter, r *http.Request) (productPathCodes, bool) {
	var p productPathCodes
	var ok bool
	if p.companyCode, ok = pathCode(w, r, "companyCode"); !ok {
		return p, false
	}
	if p.storeCode, ok = pathCode(w, r, "storeCode"); !ok {
		return p, false
	}
	return p, true
}

func productCodes(w http.ResponseWriter, r *http.Request) (productPathCodes, bool) {
	p, ok := parentCodes(w, r)
	if !ok {
		return p, false
	}
	if p.code, ok = pathCode(w, r, "code"); !ok {
		return p, false
	}
	return p, true
}

// CreateProduct handles POST /api/companies/{companyCode}/stores/{storeCode}/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := parentCodes(w, r)
	if !ok {
		return
	}

	var req core.ProductCreate
	if !decode(w, r, &req) {
		return
	}

	created, err := h.products.Create(r.Context(), p.storeCode, p.companyCode, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	location := fmt.Sprintf("/api/companies/%d/stores/%d/products/%d", p.companyCode, p.storeCode, created.Code)
	respondCreated(w, location, created)
}

// ListProducts handles GET /api/companies/{companyCode}/stores/{storeCode}/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	p, ok := parentCodes(w, r)
	if !ok {
		return
	}

	products, err := h.products.GetAllByStore(r.Context(), p.storeCode, p.companyCode)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, products, http.StatusOK)
}

// GetProduct handles GET .../products/{code}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := productCodes(w, r)
	if !ok {
		return
	}

	product, err := h.products.Get(r.Context(), p.code, p.storeCode, p.companyCode)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, product, http.StatusOK)
}

// UpdateProduct handles PUT .../products/{code}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := productCodes(w, r)
	if !ok {
		return
	}

	var req core.ProductUpdate
	if !decode(w, r, &req) {
		return
	}

	updated, err := h.products.Update(r.Context(), p.code, p.storeCode, p.companyCode, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, updated, http.StatusOK)
}

// DeleteProduct handles DELETE .../products/{code}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := productCodes(w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), p.code, p.storeCode, p.companyCode); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
