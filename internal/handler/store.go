package handler

import (
	"fmt"
	"net/http"

	"catalog-service/internal/core"
)

// CreateStore handles POST /api/companies/{companyCode}/stores
func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	companyCode, ok := pathCode(w, r, "companyCode")
	if !ok {
		return
	}

	var req core.StoreCreate
	if !decode(w, r, &req) {
		return
	}

	created, err := h.stores.Create(r.Context(), companyCode, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	respondCreated(w, fmt.Sprintf("/api/companies/%d/stores/%d", companyCode, created.Code), created)
}

// ListStores handles GET /api/companies/{companyCode}/stores
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	companyCode, ok := pathCode(w, r, "companyCode")
	if !ok {
		return
	}

	stores, err := h.stores.GetAll(r.Context(), companyCode)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, stores, http.StatusOK)
}

// GetStore handles GET /api/companies/{companyCode}/stores/{code}
func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	companyCode, ok := pathCode(w, r, "companyCode")
	if !ok {
		return
	}
	code, ok := pathCode(w, r, "code")
	if !ok {
		return
	}

	store, err := h.stores.Get(r.Context(), code, companyCode)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, store, http.StatusOK)
}

// UpdateStore handles PUT /api/companies/{companyCode}/stores/{code}
func (h *Handler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	companyCode, ok := pathCode(w, r, "companyCode")
	if !ok {
		return
	}
	code, ok := pathCode(w, r, "code")
	if !ok {
		return
	}

	var req core.StoreUpdate
	if !decode(w, r, &req) {
		return
	}

	updated, err := h.stores.Update(r.Context(), code, companyCode, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, updated, http.StatusOK)
}

// DeleteStore handles DELETE /api/companies/{companyCode}/stores/{code}
func (h *Handler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	companyCode, ok := pathCode(w, r, "companyCode")
	if !ok {
		return
	}
	code, ok := pathCode(w, r, "code")
	if !ok {
		return
	}

	if err := h.stores.Delete(r.Context(), code, companyCode); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
