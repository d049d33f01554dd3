package handler

import (
	"fmt"
	"net/http"

	"catalog-service/internal/core"
)

// CreateCompany handles POST /api/companies
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req core.CompanyCreate
	if !decode(w, r, &req) {
		return
	}

	created, err := h.companies.Create(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	respondCreated(w, fmt.Sprintf("/api/companies/%d", created.Code), created)
}

// ListCompanies handles GET /api/companies
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.GetAll(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, companies, http.StatusOK)
}

// GetCompany handles GET /api/companies/{code}
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCode(w, r, "code")
	if !ok {
		return
	}

	company, err := h.companies.Get(r.Context(), code)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, company, http.StatusOK)
}

// UpdateCompany handles PUT /api/companies/{code}
func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCode(w, r, "code")
	if !ok {
		return
	}

	var req core.CompanyUpdate
	if !decode(w, r, &req) {
		return
	}

	updated, err := h.companies.Update(r.Context(), code, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, updated, http.StatusOK)
}

// DeleteCompany handles DELETE /api/companies/{code}
func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCode(w, r, "code")
	if !ok {
		return
	}

	if err := h.companies.Delete(r.Context(), code); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
