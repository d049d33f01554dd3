package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"catalog-service/internal/core"
	"catalog-service/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the catalog HTTP API.
type Handler struct {
	companies *service.CompanyService
	stores    *service.StoreService
	products  *service.ProductService
	log       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(companies *service.CompanyService, stores *service.StoreService, products *service.ProductService, log *zap.Logger) *Handler {
	return &Handler{
		companies: companies,
		stores:    stores,
		products:  products,
		log:       log,
	}
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	StatusCode int                 `json:"statusCode"`
	Title      string              `json:"title"`
	Detail     string              `json:"detail"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

const (
	titleNotFound       = "Entity Not Found"
	titleAlreadyExists  = "Entity Already Exists"
	titleDeleteConflict = "Conflict In The Delete Operation"
	titleValidation     = "Validation Error"
	titleInternal       = "Internal Server Error"
)

// handleServiceError maps service errors to HTTP status codes
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Title:      titleValidation,
			Detail:     "One or more validation errors occurred",
			Errors:     verr.Fields,
		})
	case errors.Is(err, core.ErrNotFound):
		respondError(w, ErrorResponse{StatusCode: http.StatusNotFound, Title: titleNotFound, Detail: err.Error()})
	case errors.Is(err, core.ErrAlreadyExists):
		respondError(w, ErrorResponse{StatusCode: http.StatusConflict, Title: titleAlreadyExists, Detail: err.Error()})
	case errors.Is(err, core.ErrDeleteConflict):
		respondError(w, ErrorResponse{StatusCode: http.StatusConflict, Title: titleDeleteConflict, Detail: err.Error()})
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondError(w, ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Title:      titleInternal,
			Detail:     "An unexpected error occurred",
		})
	}
}

func badRequest(w http.ResponseWriter, detail string) {
	respondError(w, ErrorResponse{StatusCode: http.StatusBadRequest, Title: titleValidation, Detail: detail})
}

// decode reads a JSON body into dst, answering 400 on malformed input.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// pathCode parses an integer code from the named URL parameter.
func pathCode(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	code, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		badRequest(w, fmt.Sprintf("invalid %s: must be an integer", name))
		return 0, false
	}
	return code, true
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondCreated writes a 201 with the new resource's location.
func respondCreated(w http.ResponseWriter, location string, data interface{}) {
	w.Header().Set("Location", location)
	respondJSON(w, data, http.StatusCreated)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(body.StatusCode)
	json.NewEncoder(w).Encode(body)
}
