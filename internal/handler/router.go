package handler

import (
	"net/http"
	"time"

	"catalog-service/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Log *zap.Logger
	// JWTSecret protects mutating routes when set.
	JWTSecret      string
	RequestTimeout time.Duration
	Metrics        *middleware.Metrics
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

const (
	companiesPath = "/api/companies"
	companyPath   = companiesPath + "/{code}"
	storesPath    = companiesPath + "/{companyCode}/stores"
	storePath     = storesPath + "/{code}"
	productsPath  = storesPath + "/{storeCode}/products"
	productPath   = productsPath + "/{code}"
)

// NewRouter wires the catalog API, health probes and metrics.
func NewRouter(h *Handler, health *HealthHandler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(cfg.Log))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Handler)
	}
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health/live", health.Live)
	r.Get("/health/ready", health.Ready)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// Public read endpoints
	r.Get(companiesPath, h.ListCompanies)
	r.Get(companyPath, h.GetCompany)
	r.Get(storesPath, h.ListStores)
	r.Get(storePath, h.GetStore)
	r.Get(productsPath, h.ListProducts)
	r.Get(productPath, h.GetProduct)

	r.Group(func(r chi.Router) {
		if cfg.JWTSecret != "" {
			r.Use(middleware.JWTAuth([]byte(cfg.JWTSecret)))
		}

		r.Post(companiesPath, h.CreateCompany)
		r.Put(companyPath, h.UpdateCompany)
		r.Delete(companyPath, h.DeleteCompany)

		r.Post(storesPath, h.CreateStore)
		r.Put(storePath, h.UpdateStore)
		r.Delete(storePath, h.DeleteStore)

		r.Post(productsPath, h.CreateProduct)
		r.Put(productPath, h.UpdateProduct)
		r.Delete(productPath, h.DeleteProduct)
	})

	return r
}
