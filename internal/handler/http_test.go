package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-service/internal/core"
	"catalog-service/internal/mocks"
	"catalog-service/internal/platform/kafka"
	"catalog-service/internal/platform/sqlstore"
	"catalog-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "test-secret"

func newHandler(db core.Database) *Handler {
	producer := kafka.NewNoOpProducer()
	log := zap.NewNop()
	return NewHandler(
		service.NewCompanyService(db, producer, log),
		service.NewStoreService(db, producer, log),
		service.NewProductService(db, producer, log),
		log,
	)
}

type testAPI struct {
	t      *testing.T
	router http.Handler
	token  string
}

func setupTestAPI(t *testing.T) *testAPI {
	db := sqlstore.NewTestDB(t)
	health := NewHealthHandler(map[string]Pinger{"database": db}, zap.NewNop())
	router := NewRouter(newHandler(db), health, RouterConfig{Log: zap.NewNop(), JWTSecret: testSecret})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return &testAPI{t: t, router: router, token: token}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body == "" {
		reader = &bytes.Buffer{}
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	assert.Equal(t, rec.Code, resp.StatusCode)
	return resp
}

func TestCompanyEndpoints(t *testing.T) {
	api := setupTestAPI(t)

	t.Run("create", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/companies", `{"code":1,"name":"Acme","countryCode":"USA"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/api/companies/1", rec.Header().Get("Location"))

		var company core.CompanyDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &company))
		assert.Equal(t, core.CompanyDTO{Code: 1, Name: "Acme", CountryCode: "USA"}, company)
	})

	t.Run("duplicate code", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/companies", `{"code":1,"name":"Other","countryCode":"PT"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "Entity Already Exists", resp.Title)
		assert.Equal(t, "Company with code 1 already exists", resp.Detail)
	})

	t.Run("validation error", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/companies", `{"code":0,"name":" ","countryCode":"PT"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "Validation Error", resp.Title)
		assert.Contains(t, resp.Errors, "code")
		assert.Contains(t, resp.Errors, "name")
		assert.NotContains(t, resp.Errors, "countryCode")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/companies", "invalid json")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid JSON body", decodeError(t, rec).Detail)
	})

	t.Run("get", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/companies/1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"code":1,"name":"Acme","countryCode":"USA"}`, rec.Body.String())
	})

	t.Run("get unknown", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/companies/99", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "Entity Not Found", resp.Title)
		assert.Equal(t, "Company with code 99 was not found", resp.Detail)
	})

	t.Run("non numeric code", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/companies/abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update", func(t *testing.T) {
		rec := api.do(http.MethodPut, "/api/companies/1", `{"name":"Acme Corp","countryCode":"CAN"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"code":1,"name":"Acme Corp","countryCode":"CAN"}`, rec.Body.String())
	})

	t.Run("list is ordered by code", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/companies", `{"code":3,"name":"C","countryCode":"PT"}`).Code)
		require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/companies", `{"code":2,"name":"B","countryCode":"PT"}`).Code)

		rec := api.do(http.MethodGet, "/api/companies", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var companies []core.CompanyDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &companies))
		require.Len(t, companies, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{companies[0].Code, companies[1].Code, companies[2].Code})
	})

	t.Run("delete", func(t *testing.T) {
		rec := api.do(http.MethodDelete, "/api/companies/3", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = api.do(http.MethodGet, "/api/companies/3", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStoreAndProductEndpoints(t *testing.T) {
	api := setupTestAPI(t)

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/companies", `{"code":1,"name":"Acme","countryCode":"USA"}`).Code)

	rec := api.do(http.MethodPost, "/api/companies/1/stores", `{"code":10,"name":"Downtown","address":"Main St"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/companies/1/stores/10", rec.Header().Get("Location"))
	assert.JSONEq(t, `{"code":10,"companyCode":1,"name":"Downtown","address":"Main St"}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/companies/2/stores", `{"code":10,"name":"Nowhere","address":"-"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/api/companies/2/stores", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/companies/1/stores/10/products",
		`{"code":100,"name":"Widget","description":"A widget","price":9.99}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/companies/1/stores/10/products/100", rec.Header().Get("Location"))
	assert.JSONEq(t,
		`{"code":100,"storeCode":10,"companyCode":1,"name":"Widget","description":"A widget","price":9.99}`,
		rec.Body.String())

	t.Run("price below minimum", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/companies/1/stores/10/products",
			`{"code":101,"name":"Freebie","description":"Free","price":0}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"price must be at least 0.01"}, decodeError(t, rec).Errors["price"])
	})

	t.Run("update product", func(t *testing.T) {
		rec := api.do(http.MethodPut, "/api/companies/1/stores/10/products/100",
			`{"name":"Widget","description":"Cheaper","price":"4.50"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		var product core.ProductDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
		assert.True(t, decimal.RequireFromString("4.5").Equal(product.Price), "got %s", product.Price)
		assert.Equal(t, "Cheaper", product.Description)
	})

	t.Run("price is rounded and written as a number", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/companies/1/stores/10/products",
			`{"code":102,"name":"Gizmo","description":"Precise","price":12.3456789}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"price":12.35`)

		rec = api.do(http.MethodGet, "/api/companies/1/stores/10/products/102", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"price":12.35`)
		assert.False(t, decimal.MarshalJSONWithoutQuotes)

		rec = api.do(http.MethodDelete, "/api/companies/1/stores/10/products/102", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("price too large", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/companies/1/stores/10/products",
			`{"code":103,"name":"Yacht","description":"Dear","price":1e20}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Errors, "price")
	})

	t.Run("product in wrong company is not found", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/companies/2/stores/10/products/100", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete guards", func(t *testing.T) {
		rec := api.do(http.MethodDelete, "/api/companies/1", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Conflict In The Delete Operation", decodeError(t, rec).Title)

		rec = api.do(http.MethodDelete, "/api/companies/1/stores/10", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "It is not possible to delete a store that has associated products", decodeError(t, rec).Detail)
	})

	t.Run("delete bottom up", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/companies/1/stores/10/products/100", "").Code)
		assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/companies/1/stores/10", "").Code)
		assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/companies/1", "").Code)

		rec := api.do(http.MethodGet, "/api/companies", "")
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestAuthentication(t *testing.T) {
	api := setupTestAPI(t)
	body := `{"code":1,"name":"Acme","countryCode":"USA"}`

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/companies", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		api.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "mallory"}).SignedString([]byte("other"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/companies", bytes.NewBufferString(body))
		req.Header.Set("Authorization", "Bearer "+forged)
		rec := httptest.NewRecorder()

		api.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("reads are public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
		rec := httptest.NewRecorder()

		api.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandler_GetCompany_InvalidCode(t *testing.T) {
	h := newHandler(new(mocks.Database))

	req := httptest.NewRequest(http.MethodGet, "/api/companies/abc", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("code", "abc")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.GetCompany(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid code: must be an integer", decodeError(t, rec).Detail)
}

func TestHandler_InternalError(t *testing.T) {
	db := new(mocks.Database)
	db.On("Begin", mock.Anything).Return(nil, errors.New("connection refused"))
	h := newHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	rec := httptest.NewRecorder()

	h.ListCompanies(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Internal Server Error", resp.Title)
	assert.NotContains(t, resp.Detail, "connection refused")
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		h := NewHealthHandler(nil, zap.NewNop())
		rec := httptest.NewRecorder()

		h.Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		h := NewHealthHandler(map[string]Pinger{"database": pingerFunc(func(context.Context) error { return nil })}, zap.NewNop())
		rec := httptest.NewRecorder()

		h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","services":{"database":"healthy"}}`, rec.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		observed, logs := observer.New(zap.WarnLevel)
		h := NewHealthHandler(map[string]Pinger{"database": pingerFunc(func(context.Context) error {
			return errors.New("dial tcp 10.0.0.5:5432: connection refused")
		})}, zap.New(observed))
		rec := httptest.NewRecorder()

		h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unhealthy","services":{"database":"unhealthy"}}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")

		entries := logs.FilterField(zap.String("dependency", "database")).All()
		require.Len(t, entries, 1)
		assert.Equal(t, "dial tcp 10.0.0.5:5432: connection refused", entries[0].ContextMap()["error"])
	})
}
