package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/config"
	"shopfront/internal/models"
	"shopfront/internal/repository"
	"shopfront/internal/service"
)

type stubAuth map[string]models.User

func (s stubAuth) Authenticate(_ context.Context, token, _, _ string) (service.Principal, error) {
	user, ok := s[token]
	if !ok {
		return service.Principal{}, &service.Error{Kind: service.ErrUnauthorized, Message: "Invalid or expired token"}
	}
	return service.Principal{User: user}, nil
}

type memCategories struct {
	rows     []models.Category
	products map[string]int
}

func (m *memCategories) List(context.Context) ([]models.Category, error) {
	return append([]models.Category{}, m.rows...), nil
}

func (m *memCategories) GetByID(_ context.Context, id string) (models.Category, error) {
	for _, row := range m.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return models.Category{}, repository.ErrCategoryNotFound
}

func (m *memCategories) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, row := range m.rows {
		if row.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCategories) Create(_ context.Context, category models.Category) (models.Category, error) {
	if ok, _ := m.SlugExists(context.Background(), category.Slug); ok {
		return models.Category{}, repository.ErrSlugTaken
	}
	m.rows = append(m.rows, category)
	return category, nil
}

func (m *memCategories) Update(_ context.Context, category models.Category) (models.Category, error) {
	for i, row := range m.rows {
		if row.ID == category.ID {
			m.rows[i] = category
			return category, nil
		}
	}
	return models.Category{}, repository.ErrCategoryNotFound
}

func (m *memCategories) CountProducts(_ context.Context, id string) (int, error) {
	return m.products[id], nil
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	for i, row := range m.rows {
		if row.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrCategoryNotFound
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, categories *memCategories, db pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := HandlerSet{
		log: zerolog.Nop(),
		cfg: &config.AppConfig{Environment: "test"},
		authn: stubAuth{
			"admin":    {ID: "u-admin", Role: models.UserRoleAdmin, Status: models.UserStatusActive},
			"customer": {ID: "u-customer", Role: models.UserRoleCustomer, Status: models.UserStatusActive},
		},
		categories: service.NewCategoryService(categories, nil, zerolog.Nop()),
		db:         db,
		cache:      stubPinger{},
	}

	engine := gin.New()
	h.Routes(engine.Group("/api"))
	return engine
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestCreateCategoryDerivesSlugAndRejectsDuplicate(t *testing.T) {
	store := &memCategories{}
	r := newTestRouter(t, store, stubPinger{})

	w, resp := do(t, r, http.MethodPost, "/api/v1/categories", "admin", gin.H{"name": "  Sheet Masks "})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "Category created successfully", resp.Message)

	var created models.Category
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "Sheet Masks", created.Name)
	assert.Equal(t, "sheet-masks", created.Slug)
	assert.NotEmpty(t, created.ID)

	w, resp = do(t, r, http.MethodPost, "/api/v1/categories", "admin", gin.H{"name": "Sheet Masks"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Category with this slug already exists", resp.Message)
	assert.Len(t, store.rows, 1)
}

func TestCreateCategoryValidation(t *testing.T) {
	r := newTestRouter(t, &memCategories{}, stubPinger{})

	w, resp := do(t, r, http.MethodPost, "/api/v1/categories", "admin", gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Category name is required", resp.Message)

	w, resp = do(t, r, http.MethodPost, "/api/v1/categories", "admin", gin.H{"name": "!!!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Category slug cannot be empty", resp.Message)
}

func TestCategoryMutationsRequireBackOfficeRole(t *testing.T) {
	r := newTestRouter(t, &memCategories{}, stubPinger{})

	w, resp := do(t, r, http.MethodPost, "/api/v1/categories", "", gin.H{"name": "Toners"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", resp.Message)

	w, resp = do(t, r, http.MethodPost, "/api/v1/categories", "customer", gin.H{"name": "Toners"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Insufficient permissions", resp.Message)

	w, _ = do(t, r, http.MethodPost, "/api/v1/categories", "expired", gin.H{"name": "Toners"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListCategoriesIsPublic(t *testing.T) {
	store := &memCategories{rows: []models.Category{{ID: "c1", Name: "Serums", Slug: "serums"}}}
	r := newTestRouter(t, store, stubPinger{})

	w, resp := do(t, r, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.Category
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "serums", list[0].Slug)
}

func TestDeleteCategoryInUse(t *testing.T) {
	store := &memCategories{
		rows:     []models.Category{{ID: "c1", Name: "Serums", Slug: "serums"}},
		products: map[string]int{"c1": 3},
	}
	r := newTestRouter(t, store, stubPinger{})

	w, resp := do(t, r, http.MethodDelete, "/api/v1/categories/c1", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot delete category. 3 product(s) are using this category.", resp.Message)
	assert.Len(t, store.rows, 1)

	store.products["c1"] = 0
	w, resp = do(t, r, http.MethodDelete, "/api/v1/categories/c1", "admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Category deleted successfully", resp.Message)
	assert.Empty(t, store.rows)

	w, resp = do(t, r, http.MethodDelete, "/api/v1/categories/c1", "admin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", resp.Message)
}

func TestUpdateUnknownCategory(t *testing.T) {
	r := newTestRouter(t, &memCategories{}, stubPinger{})

	w, resp := do(t, r, http.MethodPut, "/api/v1/categories/missing", "admin", gin.H{"name": "Serums"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", resp.Message)
}

func TestHealthReportsDegradedDatabase(t *testing.T) {
	r := newTestRouter(t, &memCategories{}, stubPinger{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "error", body.Database)
	assert.Equal(t, "ok", body.Cache)
}

func TestFailHidesUnexpectedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := HandlerSet{log: zerolog.Nop()}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h.fail(c, errors.New("pq: relation does not exist"), "Failed to fetch orders")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Failed to fetch orders"}`, w.Body.String())
}

func TestPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&perPage=10", nil)

	limit, offset := pagination(c, 50)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)
}
