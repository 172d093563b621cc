package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	categorysvc "github.com/dmreyes-dev/partstream-backend/internal/categories"
	"github.com/dmreyes-dev/partstream-backend/pkg/db/models"
	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
)

type stubCategoryService struct {
	listFn   func(ctx context.Context) ([]models.Category, error)
	getFn    func(ctx context.Context, idOrSlug string) (*models.Category, error)
	createFn func(ctx context.Context, input categorysvc.CreateCategoryInput) (*models.Category, error)
	updateFn func(ctx context.Context, id uuid.UUID, input categorysvc.UpdateCategoryInput) (*models.Category, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (s *stubCategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}

func (s *stubCategoryService) ListParents(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}

func (s *stubCategoryService) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Category, error) {
	return s.getFn(ctx, idOrSlug)
}

func (s *stubCategoryService) Create(ctx context.Context, input categorysvc.CreateCategoryInput) (*models.Category, error) {
	return s.createFn(ctx, input)
}

func (s *stubCategoryService) Update(ctx context.Context, id uuid.UUID, input categorysvc.UpdateCategoryInput) (*models.Category, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func categoryRouter(svc categorysvc.Service, t *testing.T) http.Handler {
	t.Helper()
	logg := testLogger(t)
	r := chi.NewRouter()
	r.Get("/categories", ListCategories(svc, logg))
	r.Get("/categories/parents", ListParentCategories(svc, logg))
	r.Get("/categories/{idOrSlug}", GetCategory(svc, logg))
	r.Post("/categories", CreateCategory(svc, logg))
	r.Patch("/categories/{id}", UpdateCategory(svc, logg))
	r.Delete("/categories/{id}", DeleteCategory(svc, logg))
	return r
}

func TestListCategoriesEnvelope(t *testing.T) {
	svc := &stubCategoryService{
		listFn: func(context.Context) ([]models.Category, error) {
			return []models.Category{{Name: "Brakes", Slug: "brakes"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	rec := httptest.NewRecorder()
	categoryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
	assert.Contains(t, rec.Body.String(), `"slug":"brakes"`)
}

func TestGetCategoryPassesPathSegment(t *testing.T) {
	var captured string
	svc := &stubCategoryService{
		getFn: func(_ context.Context, idOrSlug string) (*models.Category, error) {
			captured = idOrSlug
			return &models.Category{Name: "Brakes", Slug: "brakes"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/categories/brakes", nil)
	rec := httptest.NewRecorder()
	categoryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "brakes", captured)
}

func TestGetCategoryNotFound(t *testing.T) {
	svc := &stubCategoryService{
		getFn: func(context.Context, string) (*models.Category, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/categories/missing", nil)
	rec := httptest.NewRecorder()
	categoryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"fail"`)
}

func TestCreateCategoryDecodesParent(t *testing.T) {
	parentID := uuid.New()
	var got categorysvc.CreateCategoryInput
	svc := &stubCategoryService{
		createFn: func(_ context.Context, input categorysvc.CreateCategoryInput) (*models.Category, error) {
			got = input
			return &models.Category{Name: input.Name}, nil
		},
	}

	body := `{"name":"Filters","parentId":"` + parentID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(body))
	rec := httptest.NewRecorder()
	categoryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Filters", got.Name)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, parentID, *got.ParentID)
}

func TestCreateCategoryRejectsUnknownFields(t *testing.T) {
	svc := &stubCategoryService{
		createFn: func(_ context.Context, input categorysvc.CreateCategoryInput) (*models.Category, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"x","bogus":true}`))
	rec := httptest.NewRecorder()
	categoryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCategoryEmptyParentClears(t *testing.T) {
	var got categorysvc.UpdateCategoryInput
	svc := &stubCategoryService{
		updateFn: func(_ context.Context, _ uuid.UUID, input categorysvc.UpdateCategoryInput) (*models.Category, error) {
			got = input
			return &models.Category{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/categories/"+uuid.NewString(), strings.NewReader(`{"parentId":""}`))
	rec := httptest.NewRecorder()
	categoryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.ClearParent)
	assert.Nil(t, got.ParentID)
}

func TestDeleteCategoryNoContent(t *testing.T) {
	svc := &stubCategoryService{
		deleteFn: func(context.Context, uuid.UUID) error { return nil },
	}

	req := httptest.NewRequest(http.MethodDelete, "/categories/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	categoryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteCategoryInvalidID(t *testing.T) {
	svc := &stubCategoryService{
		deleteFn: func(context.Context, uuid.UUID) error {
			t.Fatal("service must not be called")
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/categories/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	categoryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
