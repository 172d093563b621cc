package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmreyes-dev/partstream-backend/api/middleware"
	inquirysvc "github.com/dmreyes-dev/partstream-backend/internal/inquiries"
	"github.com/dmreyes-dev/partstream-backend/pkg/db/models"
	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
	"github.com/dmreyes-dev/partstream-backend/pkg/pagination"
)

type stubInquiryService struct {
	createFn func(ctx context.Context, userID uuid.UUID, input inquirysvc.CreateInquiryInput) (*models.Inquiry, error)
	listFn   func(ctx context.Context, filters inquirysvc.ListFilters, params pagination.Params) ([]models.Inquiry, int64, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	updateFn func(ctx context.Context, id uuid.UUID, input inquirysvc.UpdateInquiryInput) (*models.Inquiry, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (s *stubInquiryService) Create(ctx context.Context, userID uuid.UUID, input inquirysvc.CreateInquiryInput) (*models.Inquiry, error) {
	return s.createFn(ctx, userID, input)
}

func (s *stubInquiryService) List(ctx context.Context, filters inquirysvc.ListFilters, params pagination.Params) ([]models.Inquiry, int64, error) {
	return s.listFn(ctx, filters, params)
}

func (s *stubInquiryService) Get(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	return s.getFn(ctx, id)
}

func (s *stubInquiryService) Update(ctx context.Context, id uuid.UUID, input inquirysvc.UpdateInquiryInput) (*models.Inquiry, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubInquiryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func inquiryRouter(svc inquirysvc.Service, t *testing.T) http.Handler {
	t.Helper()
	logg := testLogger(t)
	r := chi.NewRouter()
	r.Post("/inquiries", CreateInquiry(svc, logg))
	r.Get("/inquiries", ListInquiries(svc, logg))
	r.Get("/inquiries/{id}", GetInquiry(svc, logg))
	r.Patch("/inquiries/{id}", UpdateInquiry(svc, logg))
	r.Delete("/inquiries/{id}", DeleteInquiry(svc, logg))
	return r
}

func inquiryBody(productID uuid.UUID) string {
	return `{
		"productId": "` + productID.String() + `",
		"vehicleMake": "Honda",
		"vehicleModel": "Civic",
		"vehicleYear": 2018,
		"contactPhone": "+1-555-0100",
		"contactEmail": "driver@example.com",
		"message": "Does this fit the EX trim?"
	}`
}

func TestCreateInquiryUsesAuthenticatedUser(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	var gotUser uuid.UUID
	svc := &stubInquiryService{
		createFn: func(_ context.Context, id uuid.UUID, input inquirysvc.CreateInquiryInput) (*models.Inquiry, error) {
			gotUser = id
			assert.Equal(t, productID, input.ProductID)
			assert.Equal(t, "Honda", input.VehicleMake)
			return &models.Inquiry{Status: enums.InquiryStatusNew}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/inquiries", strings.NewReader(inquiryBody(productID)))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()
	inquiryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, userID, gotUser)
}

func TestCreateInquiryWithoutUserContext(t *testing.T) {
	svc := &stubInquiryService{
		createFn: func(context.Context, uuid.UUID, inquirysvc.CreateInquiryInput) (*models.Inquiry, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/inquiries", strings.NewReader(inquiryBody(uuid.New())))
	rec := httptest.NewRecorder()
	inquiryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListInquiriesParsesStatusFilter(t *testing.T) {
	var gotFilters inquirysvc.ListFilters
	svc := &stubInquiryService{
		listFn: func(_ context.Context, filters inquirysvc.ListFilters, params pagination.Params) ([]models.Inquiry, int64, error) {
			gotFilters = filters
			assert.Equal(t, 1, params.Page)
			return []models.Inquiry{{Status: enums.InquiryStatusContacted}}, 1, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/inquiries?status=contacted", nil)
	rec := httptest.NewRecorder()
	inquiryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotFilters.Status)
	assert.Equal(t, enums.InquiryStatusContacted, *gotFilters.Status)

	var envelope struct {
		Results int   `json:"results"`
		Total   int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Results)
	assert.EqualValues(t, 1, envelope.Total)
}

func TestListInquiriesRejectsUnknownStatus(t *testing.T) {
	svc := &stubInquiryService{
		listFn: func(context.Context, inquirysvc.ListFilters, pagination.Params) ([]models.Inquiry, int64, error) {
			t.Fatal("service must not be called")
			return nil, 0, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/inquiries?status=archived", nil)
	rec := httptest.NewRecorder()
	inquiryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateInquiryParsesStatus(t *testing.T) {
	var gotInput inquirysvc.UpdateInquiryInput
	svc := &stubInquiryService{
		updateFn: func(_ context.Context, _ uuid.UUID, input inquirysvc.UpdateInquiryInput) (*models.Inquiry, error) {
			gotInput = input
			return &models.Inquiry{Status: enums.InquiryStatusClosed}, nil
		},
	}

	body := `{"status":"closed","adminNotes":"sold via phone"}`
	req := httptest.NewRequest(http.MethodPatch, "/inquiries/"+uuid.NewString(), strings.NewReader(body))
	rec := httptest.NewRecorder()
	inquiryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotInput.Status)
	assert.Equal(t, enums.InquiryStatusClosed, *gotInput.Status)
	require.NotNil(t, gotInput.AdminNotes)
	assert.Equal(t, "sold via phone", *gotInput.AdminNotes)
}

func TestDeleteInquiryNotFound(t *testing.T) {
	svc := &stubInquiryService{
		deleteFn: func(context.Context, uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/inquiries/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	inquiryRouter(svc, t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
