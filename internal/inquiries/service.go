// Package inquiry handles customer questions and quote requests: customers
// file them against a product, admins work them through a small status
// pipeline.
package inquiry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmreyes-dev/partstream-backend/pkg/db"
	"github.com/dmreyes-dev/partstream-backend/pkg/db/models"
	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
	"github.com/dmreyes-dev/partstream-backend/pkg/pagination"
)

const minVehicleYear = 1900

// Service exposes inquiry submission and admin management operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInquiryInput) (*models.Inquiry, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Inquiry, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInquiryInput) (*models.Inquiry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateInquiryInput holds the validated payload for a new inquiry.
type CreateInquiryInput struct {
	ProductID    uuid.UUID
	VehicleMake  string
	VehicleModel string
	VehicleYear  int
	VehicleVIN   *string
	ContactPhone string
	ContactEmail string
	Type         enums.InquiryType
	Message      string
}

// UpdateInquiryInput carries the admin-editable fields.
type UpdateInquiryInput struct {
	Status     *enums.InquiryStatus
	AdminNotes *string
}

type store interface {
	Create(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Inquiry, int64, error)
	Save(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productLoader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     store
	products productLoader
}

// NewService constructs an inquiry service instance.
func NewService(repo store, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inquiry repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInquiryInput) (*models.Inquiry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	if _, err := s.products.FindActiveByID(ctx, input.ProductID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	inquiryType := input.Type
	if inquiryType == "" {
		inquiryType = enums.InquiryTypeGeneral
	}

	inquiry := &models.Inquiry{
		ProductID:    input.ProductID,
		UserID:       userID,
		VehicleMake:  strings.TrimSpace(input.VehicleMake),
		VehicleModel: strings.TrimSpace(input.VehicleModel),
		VehicleYear:  input.VehicleYear,
		VehicleVIN:   input.VehicleVIN,
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		ContactEmail: strings.ToLower(strings.TrimSpace(input.ContactEmail)),
		Type:         inquiryType,
		Message:      strings.TrimSpace(input.Message),
		Status:       enums.InquiryStatusNew,
	}

	created, err := s.repo.Create(ctx, inquiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert inquiry")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Inquiry, int64, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inquiries")
	}
	return rows, total, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inquiry")
	}
	return inquiry, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInquiryInput) (*models.Inquiry, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown inquiry status")
	}

	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inquiry")
	}

	if input.Status != nil {
		inquiry.Status = *input.Status
	}
	if input.AdminNotes != nil {
		inquiry.AdminNotes = input.AdminNotes
	}

	updated, err := s.repo.Save(ctx, inquiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update inquiry")
	}
	return updated, nil
}

// Delete removes the inquiry permanently; inquiries carry no history worth
// keeping once an admin discards them.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inquiry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete inquiry")
	}
	return nil
}

func validateCreate(input CreateInquiryInput) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	if strings.TrimSpace(input.VehicleMake) == "" || strings.TrimSpace(input.VehicleModel) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "vehicle make and model are required")
	}
	if input.VehicleYear < minVehicleYear || input.VehicleYear > time.Now().Year()+1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "vehicle year out of range")
	}
	if strings.TrimSpace(input.ContactPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact phone is required")
	}
	if strings.TrimSpace(input.ContactEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact email is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if input.Type != "" && !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown inquiry type")
	}
	return nil
}
