package inquiry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmreyes-dev/partstream-backend/pkg/db/models"
	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
	"github.com/dmreyes-dev/partstream-backend/pkg/pagination"
)

// ListFilters narrows the admin inquiry listing.
type ListFilters struct {
	Status *enums.InquiryStatus
	Type   *enums.InquiryType
}

// Repository persists customer inquiries.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new inquiry row.
func (r *Repository) Create(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error) {
	if err := r.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		return nil, err
	}
	return inquiry, nil
}

// FindByID fetches an inquiry with its product and author preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("User").
		First(&inquiry, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// List pages through inquiries newest-first, optionally narrowed by status
// and type. The total reflects the filters, not the page.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Inquiry, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Inquiry{})
	if filters.Status != nil {
		base = base.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		base = base.Where("type = ?", *filters.Type)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Inquiry
	err := base.Session(&gorm.Session{}).
		Preload("Product").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Save persists every column of an existing inquiry row.
func (r *Repository) Save(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error) {
	if err := r.db.WithContext(ctx).Save(inquiry).Error; err != nil {
		return nil, err
	}
	return inquiry, nil
}

// Delete removes the inquiry row permanently.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Inquiry{}).Error
}
