package category

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmreyes-dev/partstream-backend/pkg/db/models"
)

// Repository wires together category persistence helpers.
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

// Create inserts a new category row.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Update saves all fields of an existing category row.
func (r *Repository) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindByID loads a category regardless of active state.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindActiveByIDOrSlug resolves the public detail lookup. A UUID string is
// matched on id, anything else on slug.
func (r *Repository) FindActiveByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Category, error) {
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if id, err := uuid.Parse(idOrSlug); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("slug = ?", idOrSlug)
	}
	var category models.Category
	if err := query.First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListActive returns all active categories ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListActiveParents returns active top-level categories ordered by name.
func (r *Repository) ListActiveParents(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND parent_id IS NULL", true).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListActiveChildren returns the active subcategories of a category.
func (r *Repository) ListActiveChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND parent_id = ?", true, parentID).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// CountActiveChildren counts active subcategories of a category.
func (r *Repository) CountActiveChildren(ctx context.Context, parentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("is_active = ? AND parent_id = ?", true, parentID).
		Count(&count).
		Error
	return count, err
}

// CountActiveProducts counts active products still filed under a category.
func (r *Repository) CountActiveProducts(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Count(&count).
		Error
	return count, err
}

// Deactivate flips is_active off; the row is retained.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}
