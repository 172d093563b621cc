package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmreyes-dev/partstream-backend/pkg/db/models"
	"github.com/dmreyes-dev/partstream-backend/pkg/listing"
)

// Repository wires together all product-related persistence helpers.
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

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save persists every column of an existing product row.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product without associations, active or not.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveByID fetches an active product with its category, compatibility
// ranges, and ordered specification rows.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Compatibility").
		Preload("Specifications", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, "id = ? AND is_active = ?", id, true).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List runs the parsed catalog query twice against active rows: once for the
// unpaginated total and once for the requested page. Associations are skipped
// when the caller asked for a field projection, because the trimmed SELECT no
// longer carries the foreign keys the preloads need.
func (r *Repository) List(ctx context.Context, query *listing.Query) ([]models.Product, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Product{}).Where("products.is_active = ?", true)

	var total int64
	if err := query.ApplyForCount(base.Session(&gorm.Session{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Apply(base.Session(&gorm.Session{}))
	if len(query.Fields) == 0 {
		page = page.
			Preload("Category").
			Preload("Compatibility").
			Preload("Specifications", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			})
	}

	var rows []models.Product
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ReplaceCompatibility swaps the product's vehicle ranges for the given set.
func (r *Repository) ReplaceCompatibility(ctx context.Context, productID uuid.UUID, rows []models.ProductCompatibility) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductCompatibility{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// ReplaceSpecifications swaps the product's specification rows for the given set.
func (r *Repository) ReplaceSpecifications(ctx context.Context, productID uuid.UUID, rows []models.ProductSpecification) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductSpecification{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// SetImageURL updates only the stored image location.
func (r *Repository) SetImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("image_url", imageURL).
		Error
}

// Deactivate hides the product from public reads without removing the row.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}
