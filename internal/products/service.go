// Package product implements the catalog: public browsing with search,
// filters, vehicle compatibility, and pagination, plus admin management of
// listings and their image assets.
package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dmreyes-dev/partstream-backend/pkg/db"
	"github.com/dmreyes-dev/partstream-backend/pkg/db/models"
	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
	"github.com/dmreyes-dev/partstream-backend/pkg/listing"
)

const minCompatibilityYear = 1900

// Service exposes catalog read and admin product management operations.
type Service interface {
	List(ctx context.Context, query *listing.Query) ([]models.Product, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UploadImage(ctx context.Context, id uuid.UUID, upload ImageUpload) (*models.Product, error)
}

// CompatibilityInput declares one vehicle range the part fits.
type CompatibilityInput struct {
	Make      string
	Model     string
	YearStart int
	YearEnd   int
}

// SpecificationInput is one labelled attribute row; order in the slice is the
// display order.
type SpecificationInput struct {
	Label string
	Value string
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name           string
	SKU            string
	CategoryID     uuid.UUID
	Description    *string
	Price          decimal.Decimal
	StockStatus    enums.StockStatus
	ImageURL       string
	Model3DURL     *string
	Model3DType    *enums.Model3DType
	IsFeatured     bool
	Compatibility  []CompatibilityInput
	Specifications []SpecificationInput
}

// UpdateProductInput holds optional mutation values for a product. Nil slice
// pointers leave the existing compatibility or specification rows untouched;
// non-nil pointers replace them wholesale.
type UpdateProductInput struct {
	Name           *string
	SKU            *string
	CategoryID     *uuid.UUID
	Description    *string
	Price          *decimal.Decimal
	StockStatus    *enums.StockStatus
	ImageURL       *string
	Model3DURL     *string
	Model3DType    *enums.Model3DType
	ClearModel3D   bool
	IsFeatured     *bool
	Compatibility  *[]CompatibilityInput
	Specifications *[]SpecificationInput
}

// ImageUpload carries one product image received from a client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type imageStore interface {
	Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error)
}

// service implements the product service.
type service struct {
	repo       *Repository
	dbClient   *db.Client
	categories categoryLoader
	images     imageStore
}

// NewService constructs a product service instance. The image store may be
// nil when object storage is not configured; uploads then fail with a
// dependency error instead of at boot.
func NewService(repo *Repository, dbClient *db.Client, categories categoryLoader, images imageStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{
		repo:       repo,
		dbClient:   dbClient,
		categories: categories,
		images:     images,
	}, nil
}

func (s *service) List(ctx context.Context, query *listing.Query) ([]models.Product, int64, error) {
	if query == nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "list query required")
	}
	rows, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, total, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// Create inserts the product with its compatibility and specification rows in
// a single transaction.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)
	input.ImageURL = strings.TrimSpace(input.ImageURL)

	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.ImageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "imageUrl is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.StockStatus == "" {
		input.StockStatus = enums.StockStatusInStock
	}
	if !input.StockStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown stock status")
	}
	if err := validateModel3D(input.Model3DURL, input.Model3DType); err != nil {
		return nil, err
	}
	if err := validateCompatibility(input.Compatibility); err != nil {
		return nil, err
	}
	if err := validateSpecifications(input.Specifications); err != nil {
		return nil, err
	}
	if err := s.ensureActiveCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			Name:        input.Name,
			SKU:         input.SKU,
			CategoryID:  input.CategoryID,
			Description: input.Description,
			Price:       input.Price,
			StockStatus: input.StockStatus,
			ImageURL:    input.ImageURL,
			Model3DURL:  input.Model3DURL,
			Model3DType: input.Model3DType,
			IsFeatured:  input.IsFeatured,
			IsActive:    true,
		}

		created, err := txRepo.Create(ctx, product)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product name or sku already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID

		if err := txRepo.ReplaceCompatibility(ctx, created.ID, buildCompatibilityRows(created.ID, input.Compatibility)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace compatibility")
		}
		if err := txRepo.ReplaceSpecifications(ctx, created.ID, buildSpecificationRows(created.ID, input.Specifications)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace specifications")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	product, err := s.repo.FindActiveByID(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return product, nil
}

// Update mutates an existing product and, when sub-list pointers are set,
// replaces its compatibility and specification rows.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if err := validateName(trimmed); err != nil {
			return nil, err
		}
		input.Name = &trimmed
	}
	if input.SKU != nil {
		trimmed := strings.TrimSpace(*input.SKU)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		input.SKU = &trimmed
	}
	if input.ImageURL != nil {
		trimmed := strings.TrimSpace(*input.ImageURL)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "imageUrl cannot be empty")
		}
		input.ImageURL = &trimmed
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.StockStatus != nil && !input.StockStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown stock status")
	}
	if input.Compatibility != nil {
		if err := validateCompatibility(*input.Compatibility); err != nil {
			return nil, err
		}
	}
	if input.Specifications != nil {
		if err := validateSpecifications(*input.Specifications); err != nil {
			return nil, err
		}
	}
	if input.CategoryID != nil {
		if err := s.ensureActiveCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	applyUpdateToProduct(product, input)
	if err := validateModel3D(product.Model3DURL, product.Model3DType); err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.Save(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product name or sku already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}

		if input.Compatibility != nil {
			if err := txRepo.ReplaceCompatibility(ctx, product.ID, buildCompatibilityRows(product.ID, *input.Compatibility)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace compatibility")
			}
		}
		if input.Specifications != nil {
			if err := txRepo.ReplaceSpecifications(ctx, product.ID, buildSpecificationRows(product.ID, *input.Specifications)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace specifications")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	updated, err := s.repo.FindActiveByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return updated, nil
}

// Delete deactivates the product so past inquiries keep a valid reference.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate product")
	}
	return nil
}

// UploadImage stores the image object and points the product at it.
func (s *service) UploadImage(ctx context.Context, id uuid.UUID, upload ImageUpload) (*models.Product, error) {
	if s.images == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image storage is not configured")
	}
	if upload.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image body is required")
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file must be an image")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	objectName := imageObjectName(product.ID, upload.Filename, time.Now().UTC())
	imageURL, err := s.images.Upload(ctx, objectName, upload.ContentType, upload.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: upload image")
	}

	if err := s.repo.SetImageURL(ctx, product.ID, imageURL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set image url")
	}
	product.ImageURL = imageURL
	return product, nil
}

func (s *service) ensureActiveCategory(ctx context.Context, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if !category.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is inactive")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(name) > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "name must be at most 100 characters")
	}
	return nil
}

// validateModel3D requires the URL and format to travel together.
func validateModel3D(url *string, kind *enums.Model3DType) error {
	if (url == nil) != (kind == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "model3d url and type must be set together")
	}
	if kind != nil && !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown model3d type")
	}
	return nil
}

func validateCompatibility(rows []CompatibilityInput) error {
	currentYear := time.Now().Year()
	for _, row := range rows {
		if strings.TrimSpace(row.Make) == "" || strings.TrimSpace(row.Model) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "compatibility make and model are required")
		}
		if row.YearStart < minCompatibilityYear || row.YearStart > currentYear+1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "compatibility year_start out of range")
		}
		if row.YearEnd < row.YearStart {
			return pkgerrors.New(pkgerrors.CodeValidation, "compatibility year_end must be >= year_start")
		}
	}
	return nil
}

func validateSpecifications(rows []SpecificationInput) error {
	for _, row := range rows {
		if strings.TrimSpace(row.Label) == "" || strings.TrimSpace(row.Value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "specification label and value are required")
		}
	}
	return nil
}

func buildCompatibilityRows(productID uuid.UUID, inputs []CompatibilityInput) []models.ProductCompatibility {
	rows := make([]models.ProductCompatibility, 0, len(inputs))
	for _, input := range inputs {
		rows = append(rows, models.ProductCompatibility{
			ProductID: productID,
			Make:      strings.TrimSpace(input.Make),
			Model:     strings.TrimSpace(input.Model),
			YearStart: input.YearStart,
			YearEnd:   input.YearEnd,
		})
	}
	return rows
}

func buildSpecificationRows(productID uuid.UUID, inputs []SpecificationInput) []models.ProductSpecification {
	rows := make([]models.ProductSpecification, 0, len(inputs))
	for idx, input := range inputs {
		rows = append(rows, models.ProductSpecification{
			ProductID: productID,
			Label:     strings.TrimSpace(input.Label),
			Value:     strings.TrimSpace(input.Value),
			Position:  idx,
		})
	}
	return rows
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.StockStatus != nil {
		product.StockStatus = *input.StockStatus
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.ClearModel3D {
		product.Model3DURL = nil
		product.Model3DType = nil
	} else {
		if input.Model3DURL != nil {
			product.Model3DURL = input.Model3DURL
		}
		if input.Model3DType != nil {
			product.Model3DType = input.Model3DType
		}
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
}

// imageObjectName keeps uploads unique per product while preserving the
// original extension for content-type guessing downstream.
func imageObjectName(productID uuid.UUID, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("products/%s/%d%s", productID, now.UnixNano(), ext)
}
