// Package category manages the parts taxonomy: a flat table of named nodes
// with an optional parent reference. Writes are admin-only; public reads see
// active rows exclusively.
package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/dmreyes-dev/partstream-backend/pkg/db"
	"github.com/dmreyes-dev/partstream-backend/pkg/db/models"
	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
)

// Service exposes category read and admin management operations.
type Service interface {
	List(ctx context.Context) ([]models.Category, error)
	ListParents(ctx context.Context) ([]models.Category, error)
	GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Category, error)
	Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	ParentID    *uuid.UUID
	Description *string
	ImageURL    *string
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	ParentID    *uuid.UUID
	ClearParent bool
	Description *string
	ImageURL    *string
}

type store interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindActiveByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Category, error)
	ListActive(ctx context.Context) ([]models.Category, error)
	ListActiveParents(ctx context.Context) ([]models.Category, error)
	ListActiveChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error)
	CountActiveChildren(ctx context.Context, parentID uuid.UUID) (int64, error)
	CountActiveProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo store
}

// NewService constructs a category service instance.
func NewService(repo store) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) ListParents(ctx context.Context) ([]models.Category, error) {
	parents, err := s.repo.ListActiveParents(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parent categories")
	}
	for i := range parents {
		children, err := s.repo.ListActiveChildren(ctx, parents[i].ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subcategories")
		}
		parents[i].Subcategories = children
	}
	return parents, nil
}

func (s *service) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Category, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category identifier required")
	}

	category, err := s.repo.FindActiveByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	children, err := s.repo.ListActiveChildren(ctx, category.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subcategories")
	}
	category.Subcategories = children
	return category, nil
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(name) > 50 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must be at most 50 characters")
	}

	if input.ParentID != nil {
		if err := s.ensureActiveParent(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug.Make(name),
		ParentID:    input.ParentID,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}

	created, err := s.repo.Create(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		if len(name) > 50 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must be at most 50 characters")
		}
		category.Name = name
		category.Slug = slug.Make(name)
	}

	switch {
	case input.ClearParent:
		category.ParentID = nil
	case input.ParentID != nil:
		if *input.ParentID == category.ID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be its own parent")
		}
		if err := s.ensureActiveParent(ctx, *input.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = input.ParentID
	}

	if input.Description != nil {
		category.Description = input.Description
	}
	if input.ImageURL != nil {
		category.ImageURL = input.ImageURL
	}

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return updated, nil
}

// Delete deactivates the category. The row stays so historical references
// survive, but a category with active subcategories or products cannot be
// removed.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	children, err := s.repo.CountActiveChildren(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count subcategories")
	}
	if children > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category has active subcategories").
			WithDetails(map[string]any{"subcategories": children})
	}

	products, err := s.repo.CountActiveProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if products > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category has active products").
			WithDetails(map[string]any{"products": products})
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate category")
	}
	return nil
}

func (s *service) ensureActiveParent(ctx context.Context, parentID uuid.UUID) error {
	parent, err := s.repo.FindByID(ctx, parentID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "parent category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent category")
	}
	if !parent.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "parent category is inactive")
	}
	return nil
}
