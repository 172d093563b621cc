// Package stats aggregates the catalog counters shown on the admin dashboard.
package stats

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/dmreyes-dev/partstream-backend/pkg/db/models"
	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
)

// Overview is the aggregate snapshot returned to admins.
type Overview struct {
	Products   ProductStats     `json:"products"`
	Categories int64            `json:"categories"`
	Inquiries  InquiryStats     `json:"inquiries"`
	ByStatus   map[string]int64 `json:"inquiriesByStatus"`
}

// ProductStats breaks the active catalog down by visibility flags.
type ProductStats struct {
	Total      int64 `json:"total"`
	Featured   int64 `json:"featured"`
	OutOfStock int64 `json:"outOfStock"`
}

// InquiryStats carries the overall inquiry volume.
type InquiryStats struct {
	Total int64 `json:"total"`
}

// Repository runs the aggregate count queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountActiveProducts returns how many products are publicly visible.
func (r *Repository) CountActiveProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&count).
		Error
	return count, err
}

// CountFeaturedProducts returns how many active products are featured.
func (r *Repository) CountFeaturedProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND is_featured = ?", true, true).
		Count(&count).
		Error
	return count, err
}

// CountOutOfStockProducts returns how many active products cannot be bought.
func (r *Repository) CountOutOfStockProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND stock_status = ?", true, enums.StockStatusOutOfStock).
		Count(&count).
		Error
	return count, err
}

// CountActiveCategories returns how many categories are publicly visible.
func (r *Repository) CountActiveCategories(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("is_active = ?", true).
		Count(&count).
		Error
	return count, err
}

// CountInquiriesByStatus buckets every inquiry into its workflow state.
func (r *Repository) CountInquiriesByStatus(ctx context.Context) (map[enums.InquiryStatus]int64, error) {
	type bucket struct {
		Status enums.InquiryStatus
		Count  int64
	}
	var rows []bucket
	err := r.db.WithContext(ctx).
		Model(&models.Inquiry{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.InquiryStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

type counter interface {
	CountActiveProducts(ctx context.Context) (int64, error)
	CountFeaturedProducts(ctx context.Context) (int64, error)
	CountOutOfStockProducts(ctx context.Context) (int64, error)
	CountActiveCategories(ctx context.Context) (int64, error)
	CountInquiriesByStatus(ctx context.Context) (map[enums.InquiryStatus]int64, error)
}

// Service assembles the dashboard overview.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	repo counter
}

// NewService constructs a stats service instance.
func NewService(repo counter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	return &service{repo: repo}, nil
}

// Overview gathers every counter. Statuses with zero inquiries still appear
// so dashboards don't have to special-case missing keys.
func (s *service) Overview(ctx context.Context) (*Overview, error) {
	products, err := s.repo.CountActiveProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	featured, err := s.repo.CountFeaturedProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count featured products")
	}
	outOfStock, err := s.repo.CountOutOfStockProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count out-of-stock products")
	}
	categories, err := s.repo.CountActiveCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count categories")
	}
	byStatus, err := s.repo.CountInquiriesByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count inquiries")
	}

	statuses := map[string]int64{}
	var inquiryTotal int64
	for _, status := range enums.InquiryStatuses() {
		count := byStatus[status]
		statuses[status.String()] = count
		inquiryTotal += count
	}

	return &Overview{
		Products: ProductStats{
			Total:      products,
			Featured:   featured,
			OutOfStock: outOfStock,
		},
		Categories: categories,
		Inquiries:  InquiryStats{Total: inquiryTotal},
		ByStatus:   statuses,
	}, nil
}
