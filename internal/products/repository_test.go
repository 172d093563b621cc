package product

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dmreyes-dev/partstream-backend/pkg/db/models"
	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
	"github.com/dmreyes-dev/partstream-backend/pkg/listing"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("PARTSTREAM_DB_DSN")
	if dsn == "" {
		t.Skip("PARTSTREAM_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateTestCategory(t *testing.T, tx *gorm.DB) *models.Category {
	t.Helper()
	suffix := uuid.NewString()[:8]
	category := &models.Category{
		Name:     "Brakes " + suffix,
		Slug:     "brakes-" + suffix,
		IsActive: true,
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, categoryID uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        fmt.Sprintf("Ceramic Brake Pad %s", uuid.NewString()),
		SKU:         fmt.Sprintf("SKU-%s", uuid.NewString()),
		CategoryID:  categoryID,
		Price:       decimal.RequireFromString("49.99"),
		StockStatus: enums.StockStatusInStock,
		ImageURL:    "https://storage.googleapis.com/test/pad.jpg",
		IsActive:    true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustParseListQuery(t *testing.T, raw string) *listing.Query {
	t.Helper()
	values, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	query, err := listing.Parse(values, listing.ProductOptions())
	if err != nil {
		t.Fatalf("parse listing: %v", err)
	}
	return query
}

func TestRepositoryProductFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	category := mustCreateTestCategory(t, tx)
	created := mustCreateTestProduct(t, tx, category.ID)
	if created.ID == uuid.Nil {
		t.Fatal("expected product id to be generated")
	}

	if err := repo.ReplaceCompatibility(ctx, created.ID, []models.ProductCompatibility{
		{ProductID: created.ID, Make: "Toyota", Model: "Camry", YearStart: 2012, YearEnd: 2017},
	}); err != nil {
		t.Fatalf("replace compatibility: %v", err)
	}
	if err := repo.ReplaceSpecifications(ctx, created.ID, []models.ProductSpecification{
		{ProductID: created.ID, Label: "Material", Value: "Ceramic", Position: 0},
		{ProductID: created.ID, Label: "Position", Value: "Front", Position: 1},
	}); err != nil {
		t.Fatalf("replace specifications: %v", err)
	}

	detail, err := repo.FindActiveByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if detail.Category == nil || detail.Category.ID != category.ID {
		t.Fatal("expected category preloaded")
	}
	if len(detail.Compatibility) != 1 || len(detail.Specifications) != 2 {
		t.Fatalf("expected associations, got %d compat and %d specs",
			len(detail.Compatibility), len(detail.Specifications))
	}
	if detail.Specifications[0].Label != "Material" {
		t.Fatalf("expected specs ordered by position, got %s first", detail.Specifications[0].Label)
	}

	if err := repo.SetImageURL(ctx, created.ID, "https://storage.googleapis.com/test/new.jpg"); err != nil {
		t.Fatalf("set image url: %v", err)
	}

	if err := repo.Deactivate(ctx, created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := repo.FindActiveByID(ctx, created.ID); err == nil {
		t.Fatal("expected deactivated product hidden from active lookup")
	}
}

func TestRepositoryListTwoPass(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	category := mustCreateTestCategory(t, tx)
	first := mustCreateTestProduct(t, tx, category.ID)
	second := mustCreateTestProduct(t, tx, category.ID)
	_ = second

	if err := repo.ReplaceCompatibility(ctx, first.ID, []models.ProductCompatibility{
		{ProductID: first.ID, Make: "Honda", Model: "Civic", YearStart: 2016, YearEnd: 2021},
	}); err != nil {
		t.Fatalf("replace compatibility: %v", err)
	}

	query := mustParseListQuery(t, fmt.Sprintf("categoryId=%s&limit=1&page=1", category.ID))
	rows, total, err := repo.List(ctx, query)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total 2 before pagination, got %d", total)
	}
	if len(rows) != 1 {
		t.Fatalf("expected single page row, got %d", len(rows))
	}

	compat := mustParseListQuery(t, fmt.Sprintf("categoryId=%s&make=Honda&model=Civic&year=2018", category.ID))
	rows, total, err = repo.List(ctx, compat)
	if err != nil {
		t.Fatalf("list with compat: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != first.ID {
		t.Fatalf("expected only the compatible product, got total=%d rows=%d", total, len(rows))
	}
}
