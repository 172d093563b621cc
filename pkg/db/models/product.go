package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
)

// Product is a catalog listing for a single part.
type Product struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string                 `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
	SKU            string                 `gorm:"column:sku;not null;uniqueIndex" json:"sku"`
	CategoryID     uuid.UUID              `gorm:"column:category_id;type:uuid;not null" json:"categoryId"`
	Category       *Category              `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Description    *string                `gorm:"column:description" json:"description,omitempty"`
	Price          decimal.Decimal        `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	StockStatus    enums.StockStatus      `gorm:"column:stock_status;not null;default:in_stock" json:"stockStatus"`
	ImageURL       string                 `gorm:"column:image_url;not null" json:"imageUrl"`
	Model3DURL     *string                `gorm:"column:model3d_url" json:"model3dUrl,omitempty"`
	Model3DType    *enums.Model3DType     `gorm:"column:model3d_type" json:"model3dType,omitempty"`
	IsFeatured     bool                   `gorm:"column:is_featured;not null;default:false" json:"featured"`
	IsActive       bool                   `gorm:"column:is_active;not null;default:true" json:"-"`
	Compatibility  []ProductCompatibility `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"compatibility"`
	Specifications []ProductSpecification `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"specification"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// ProductCompatibility declares one vehicle range a part fits. A filter on
// make/model/year must be satisfied by a single row, not across rows.
type ProductCompatibility struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index" json:"-"`
	Make      string    `gorm:"column:make;not null" json:"make"`
	Model     string    `gorm:"column:model;not null" json:"model"`
	YearStart int       `gorm:"column:year_start;not null" json:"yearStart"`
	YearEnd   int       `gorm:"column:year_end;not null" json:"yearEnd"`
}

// ProductSpecification is a labelled attribute row shown on the detail page.
type ProductSpecification struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index" json:"-"`
	Label     string    `gorm:"column:label;not null" json:"label"`
	Value     string    `gorm:"column:value;not null" json:"value"`
	Position  int       `gorm:"column:position;not null;default:0" json:"-"`
}
