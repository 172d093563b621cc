package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the parts taxonomy. The tree is a plain parent
// reference; subcategories are computed by querying on parent_id, never
// stored on the row.
type Category struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"column:name;size:50;not null;uniqueIndex" json:"name"`
	Slug        string     `gorm:"column:slug;size:60;not null;uniqueIndex" json:"slug"`
	ParentID    *uuid.UUID `gorm:"column:parent_id;type:uuid;index" json:"parentId,omitempty"`
	Parent      *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	ImageURL    *string    `gorm:"column:image_url" json:"imageUrl,omitempty"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true" json:"-"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Subcategories is populated by read paths that need the reverse lookup.
	Subcategories []Category `gorm:"-" json:"subcategories,omitempty"`
}
