package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
)

// Inquiry is a customer question or quote request about a product.
type Inquiry struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID    uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index" json:"productId"`
	Product      *Product            `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	UserID       uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	User         *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	VehicleMake  string              `gorm:"column:vehicle_make;not null" json:"vehicleMake"`
	VehicleModel string              `gorm:"column:vehicle_model;not null" json:"vehicleModel"`
	VehicleYear  int                 `gorm:"column:vehicle_year;not null" json:"vehicleYear"`
	VehicleVIN   *string             `gorm:"column:vehicle_vin" json:"vehicleVin,omitempty"`
	ContactPhone string              `gorm:"column:contact_phone;not null" json:"contactPhone"`
	ContactEmail string              `gorm:"column:contact_email;not null" json:"contactEmail"`
	Type         enums.InquiryType   `gorm:"column:type;not null;default:general" json:"type"`
	Message      string              `gorm:"column:message;not null" json:"message"`
	Status       enums.InquiryStatus `gorm:"column:status;not null;default:new" json:"status"`
	AdminNotes   *string             `gorm:"column:admin_notes" json:"adminNotes,omitempty"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
