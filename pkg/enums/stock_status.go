package enums

import "fmt"

// StockStatus represents the availability of a product listing.
type StockStatus string

const (
	StockStatusInStock     StockStatus = "in_stock"
	StockStatusLowStock    StockStatus = "low_stock"
	StockStatusOutOfStock  StockStatus = "out_of_stock"
	StockStatusOnBackorder StockStatus = "on_backorder"
)

var validStockStatuses = []StockStatus{
	StockStatusInStock,
	StockStatusLowStock,
	StockStatusOutOfStock,
	StockStatusOnBackorder,
}

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockStatus converts raw input into a StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
