package models

import "time"

// InventoryCategory groups inventory items.
type InventoryCategory string

const (
	CategoryEquipment InventoryCategory = "EQUIPMENT"
	CategorySupplies  InventoryCategory = "SUPPLIES"
	CategoryUniforms  InventoryCategory = "UNIFORMS"
	CategorySafety    InventoryCategory = "SAFETY"
	CategoryOther     InventoryCategory = "OTHER"
)

// StockStatus is derived from quantity and minThreshold; it is never stored.
type StockStatus string

const (
	StockInStock    StockStatus = "IN_STOCK"
	StockLow        StockStatus = "LOW_STOCK"
	StockOutOfStock StockStatus = "OUT_OF_STOCK"
)

// InventoryItem is a stocked product of a club.
type InventoryItem struct {
	Base
	Name         string            `json:"name" db:"name" validate:"required"`
	Description  string            `json:"description,omitempty" db:"description"`
	Category     InventoryCategory `json:"category" db:"category" validate:"required,oneof=EQUIPMENT SUPPLIES UNIFORMS SAFETY OTHER"`
	Quantity     int               `json:"quantity" db:"quantity" validate:"gte=0"`
	MinThreshold int               `json:"minThreshold" db:"min_threshold" validate:"gte=0"`
	Unit         string            `json:"unit" db:"unit"`
	UnitPrice    float64           `json:"unitPrice" db:"unit_price" validate:"gte=0"`
	ClubID       string            `json:"clubId" db:"club_id" validate:"required"`
}

// StockStatus classifies the item. Zero quantity wins over the threshold check.
func (i InventoryItem) StockStatus() StockStatus {
	switch {
	case i.Quantity == 0:
		return StockOutOfStock
	case i.Quantity <= i.MinThreshold:
		return StockLow
	default:
		return StockInStock
	}
}

// Value is quantity times unit price.
func (i InventoryItem) Value() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// InventoryUsage records consumption of an item. It does not change the item quantity.
type InventoryUsage struct {
	Base
	Date            time.Time `json:"date" db:"date"`
	Quantity        int       `json:"quantity" db:"quantity" validate:"gt=0"`
	InventoryItemID string    `json:"inventoryItemId" db:"inventory_item_id" validate:"required"`
	MemberID        *string   `json:"memberId,omitempty" db:"member_id"`
	ClubID          string    `json:"clubId" db:"club_id" validate:"required"`
}
