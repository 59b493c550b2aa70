// Package inventoryrepo persists inventory items: what a seller has listed,
// how much remains, and the running sold/revenue counters that order
// reservation and cancellation move in step with stock.
package inventoryrepo

import (
	"agrimarket/internal/core/domain/model/inventory"
	"agrimarket/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ItemDTO is the database representation of an inventory item.
type ItemDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	SellerID uuid.UUID `gorm:"type:uuid;index"`
	Name     string
	ItemType string

	PricePerKg  float64
	AvailableKg float64
	SoldKg      float64
	Revenue     float64
	IsAvailable bool `gorm:"index"`

	Pickup AddressDTO `gorm:"embedded;embeddedPrefix:pickup_"`
}

// TableName overrides GORM's default naming to use "inventory_items".
func (ItemDTO) TableName() string {
	return "inventory_items"
}

// AddressDTO is an embedded address column group.
type AddressDTO struct {
	Line string
	City string `gorm:"index"`
	Lat  float64
	Lng  float64
}

func fromDomain(item *inventory.Item) ItemDTO {
	return ItemDTO{
		ID:          item.ID().Bytes(),
		SellerID:    item.SellerID().Bytes(),
		Name:        item.Name(),
		ItemType:    item.Type().String(),
		PricePerKg:  item.PricePerKg(),
		AvailableKg: item.AvailableKg(),
		SoldKg:      item.SoldKg(),
		Revenue:     item.Revenue(),
		IsAvailable: item.IsAvailable(),
		Pickup: AddressDTO{
			Line: item.Pickup().Line(),
			City: item.Pickup().City(),
			Lat:  item.Pickup().Point().Lat(),
			Lng:  item.Pickup().Point().Lng(),
		},
	}
}

func toDomain(dto ItemDTO) (*inventory.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	itemType, err := inventory.ItemTypeFromString(dto.ItemType)
	if err != nil {
		return nil, err
	}

	pickupPoint, err := kernel.NewGeoPoint(dto.Pickup.Lat, dto.Pickup.Lng)
	if err != nil {
		return nil, err
	}
	pickup, err := kernel.NewAddress(dto.Pickup.Line, dto.Pickup.City, pickupPoint)
	if err != nil {
		return nil, err
	}

	return inventory.RestoreItem(
		id, sellerID, dto.Name, itemType,
		dto.PricePerKg, dto.AvailableKg, dto.SoldKg, dto.Revenue,
		dto.IsAvailable, pickup,
	)
}
