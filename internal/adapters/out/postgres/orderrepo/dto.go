// Package orderrepo persists the order aggregate. Items and the status
// timeline are stored as JSONB documents inside the order row since they are
// only ever read and written through the aggregate.
package orderrepo

import (
	"encoding/json"
	"time"

	"agrimarket/internal/core/domain/model/inventory"
	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database representation of an order aggregate.
type OrderDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BuyerID   uuid.UUID  `gorm:"type:uuid;index"`
	SellerID  uuid.UUID  `gorm:"type:uuid;index"`
	CourierID *uuid.UUID `gorm:"type:uuid;index"`
	Status    string     `gorm:"index"`

	Items    []byte     `gorm:"type:jsonb"`
	Pickup   AddressDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery AddressDTO `gorm:"embedded;embeddedPrefix:delivery_"`

	PaymentMethod string
	TotalAmount   float64
	TotalWeightKg float64

	CourierLat *float64
	CourierLng *float64

	Timeline  []byte `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is an embedded address column group.
type AddressDTO struct {
	Line string
	City string `gorm:"index"`
	Lat  float64
	Lng  float64
}

type itemRow struct {
	ItemID     string  `json:"item_id"`
	ItemType   string  `json:"item_type"`
	QuantityKg float64 `json:"quantity_kg"`
	PricePerKg float64 `json:"price_per_kg"`
}

type timelineRow struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

func addressFromDomain(a kernel.Address) AddressDTO {
	return AddressDTO{
		Line: a.Line(),
		City: a.City(),
		Lat:  a.Point().Lat(),
		Lng:  a.Point().Lng(),
	}
}

func addressToDomain(dto AddressDTO) (kernel.Address, error) {
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.NewAddress(dto.Line, dto.City, point)
}

func fromDomain(o *order.Order) (OrderDTO, error) {
	items := make([]itemRow, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, itemRow{
			ItemID:     item.ItemID().String(),
			ItemType:   item.Type().String(),
			QuantityKg: item.QuantityKg(),
			PricePerKg: item.PricePerKg(),
		})
	}
	itemsRaw, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	timeline := make([]timelineRow, 0, len(o.Timeline()))
	for _, entry := range o.Timeline() {
		timeline = append(timeline, timelineRow{Status: entry.Status.String(), At: entry.At})
	}
	timelineRaw, err := json.Marshal(timeline)
	if err != nil {
		return OrderDTO{}, err
	}

	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		BuyerID:       o.BuyerID().Bytes(),
		SellerID:      o.SellerID().Bytes(),
		Status:        o.Status().String(),
		Items:         itemsRaw,
		Pickup:        addressFromDomain(o.PickupAddress()),
		Delivery:      addressFromDomain(o.DeliveryAddress()),
		PaymentMethod: o.PaymentMethod(),
		TotalAmount:   o.Total(),
		TotalWeightKg: o.TotalWeightKg(),
		Timeline:      timelineRaw,
	}

	if courierID := o.Courier(); courierID != nil {
		raw := courierID.Bytes()
		dto.CourierID = &raw
	}
	if point := o.CourierLocation(); point != nil {
		lat, lng := point.Lat(), point.Lng()
		dto.CourierLat = &lat
		dto.CourierLng = &lng
	}
	if entries := o.Timeline(); len(entries) > 0 {
		dto.CreatedAt = entries[0].At
	}

	return dto, nil
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	var itemRows []itemRow
	if err = json.Unmarshal(dto.Items, &itemRows); err != nil {
		return nil, err
	}
	items := make([]order.Item, 0, len(itemRows))
	for _, row := range itemRows {
		itemID, itemErr := kernel.UUIDFromString(row.ItemID)
		if itemErr != nil {
			return nil, itemErr
		}
		itemType, itemErr := inventory.ItemTypeFromString(row.ItemType)
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewItem(itemID, itemType, row.QuantityKg, row.PricePerKg)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	pickup, err := addressToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}
	delivery, err := addressToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	var courierLocation *kernel.GeoPoint
	if dto.CourierLat != nil && dto.CourierLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.CourierLat, *dto.CourierLng)
		if pointErr != nil {
			return nil, pointErr
		}
		courierLocation = &point
	}

	var timelineRows []timelineRow
	if err = json.Unmarshal(dto.Timeline, &timelineRows); err != nil {
		return nil, err
	}
	timeline := make([]order.TimelineEntry, 0, len(timelineRows))
	for _, row := range timelineRows {
		entryStatus, entryErr := order.StatusFromString(row.Status)
		if entryErr != nil {
			return nil, entryErr
		}
		timeline = append(timeline, order.TimelineEntry{Status: entryStatus, At: row.At})
	}

	return order.RestoreOrder(
		id, buyerID, sellerID, items, dto.TotalAmount, dto.PaymentMethod,
		status, pickup, delivery, courierID, courierLocation, timeline,
	)
}
