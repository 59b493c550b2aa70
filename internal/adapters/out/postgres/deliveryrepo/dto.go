// Package deliveryrepo persists the delivery aggregate, the courier-facing
// shadow of an order. Looked up by order id as often as by its own id, so
// order_id carries a unique index.
package deliveryrepo

import (
	"time"

	"agrimarket/internal/core/domain/model/delivery"
	"agrimarket/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO is the database representation of a delivery aggregate.
type DeliveryDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	PartnerID *uuid.UUID `gorm:"type:uuid;index"`
	Status    string     `gorm:"index"`

	Destination AddressDTO `gorm:"embedded;embeddedPrefix:destination_"`

	CurrentLat        *float64
	CurrentLng        *float64
	LocationUpdatedAt *time.Time

	AssignedAt            *time.Time
	EstimatedDeliveryTime *time.Time
}

// TableName overrides GORM's default naming to use "deliveries".
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// AddressDTO is an embedded address column group.
type AddressDTO struct {
	Line string
	City string
	Lat  float64
	Lng  float64
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	dto := DeliveryDTO{
		ID:      d.ID().Bytes(),
		OrderID: d.OrderID().Bytes(),
		Status:  d.Status().String(),
		Destination: AddressDTO{
			Line: d.Destination().Line(),
			City: d.Destination().City(),
			Lat:  d.Destination().Point().Lat(),
			Lng:  d.Destination().Point().Lng(),
		},
		AssignedAt:            d.AssignedAt(),
		EstimatedDeliveryTime: d.EstimatedDeliveryTime(),
	}

	if partnerID := d.PartnerID(); partnerID != nil {
		raw := partnerID.Bytes()
		dto.PartnerID = &raw
	}
	if tracked := d.CurrentLocation(); tracked != nil {
		lat, lng := tracked.Point.Lat(), tracked.Point.Lng()
		updatedAt := tracked.LastUpdated
		dto.CurrentLat = &lat
		dto.CurrentLng = &lng
		dto.LocationUpdatedAt = &updatedAt
	}

	return dto
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		pID, partnerErr := kernel.UUIDFromBytes((*dto.PartnerID)[:])
		if partnerErr != nil {
			return nil, partnerErr
		}
		partnerID = &pID
	}

	status, err := delivery.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	destinationPoint, err := kernel.NewGeoPoint(dto.Destination.Lat, dto.Destination.Lng)
	if err != nil {
		return nil, err
	}
	destination, err := kernel.NewAddress(dto.Destination.Line, dto.Destination.City, destinationPoint)
	if err != nil {
		return nil, err
	}

	var currentLocation *delivery.TrackedLocation
	if dto.CurrentLat != nil && dto.CurrentLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.CurrentLat, *dto.CurrentLng)
		if pointErr != nil {
			return nil, pointErr
		}
		tracked := delivery.TrackedLocation{Point: point}
		if dto.LocationUpdatedAt != nil {
			tracked.LastUpdated = *dto.LocationUpdatedAt
		}
		currentLocation = &tracked
	}

	return delivery.RestoreDelivery(
		id, orderID, partnerID, status, destination,
		currentLocation, dto.AssignedAt, dto.EstimatedDeliveryTime,
	)
}
