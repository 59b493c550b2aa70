// Package courierrepo persists the courier aggregate. The declared service
// cities are stored as a JSONB array; the live position is a nullable column
// pair since a freshly registered courier has no position yet.
package courierrepo

import (
	"encoding/json"
	"time"

	"agrimarket/internal/core/domain/model/courier"
	"agrimarket/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO is the database representation of a courier aggregate.
type CourierDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartnerCode string    `gorm:"uniqueIndex"`
	Name        string
	Phone       string

	VehicleType   string
	VehicleNumber string
	CapacityKg    float64

	ServiceCities []byte `gorm:"type:jsonb"`
	MaxDistanceKm float64

	Status   string `gorm:"index"`
	IsOnline bool   `gorm:"index"`
	Lat      *float64
	Lng      *float64
	LastSeen time.Time

	TotalDeliveries      int
	SuccessfulDeliveries int
	CancelledDeliveries  int
	AverageRating        float64
}

// TableName overrides GORM's default naming to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(c *courier.Courier) (CourierDTO, error) {
	citiesRaw, err := json.Marshal(c.ServiceArea().Cities())
	if err != nil {
		return CourierDTO{}, err
	}

	dto := CourierDTO{
		ID:                   c.ID().Bytes(),
		PartnerCode:          c.PartnerCode(),
		Name:                 c.Name(),
		Phone:                c.Phone(),
		VehicleType:          c.Vehicle().Type().String(),
		VehicleNumber:        c.Vehicle().Number(),
		CapacityKg:           c.Vehicle().CapacityKg(),
		ServiceCities:        citiesRaw,
		MaxDistanceKm:        c.ServiceArea().MaxDistanceKm(),
		Status:               c.Status().String(),
		IsOnline:             c.IsOnline(),
		LastSeen:             c.LastSeen(),
		TotalDeliveries:      c.Stats().Total,
		SuccessfulDeliveries: c.Stats().Successful,
		CancelledDeliveries:  c.Stats().Cancelled,
		AverageRating:        c.Stats().AverageRating,
	}

	if point := c.Location(); point != nil {
		lat, lng := point.Lat(), point.Lng()
		dto.Lat = &lat
		dto.Lng = &lng
	}

	return dto, nil
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	vehicleType, err := courier.VehicleTypeFromString(dto.VehicleType)
	if err != nil {
		return nil, err
	}
	vehicle, err := courier.NewVehicle(vehicleType, dto.VehicleNumber, dto.CapacityKg)
	if err != nil {
		return nil, err
	}

	var cities []string
	if len(dto.ServiceCities) > 0 {
		if err = json.Unmarshal(dto.ServiceCities, &cities); err != nil {
			return nil, err
		}
	}
	area, err := courier.NewServiceArea(cities, dto.MaxDistanceKm)
	if err != nil {
		return nil, err
	}

	status, err := courier.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return courier.RestoreCourier(
		id, dto.PartnerCode, dto.Name, dto.Phone, vehicle, area,
		status, dto.IsOnline, location, dto.LastSeen,
		courier.DeliveryStats{
			Total:         dto.TotalDeliveries,
			Successful:    dto.SuccessfulDeliveries,
			Cancelled:     dto.CancelledDeliveries,
			AverageRating: dto.AverageRating,
		},
	)
}
