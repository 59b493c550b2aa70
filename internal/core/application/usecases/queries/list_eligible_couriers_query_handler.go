package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"agrimarket/internal/core/domain/model/courier"
	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/domain/services"
	"agrimarket/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListEligibleCouriersQueryHandler ranks couriers for an order.
//
// The courier pool is read straight from the database (online, available, with
// a known position) and rehydrated into domain couriers so the ranking comes
// from the same matching rules the auto-dispatch sweep uses. Listing never
// claims a courier; assignment is a separate command.
type ListEligibleCouriersQueryHandler struct {
	db      *gorm.DB
	matcher services.CourierMatcher
}

// NewListEligibleCouriersQueryHandler creates a handler for courier matching queries.
func NewListEligibleCouriersQueryHandler(db *gorm.DB) ListEligibleCouriersQueryHandler {
	return ListEligibleCouriersQueryHandler{db: db, matcher: services.NewCourierMatcher()}
}

// Handle executes the query. Results come back eligible-first, closest-first.
func (h ListEligibleCouriersQueryHandler) Handle(
	ctx context.Context,
	query ListEligibleCouriersQuery,
) ([]ListEligibleCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	req, err := h.loadMatchRequest(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	pool, err := h.loadDispatchablePool(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := h.matcher.Match(req, pool)
	if err != nil {
		return nil, err
	}

	responses := make([]ListEligibleCouriersQueryResponse, 0, len(candidates))
	for _, candidate := range candidates {
		responses = append(responses, ListEligibleCouriersQueryResponse{
			ID:                 candidate.Courier.ID(),
			PartnerCode:        candidate.Courier.PartnerCode(),
			Name:               candidate.Courier.Name(),
			VehicleType:        candidate.Courier.Vehicle().Type().String(),
			CapacityKg:         candidate.Courier.Vehicle().CapacityKg(),
			PickupDistanceKm:   candidate.PickupDistanceKm,
			DeliveryDistanceKm: candidate.DeliveryDistanceKm,
			AverageRating:      candidate.Courier.Stats().AverageRating,
			WithinRange:        candidate.WithinRange,
			FitsCapacity:       candidate.FitsCapacity,
			Eligible:           candidate.IsEligible(),
		})
	}

	return responses, nil
}

func (h ListEligibleCouriersQueryHandler) loadMatchRequest(
	ctx context.Context,
	orderID kernel.UUID,
) (services.MatchRequest, error) {
	var (
		pickupLat, pickupLng     float64
		deliveryLat, deliveryLng float64
		deliveryCity             string
		totalWeightKg            float64
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			pickup_lat,
			pickup_lng,
			delivery_lat,
			delivery_lng,
			delivery_city,
			total_weight_kg
		FROM orders
		WHERE id = ?
	`, orderID.String()).Row()

	err := row.Scan(&pickupLat, &pickupLng, &deliveryLat, &deliveryLng, &deliveryCity, &totalWeightKg)
	if errors.Is(err, sql.ErrNoRows) {
		return services.MatchRequest{}, errs.NewObjectNotFoundError("order", orderID)
	}
	if err != nil {
		return services.MatchRequest{}, err
	}

	pickupPoint, err := kernel.NewGeoPoint(pickupLat, pickupLng)
	if err != nil {
		return services.MatchRequest{}, err
	}
	deliveryPoint, err := kernel.NewGeoPoint(deliveryLat, deliveryLng)
	if err != nil {
		return services.MatchRequest{}, err
	}

	return services.MatchRequest{
		PickupPoint:   pickupPoint,
		DeliveryPoint: deliveryPoint,
		TotalWeightKg: totalWeightKg,
		City:          deliveryCity,
	}, nil
}

func (h ListEligibleCouriersQueryHandler) loadDispatchablePool(
	ctx context.Context,
) ([]*courier.Courier, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			partner_code,
			name,
			phone,
			vehicle_type,
			vehicle_number,
			capacity_kg,
			service_cities,
			max_distance_km,
			lat,
			lng,
			last_seen,
			total_deliveries,
			successful_deliveries,
			cancelled_deliveries,
			average_rating
		FROM couriers
		WHERE is_online AND status = ? AND lat IS NOT NULL
	`, courier.Available.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pool := make([]*courier.Courier, 0)
	for rows.Next() {
		var (
			id                       uuid.UUID
			partnerCode, name, phone string
			vehicleType, number      string
			capacityKg               float64
			citiesRaw                []byte
			maxDistanceKm            float64
			lat, lng                 float64
			lastSeen                 time.Time
			stats                    courier.DeliveryStats
		)

		err = rows.Scan(
			&id, &partnerCode, &name, &phone,
			&vehicleType, &number, &capacityKg,
			&citiesRaw, &maxDistanceKm,
			&lat, &lng, &lastSeen,
			&stats.Total, &stats.Successful, &stats.Cancelled, &stats.AverageRating,
		)
		if err != nil {
			return nil, err
		}

		restored, restoreErr := restoreCourierRow(
			id, partnerCode, name, phone,
			vehicleType, number, capacityKg,
			citiesRaw, maxDistanceKm,
			lat, lng, lastSeen, stats,
		)
		if restoreErr != nil {
			return nil, restoreErr
		}
		pool = append(pool, restored)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return pool, nil
}

func restoreCourierRow(
	id uuid.UUID,
	partnerCode, name, phone string,
	vehicleTypeName, number string,
	capacityKg float64,
	citiesRaw []byte,
	maxDistanceKm float64,
	lat, lng float64,
	lastSeen time.Time,
	stats courier.DeliveryStats,
) (*courier.Courier, error) {
	courierID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}

	vehicleType, err := courier.VehicleTypeFromString(vehicleTypeName)
	if err != nil {
		return nil, err
	}
	vehicle, err := courier.NewVehicle(vehicleType, number, capacityKg)
	if err != nil {
		return nil, err
	}

	var cities []string
	if len(citiesRaw) > 0 {
		if err = json.Unmarshal(citiesRaw, &cities); err != nil {
			return nil, err
		}
	}
	area, err := courier.NewServiceArea(cities, maxDistanceKm)
	if err != nil {
		return nil, err
	}

	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(
		courierID, partnerCode, name, phone, vehicle, area,
		courier.Available, true, &point, lastSeen, stats,
	)
}
