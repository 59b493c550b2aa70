package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetTrackingQueryHandler reads the tracking view of an order: delivery state,
// partner identity, last known position, and the order's status history, in
// one round trip across the orders, deliveries, and couriers tables.
type GetTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetTrackingQueryHandler creates a handler for tracking queries.
func NewGetTrackingQueryHandler(db *gorm.DB) GetTrackingQueryHandler {
	return GetTrackingQueryHandler{db: db}
}

// timelineStepRow mirrors the JSONB timeline encoding used by the order
// repository.
type timelineStepRow struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// Handle executes the tracking query.
func (h GetTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingQuery,
) (GetTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrackingQueryResponse{}, err
	}

	var (
		orderStatus, deliveryStatus        string
		partnerID                          sql.NullString
		partnerName, partnerPhone          sql.NullString
		vehicleNumber                      sql.NullString
		currentLat, currentLng             sql.NullFloat64
		locationUpdatedAt                  sql.NullTime
		assignedAt, estimatedDeliveryTime  sql.NullTime
		destinationLine, destinationCity   string
		timelineRaw                        []byte
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.status,
			d.status,
			d.partner_id,
			c.name,
			c.phone,
			c.vehicle_number,
			d.current_lat,
			d.current_lng,
			d.location_updated_at,
			d.assigned_at,
			d.estimated_delivery_time,
			d.destination_line,
			d.destination_city,
			o.timeline
		FROM deliveries d
		JOIN orders o ON o.id = d.order_id
		LEFT JOIN couriers c ON c.id = d.partner_id
		WHERE d.order_id = ?
	`, query.OrderID().String()).Row()

	err := row.Scan(
		&orderStatus, &deliveryStatus, &partnerID,
		&partnerName, &partnerPhone, &vehicleNumber,
		&currentLat, &currentLng, &locationUpdatedAt,
		&assignedAt, &estimatedDeliveryTime,
		&destinationLine, &destinationCity,
		&timelineRaw,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetTrackingQueryResponse{}, errs.NewObjectNotFoundError("delivery", query.OrderID())
	}
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}

	response := GetTrackingQueryResponse{
		OrderID:         query.OrderID(),
		OrderStatus:     orderStatus,
		DeliveryStatus:  deliveryStatus,
		PartnerName:     partnerName.String,
		PartnerPhone:    partnerPhone.String,
		VehicleNumber:   vehicleNumber.String,
		DestinationLine: destinationLine,
		DestinationCity: destinationCity,
	}

	if partnerID.Valid {
		id, idErr := kernel.UUIDFromString(partnerID.String)
		if idErr != nil {
			return GetTrackingQueryResponse{}, idErr
		}
		response.PartnerID = &id
	}
	if currentLat.Valid && currentLng.Valid {
		response.CurrentPosition = &TrackedPosition{
			Lat:       currentLat.Float64,
			Lng:       currentLng.Float64,
			UpdatedAt: locationUpdatedAt.Time,
		}
	}
	if assignedAt.Valid {
		response.AssignedAt = &assignedAt.Time
	}
	if estimatedDeliveryTime.Valid {
		response.EstimatedDeliveryTime = &estimatedDeliveryTime.Time
	}

	response.Timeline, err = decodeTimeline(timelineRaw)
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}

	return response, nil
}

func decodeTimeline(raw []byte) ([]TimelineStep, error) {
	steps := make([]TimelineStep, 0)
	if len(raw) == 0 {
		return steps, nil
	}

	var rows []timelineStepRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}

	for _, r := range rows {
		steps = append(steps, TimelineStep{Status: r.Status, At: r.At})
	}
	return steps, nil
}
