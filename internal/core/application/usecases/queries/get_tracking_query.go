package queries

import (
	"errors"
	"time"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/guard"
)

var (
	ErrGetTrackingQueryIsNotConstructed = errors.New(
		"GetTrackingQuery must be created via NewGetTrackingQuery constructor",
	)
)

// GetTrackingQuery fetches the delivery tracking read model for an order: the
// current status pair, the assigned partner, the last reported position, and
// the order's status timeline.
type GetTrackingQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetTrackingQuery creates a tracking query for the given order.
func NewGetTrackingQuery(orderID kernel.UUID) (GetTrackingQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetTrackingQuery{}, err
	}

	return GetTrackingQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// OrderID returns the order being tracked.
func (q GetTrackingQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingQueryIsNotConstructed)
}

// TrackedPosition is the courier's last reported position for a delivery.
type TrackedPosition struct {
	Lat       float64
	Lng       float64
	UpdatedAt time.Time
}

// TimelineStep is one entry of the order's status history.
type TimelineStep struct {
	Status string
	At     time.Time
}

// GetTrackingQueryResponse is the tracking read model. Partner fields are
// empty and CurrentPosition is nil until a courier is assigned and reports a
// position.
type GetTrackingQueryResponse struct {
	OrderID        kernel.UUID
	OrderStatus    string
	DeliveryStatus string

	PartnerID     *kernel.UUID
	PartnerName   string
	PartnerPhone  string
	VehicleNumber string

	CurrentPosition       *TrackedPosition
	AssignedAt            *time.Time
	EstimatedDeliveryTime *time.Time

	DestinationLine string
	DestinationCity string

	Timeline []TimelineStep
}
