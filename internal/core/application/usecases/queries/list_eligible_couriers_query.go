// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases and bypass the
// aggregate repositories, reading straight from the database.
package queries

import (
	"errors"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/guard"
)

var (
	ErrListEligibleCouriersQueryIsNotConstructed = errors.New(
		"ListEligibleCouriersQuery must be created via NewListEligibleCouriersQuery constructor",
	)
)

// ListEligibleCouriersQuery ranks the dispatchable courier pool against one
// pending order. The result keeps near-misses (out of range, over capacity)
// flagged rather than dropping them, so a dispatcher can see why the pool
// came up short.
type ListEligibleCouriersQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewListEligibleCouriersQuery creates a query for the given order.
func NewListEligibleCouriersQuery(orderID kernel.UUID) (ListEligibleCouriersQuery, error) {
	if err := orderID.Validate(); err != nil {
		return ListEligibleCouriersQuery{}, err
	}

	return ListEligibleCouriersQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order being matched.
func (q ListEligibleCouriersQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
func (q ListEligibleCouriersQuery) Validate() error {
	return q.guard.Validate(ErrListEligibleCouriersQueryIsNotConstructed)
}

// ListEligibleCouriersQueryResponse is one ranked candidate in the read model.
// Eligible is the conjunction of WithinRange and FitsCapacity; candidates with
// Eligible=false are near-misses kept for display.
type ListEligibleCouriersQueryResponse struct {
	ID                 kernel.UUID
	PartnerCode        string
	Name               string
	VehicleType        string
	CapacityKg         float64
	PickupDistanceKm   float64
	DeliveryDistanceKm float64
	AverageRating      float64
	WithinRange        bool
	FitsCapacity       bool
	Eligible           bool
}
