package services

import (
	"sort"

	"agrimarket/internal/core/domain/model/courier"
	"agrimarket/internal/core/domain/model/kernel"
)

// Candidate is one ranked delivery partner with the eligibility flags a caller
// needs to present near-misses rather than an empty result.
type Candidate struct {
	Courier *courier.Courier

	// PickupDistanceKm is the great-circle distance from the courier's last
	// reported position to the order's pickup point.
	PickupDistanceKm float64

	// DeliveryDistanceKm is the great-circle distance from the courier's last
	// reported position to the order's drop-off point.
	DeliveryDistanceKm float64

	// WithinRange reports whether the pickup distance falls inside the
	// courier's own declared service radius.
	WithinRange bool

	// FitsCapacity reports whether the courier's vehicle can carry the order.
	FitsCapacity bool
}

// IsEligible reports whether the candidate can actually take the order.
func (c Candidate) IsEligible() bool {
	return c.WithinRange && c.FitsCapacity
}

// MatchRequest describes the order being matched.
type MatchRequest struct {
	PickupPoint   kernel.GeoPoint
	DeliveryPoint kernel.GeoPoint
	TotalWeightKg float64

	// City optionally narrows the pool to couriers serving it.
	City string
}

// CourierMatcher is a domain service that ranks delivery partners against an
// order. It is a pure read operation with no side effects; claiming a courier
// is a separate, explicit step so that listing can be retried cheaply without
// double-booking.
//
// Business rules:
//   - Only online, available couriers with a known position are candidates
//   - A requested city narrows the pool to couriers serving it
//   - Range and capacity misses stay in the list, flagged, so callers can
//     show near-misses
//   - Eligible candidates rank before near-misses; within each group the
//     order is pickup distance ascending, then higher average rating, then
//     earlier lastSeen (prefer couriers idle longest, to balance load)
type CourierMatcher struct{}

// NewCourierMatcher creates a new CourierMatcher instance.
func NewCourierMatcher() CourierMatcher {
	return CourierMatcher{}
}

// Match filters and ranks the given courier pool for the request.
func (m CourierMatcher) Match(req MatchRequest, pool []*courier.Courier) ([]Candidate, error) {
	if err := req.PickupPoint.Validate(); err != nil {
		return nil, err
	}
	if err := req.DeliveryPoint.Validate(); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		if !c.IsDispatchable() || c.Location() == nil {
			continue
		}
		if req.City != "" && !c.ServiceArea().ServesCity(req.City) {
			continue
		}

		pickupDistance, err := c.Location().DistanceKmTo(req.PickupPoint)
		if err != nil {
			return nil, err
		}
		deliveryDistance, err := c.Location().DistanceKmTo(req.DeliveryPoint)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, Candidate{
			Courier:            c,
			PickupDistanceKm:   pickupDistance,
			DeliveryDistanceKm: deliveryDistance,
			WithinRange:        c.ServiceArea().CoversDistance(pickupDistance),
			FitsCapacity:       c.CanCarry(req.TotalWeightKg),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return less(candidates[i], candidates[j])
	})

	return candidates, nil
}

func less(a, b Candidate) bool {
	if a.IsEligible() != b.IsEligible() {
		return a.IsEligible()
	}
	if a.PickupDistanceKm != b.PickupDistanceKm {
		return a.PickupDistanceKm < b.PickupDistanceKm
	}
	if a.Courier.Stats().AverageRating != b.Courier.Stats().AverageRating {
		return a.Courier.Stats().AverageRating > b.Courier.Stats().AverageRating
	}
	return a.Courier.LastSeen().Before(b.Courier.LastSeen())
}
