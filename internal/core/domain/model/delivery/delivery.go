package delivery

import (
	"errors"
	"fmt"
	"time"

	"agrimarket/internal/core/domain/model/kernel"
)

// EstimatedDeliveryWindow is the flat time budget promised to the buyer once a
// partner is assigned. A proper ETA model is out of scope for now.
const EstimatedDeliveryWindow = 2 * time.Hour

var (
	// ErrDeliveryIsNotConstructed is returned when using an improperly initialized Delivery.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

	// ErrPartnerAlreadyAssigned is returned when assigning a partner to a
	// delivery that already has one.
	ErrPartnerAlreadyAssigned = errors.New("delivery already has a partner assigned")

	// ErrNoPartnerAssigned is returned when progressing a delivery that has no
	// partner bound to it yet.
	ErrNoPartnerAssigned = errors.New("delivery has no partner assigned")

	// ErrDeliveryIsTerminal is returned when progressing a delivered or failed delivery.
	ErrDeliveryIsTerminal = errors.New("delivery is in a terminal state")
)

// IllegalTransitionError reports a shipment progress step that skips a stage
// or moves backwards.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal delivery transition from %s to %s", e.From, e.To)
}

// TrackedLocation is the partner's last reported position together with the
// time it was reported, for staleness display on the tracking view.
type TrackedLocation struct {
	Point       kernel.GeoPoint
	LastUpdated time.Time
}

// Delivery is the aggregate root for the shipment leg of an order. It is
// created together with the order and starts unassigned; dispatching binds a
// partner and stamps the delivery promise.
type Delivery struct {
	id        kernel.UUID
	orderID   kernel.UUID
	partnerID *kernel.UUID

	status      Status
	destination kernel.Address

	currentLocation *TrackedLocation

	assignedAt            *time.Time
	estimatedDeliveryTime *time.Time

	isConstructed bool
}

// NewDelivery creates an unassigned delivery for an order.
func NewDelivery(id kernel.UUID, orderID kernel.UUID, destination kernel.Address) (*Delivery, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), destination.Validate()); err != nil {
		return nil, err
	}

	return &Delivery{
		id:            id,
		orderID:       orderID,
		status:        Assigned,
		destination:   destination,
		isConstructed: true,
	}, nil
}

// RestoreDelivery reconstructs a Delivery from persistence.
func RestoreDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	partnerID *kernel.UUID,
	status Status,
	destination kernel.Address,
	currentLocation *TrackedLocation,
	assignedAt *time.Time,
	estimatedDeliveryTime *time.Time,
) (*Delivery, error) {
	d, err := NewDelivery(id, orderID, destination)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if status != Assigned && partnerID == nil && status != Failed {
		return nil, ErrNoPartnerAssigned
	}

	d.partnerID = partnerID
	d.status = status
	d.currentLocation = currentLocation
	d.assignedAt = assignedAt
	d.estimatedDeliveryTime = estimatedDeliveryTime
	return d, nil
}

// Validate ensures the Delivery instance was properly constructed.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}

	return nil
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// OrderID returns the identifier of the owning order.
func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

// PartnerID returns the assigned partner, or nil while unassigned.
func (d *Delivery) PartnerID() *kernel.UUID {
	return d.partnerID
}

// Status returns the delivery's current shipment state.
func (d *Delivery) Status() Status {
	return d.status
}

// Destination returns the drop-off address.
func (d *Delivery) Destination() kernel.Address {
	return d.destination
}

// CurrentLocation returns the partner's last reported position, or nil if the
// partner has not reported one since assignment.
func (d *Delivery) CurrentLocation() *TrackedLocation {
	return d.currentLocation
}

// AssignedAt returns when a partner was bound, or nil while unassigned.
func (d *Delivery) AssignedAt() *time.Time {
	return d.assignedAt
}

// EstimatedDeliveryTime returns the promised delivery time, or nil while unassigned.
func (d *Delivery) EstimatedDeliveryTime() *time.Time {
	return d.estimatedDeliveryTime
}

// AssignPartner binds a delivery partner and stamps the delivery promise.
func (d *Delivery) AssignPartner(partnerID kernel.UUID) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := partnerID.Validate(); err != nil {
		return err
	}

	if d.partnerID != nil {
		return ErrPartnerAlreadyAssigned
	}
	if d.status.IsTerminal() {
		return ErrDeliveryIsTerminal
	}

	now := time.Now()
	eta := now.Add(EstimatedDeliveryWindow)
	d.partnerID = &partnerID
	d.assignedAt = &now
	d.estimatedDeliveryTime = &eta
	return nil
}

// MarkPickedUp records collection of the goods at the pickup point.
func (d *Delivery) MarkPickedUp() error {
	return d.progressTo(PickedUp, Assigned)
}

// MarkInTransit records departure toward the destination.
func (d *Delivery) MarkInTransit() error {
	return d.progressTo(InTransit, PickedUp)
}

// MarkDelivered records arrival at the destination. Terminal.
func (d *Delivery) MarkDelivered() error {
	return d.progressTo(Delivered, InTransit)
}

// MarkFailed abandons the delivery, typically on order cancellation. Terminal.
// A failed delivery keeps whatever partner and location it had for audit.
func (d *Delivery) MarkFailed() error {
	if err := d.Validate(); err != nil {
		return err
	}

	if d.status.IsTerminal() {
		return ErrDeliveryIsTerminal
	}

	d.status = Failed
	return nil
}

// UpdateLocation records the partner's position report. Last write wins.
func (d *Delivery) UpdateLocation(point kernel.GeoPoint) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	if d.partnerID == nil {
		return ErrNoPartnerAssigned
	}

	d.currentLocation = &TrackedLocation{Point: point, LastUpdated: time.Now()}
	return nil
}

func (d *Delivery) progressTo(target Status, expectedFrom Status) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if d.partnerID == nil {
		return ErrNoPartnerAssigned
	}
	if d.status.IsTerminal() {
		return ErrDeliveryIsTerminal
	}
	if d.status != expectedFrom {
		return &IllegalTransitionError{From: d.status, To: target}
	}

	d.status = target
	return nil
}
