package order

import (
	"errors"
	"time"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrNoCourierAssigned is returned when a transition that requires a courier
	// (Picked Up, In Transit, Delivered) is attempted on an unassigned order.
	ErrNoCourierAssigned = errors.New("no courier assigned to order")

	// ErrCourierAlreadyAssigned is returned when assigning a courier to an order
	// that already has one.
	ErrCourierAlreadyAssigned = errors.New("order already has a courier assigned")

	// ErrOrderHasNoItems is returned when creating an order with an empty item list.
	ErrOrderHasNoItems = errs.NewValueIsRequiredError("order items")
)

// TimelineEntry is one line of the order's append-only audit log: the status
// entered and the server-assigned time of the transition.
type TimelineEntry struct {
	Status Status
	At     time.Time
}

// Order is the aggregate root for a single commercial transaction between a
// buyer and a seller, advanced through the delivery lifecycle by the dispatch
// subsystem.
//
// Order maintains these invariants:
//   - Items and total are immutable after creation; total equals the sum of
//     quantity times price captured at creation and is never recomputed
//   - Status transitions follow the state machine in Status and every
//     transition appends exactly one timeline entry
//   - Picked Up, In Transit and Delivered require an assigned courier
//   - The timeline is append-only and non-decreasing in time
type Order struct {
	id       kernel.UUID
	buyerID  kernel.UUID
	sellerID kernel.UUID

	items         []Item
	total         float64
	paymentMethod string

	status   Status
	timeline []TimelineEntry

	pickupAddress   kernel.Address
	deliveryAddress kernel.Address
	courierID       *kernel.UUID
	courierLocation *kernel.GeoPoint

	isConstructed bool
}

// NewOrder creates a new Order in Pending status with validation.
//
// The total is derived from the items once, here, and never silently recomputed.
// The pickup address must be the sold items' registered location; the delivery
// address is buyer-supplied. The first timeline entry (Pending) is stamped with
// the current server time.
func NewOrder(
	id kernel.UUID,
	buyerID kernel.UUID,
	sellerID kernel.UUID,
	items []Item,
	pickupAddress kernel.Address,
	deliveryAddress kernel.Address,
	paymentMethod string,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyerID(buyerID),
		o.setSellerID(sellerID),
		o.setItems(items),
		o.setPickupAddress(pickupAddress),
		o.setDeliveryAddress(deliveryAddress),
	); err != nil {
		return nil, err
	}

	o.paymentMethod = paymentMethod

	total := 0.0
	for _, item := range o.items {
		total += item.Subtotal()
	}
	o.total = total

	o.timeline = []TimelineEntry{{Status: Pending, At: time.Now()}}
	return o, nil
}

// RestoreOrder reconstructs an Order from persistence, trusting the stored
// status, total, courier assignment, and timeline.
func RestoreOrder(
	id kernel.UUID,
	buyerID kernel.UUID,
	sellerID kernel.UUID,
	items []Item,
	total float64,
	paymentMethod string,
	status Status,
	pickupAddress kernel.Address,
	deliveryAddress kernel.Address,
	courierID *kernel.UUID,
	courierLocation *kernel.GeoPoint,
	timeline []TimelineEntry,
) (*Order, error) {
	o, err := NewOrder(id, buyerID, sellerID, items, pickupAddress, deliveryAddress, paymentMethod)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if status.RequiresCourier() && courierID == nil {
		return nil, ErrNoCourierAssigned
	}

	o.total = total
	o.status = status
	o.courierID = courierID
	o.courierLocation = courierLocation
	if len(timeline) > 0 {
		o.timeline = append([]TimelineEntry(nil), timeline...)
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// BuyerID returns the purchasing user's identifier.
func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

// SellerID returns the selling user's identifier.
func (o *Order) SellerID() kernel.UUID {
	return o.sellerID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// Total returns the order total captured at creation time.
func (o *Order) Total() float64 {
	return o.total
}

// PaymentMethod returns the opaque payment method label recorded at creation.
func (o *Order) PaymentMethod() string {
	return o.paymentMethod
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Timeline returns a copy of the append-only status audit log.
func (o *Order) Timeline() []TimelineEntry {
	return append([]TimelineEntry(nil), o.timeline...)
}

// PickupAddress returns the seller-side pickup address.
func (o *Order) PickupAddress() kernel.Address {
	return o.pickupAddress
}

// DeliveryAddress returns the buyer-supplied destination address.
func (o *Order) DeliveryAddress() kernel.Address {
	return o.deliveryAddress
}

// Courier returns the assigned courier's ID, or nil if unassigned.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

// CourierLocation returns the mirrored live courier position, or nil when no
// location update has been received yet.
func (o *Order) CourierLocation() *kernel.GeoPoint {
	return o.courierLocation
}

// TotalWeightKg returns the shipment weight: the sum of all item quantities.
func (o *Order) TotalWeightKg() float64 {
	weight := 0.0
	for _, item := range o.items {
		weight += item.QuantityKg()
	}
	return weight
}

// WasPickedUp reports whether the order ever reached Picked Up, by consulting
// the timeline. Used to decide whether a cancellation must restore inventory.
func (o *Order) WasPickedUp() bool {
	for _, entry := range o.timeline {
		if entry.Status == PickedUp {
			return true
		}
	}
	return false
}

// AssignCourier binds a courier to the order and advances it to Confirmed,
// appending the timeline entry for the transition.
//
// Fails with ErrCourierAlreadyAssigned if a courier is already bound, and with
// an IllegalTransitionError if the order is not in Pending status.
func (o *Order) AssignCourier(courierID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.courierID != nil {
		return ErrCourierAlreadyAssigned
	}

	newStatus, err := o.status.Advance(Confirmed)
	if err != nil {
		return err
	}

	o.courierID = &courierID
	o.transitionTo(newStatus)
	return nil
}

// UpdateCourierLocation refreshes the read-mirror of the assigned courier's
// live position. Last write wins; no timeline entry is appended.
func (o *Order) UpdateCourierLocation(point kernel.GeoPoint) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}
	if o.courierID == nil {
		return ErrNoCourierAssigned
	}

	o.courierLocation = &point
	return nil
}

// Advance moves the order one step forward along the lifecycle chain to target,
// appending exactly one timeline entry with a server-assigned timestamp.
//
// Fails with ErrNoCourierAssigned when target requires a courier and none is
// bound, and with an IllegalTransitionError for any move that is not the
// immediate forward step.
func (o *Order) Advance(target Status) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if target.RequiresCourier() && o.courierID == nil {
		return ErrNoCourierAssigned
	}

	newStatus, err := o.status.Advance(target)
	if err != nil {
		return err
	}

	o.transitionTo(newStatus)
	return nil
}

// Cancel moves the order to Cancelled from any non-terminal state, appending
// the final timeline entry. The caller owns the compensating inventory restore
// when cancellation happens before pickup.
func (o *Order) Cancel() error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.transitionTo(newStatus)
	return nil
}

func (o *Order) transitionTo(newStatus Status) {
	o.status = newStatus
	o.timeline = append(o.timeline, TimelineEntry{Status: newStatus, At: time.Now()})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}
	o.buyerID = buyerID
	return nil
}

func (o *Order) setSellerID(sellerID kernel.UUID) error {
	if err := sellerID.Validate(); err != nil {
		return err
	}
	o.sellerID = sellerID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrOrderHasNoItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = append([]Item(nil), items...)
	return nil
}

func (o *Order) setPickupAddress(pickupAddress kernel.Address) error {
	if err := pickupAddress.Validate(); err != nil {
		return err
	}
	o.pickupAddress = pickupAddress
	return nil
}

func (o *Order) setDeliveryAddress(deliveryAddress kernel.Address) error {
	if err := deliveryAddress.Validate(); err != nil {
		return err
	}
	o.deliveryAddress = deliveryAddress
	return nil
}
