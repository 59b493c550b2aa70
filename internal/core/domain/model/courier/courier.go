package courier

import (
	"errors"
	"time"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"
)

var (
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")

	// ErrCourierUnavailable is returned when dispatching a courier that is not
	// online and available, typically because a concurrent assignment claimed it
	// between candidate listing and this call. Callers should re-fetch the
	// candidate list rather than retry blindly.
	ErrCourierUnavailable = errors.New("courier is not available for dispatch")

	// ErrCourierNotBusy is returned when completing or cancelling a delivery on
	// a courier that is not carrying one.
	ErrCourierNotBusy = errors.New("courier has no active delivery")
)

// DeliveryStats aggregates a courier's delivery history for ranking and display.
type DeliveryStats struct {
	Total         int
	Successful    int
	Cancelled     int
	AverageRating float64
}

// Courier is the aggregate root for a delivery partner: a capacity-bearing
// matching candidate with a vehicle, a declared service area, a live position,
// and a work status tied to the presence registry.
//
// Business rules:
//   - Only an online, available courier can be dispatched
//   - Dispatch and completion flip the status atomically with the surrounding
//     order/delivery transaction; concurrent dispatches of the same courier
//     cannot both succeed
//   - The live position is a last-write-wins soft state; staleness is bounded
//     only by the lastSeen timestamp
type Courier struct {
	id          kernel.UUID
	partnerCode string
	name        string
	phone       string

	vehicle     Vehicle
	serviceArea ServiceArea

	status   Status
	isOnline bool
	location *kernel.GeoPoint
	lastSeen time.Time

	stats DeliveryStats

	isConstructed bool
}

// NewCourier creates a new Courier with validation.
// New couriers start offline with no recorded position.
func NewCourier(
	id kernel.UUID,
	partnerCode string,
	name string,
	phone string,
	vehicle Vehicle,
	serviceArea ServiceArea,
) (*Courier, error) {
	c := &Courier{
		status:        Offline,
		lastSeen:      time.Now(),
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setPartnerCode(partnerCode),
		c.setName(name),
		c.setPhone(phone),
		c.setVehicle(vehicle),
		c.setServiceArea(serviceArea),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a Courier from persistence.
func RestoreCourier(
	id kernel.UUID,
	partnerCode string,
	name string,
	phone string,
	vehicle Vehicle,
	serviceArea ServiceArea,
	status Status,
	isOnline bool,
	location *kernel.GeoPoint,
	lastSeen time.Time,
	stats DeliveryStats,
) (*Courier, error) {
	c, err := NewCourier(id, partnerCode, name, phone, vehicle, serviceArea)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	c.status = status
	c.isOnline = isOnline
	c.location = location
	c.lastSeen = lastSeen
	c.stats = stats
	return c, nil
}

// Validate ensures the Courier instance was properly constructed.
func (c *Courier) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCourierIsNotConstructed
	}

	return nil
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// PartnerCode returns the human-facing partner code (e.g. "DP001").
func (c *Courier) PartnerCode() string {
	return c.partnerCode
}

// Name returns the courier's display name.
func (c *Courier) Name() string {
	return c.name
}

// Phone returns the courier's contact number.
func (c *Courier) Phone() string {
	return c.phone
}

// Vehicle returns the courier's transport.
func (c *Courier) Vehicle() Vehicle {
	return c.vehicle
}

// ServiceArea returns the courier's declared working area.
func (c *Courier) ServiceArea() ServiceArea {
	return c.serviceArea
}

// Status returns the courier's current work state.
func (c *Courier) Status() Status {
	return c.status
}

// IsOnline reports whether the courier has a live connection according to the
// last presence update persisted for it.
func (c *Courier) IsOnline() bool {
	return c.isOnline
}

// Location returns the last reported position, or nil if none was ever reported.
func (c *Courier) Location() *kernel.GeoPoint {
	return c.location
}

// LastSeen returns the time of the last presence or location signal.
func (c *Courier) LastSeen() time.Time {
	return c.lastSeen
}

// Stats returns the courier's delivery history counters.
func (c *Courier) Stats() DeliveryStats {
	return c.stats
}

// IsDispatchable reports whether the courier can take a new delivery right now.
func (c *Courier) IsDispatchable() bool {
	return c.isOnline && c.status == Available
}

// CanCarry reports whether the vehicle capacity covers the given order weight.
func (c *Courier) CanCarry(weightKg float64) bool {
	return weightKg <= c.vehicle.CapacityKg()
}

// MarkOnline records a live connection. An offline courier becomes available;
// a busy courier stays busy.
func (c *Courier) MarkOnline() error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.isOnline = true
	c.lastSeen = time.Now()
	if c.status == Offline {
		c.status = Available
	}
	return nil
}

// MarkOffline records a disconnect, stamping lastSeen. An available courier
// becomes offline; a busy courier keeps its busy status because its active
// delivery is still in flight.
func (c *Courier) MarkOffline() error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.isOnline = false
	c.lastSeen = time.Now()
	if c.status == Available {
		c.status = Offline
	}
	return nil
}

// UpdateLocation records a position report. Last write wins; also refreshes
// lastSeen since a moving courier is evidently alive.
func (c *Courier) UpdateLocation(point kernel.GeoPoint) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	c.location = &point
	c.lastSeen = time.Now()
	return nil
}

// Dispatch claims the courier for a delivery, flipping it to busy.
//
// Fails with ErrCourierUnavailable unless the courier is online and available.
// The caller must persist the flip in the same transaction as the delivery
// assignment so concurrent dispatches cannot both succeed.
func (c *Courier) Dispatch() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if !c.IsDispatchable() {
		return ErrCourierUnavailable
	}

	c.status = Busy
	return nil
}

// CompleteDelivery returns a busy courier to available and advances its
// success counters.
func (c *Courier) CompleteDelivery() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.status != Busy {
		return ErrCourierNotBusy
	}

	c.status = Available
	c.stats.Total++
	c.stats.Successful++
	return nil
}

// CancelDelivery returns a busy courier to available and advances its
// cancellation counters. Used when an assigned order is cancelled.
func (c *Courier) CancelDelivery() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.status != Busy {
		return ErrCourierNotBusy
	}

	c.status = Available
	c.stats.Total++
	c.stats.Cancelled++
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setPartnerCode(partnerCode string) error {
	if partnerCode == "" {
		return errs.NewValueIsRequiredError("partner code")
	}
	c.partnerCode = partnerCode
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *Courier) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	c.phone = phone
	return nil
}

func (c *Courier) setVehicle(vehicle Vehicle) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	c.vehicle = vehicle
	return nil
}

func (c *Courier) setServiceArea(serviceArea ServiceArea) error {
	if err := serviceArea.Validate(); err != nil {
		return err
	}
	c.serviceArea = serviceArea
	return nil
}
