package commands

import (
	"errors"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/guard"
)

var ErrUpdateCourierLocationCommandIsNotConstructed = errors.New(
	"UpdateCourierLocationCommand must be created via NewUpdateCourierLocationCommand constructor",
)

// UpdateCourierLocationCommand represents a courier position report. When an
// order is named, the same coordinates propagate into the active delivery and
// the order's mirrored location.
//
// This is a high-frequency, idempotent write: last write wins and no locking
// is taken.
type UpdateCourierLocationCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	point     kernel.GeoPoint
	orderID   *kernel.UUID

	guard guard.ConstructorGuard
}

// NewUpdateCourierLocationCommand creates a command to record a courier's
// position. OrderID may be nil when the courier is idle.
func NewUpdateCourierLocationCommand(
	courierID kernel.UUID,
	point kernel.GeoPoint,
	orderID *kernel.UUID,
) (UpdateCourierLocationCommand, error) {
	cmd := UpdateCourierLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setPoint(point),
		cmd.setOrderID(orderID),
	); err != nil {
		return UpdateCourierLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierLocationCommandIsNotConstructed)
}

// CourierID returns the reporting courier.
func (c UpdateCourierLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Point returns the reported position.
func (c UpdateCourierLocationCommand) Point() kernel.GeoPoint {
	return c.point
}

// OrderID returns the active order to propagate into, or nil.
func (c UpdateCourierLocationCommand) OrderID() *kernel.UUID {
	return c.orderID
}

func (c *UpdateCourierLocationCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *UpdateCourierLocationCommand) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.point = point
	return nil
}

func (c *UpdateCourierLocationCommand) setOrderID(orderID *kernel.UUID) error {
	if orderID == nil {
		return nil
	}
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
