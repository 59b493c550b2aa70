package commands

import (
	"errors"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"
	"agrimarket/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// OrderLine is one requested item of a new order: which inventory item and how
// many kilograms. Price and type are captured from the item at reservation
// time, not supplied by the caller.
type OrderLine struct {
	ItemID     kernel.UUID
	QuantityKg float64
}

// CreateOrderCommand represents a request to place a new order: reserve stock
// for every line, record the order in Pending status, and open its delivery
// record.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), buyerID,
//	    []OrderLine{{ItemID: itemID, QuantityKg: 25}},
//	    deliveryAddress, "upi")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	buyerID         kernel.UUID
	lines           []OrderLine
	deliveryAddress kernel.Address
	paymentMethod   string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Requires a valid order and buyer ID, at least one line with positive
// quantity, and a constructed delivery address.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	buyerID kernel.UUID,
	lines []OrderLine,
	deliveryAddress kernel.Address,
	paymentMethod string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setBuyerID(buyerID),
		cmd.setLines(lines),
		cmd.setDeliveryAddress(deliveryAddress),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// BuyerID returns the purchasing user's identifier.
func (c CreateOrderCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

// Lines returns a copy of the requested order lines.
func (c CreateOrderCommand) Lines() []OrderLine {
	return append([]OrderLine(nil), c.lines...)
}

// DeliveryAddress returns the buyer-supplied destination.
func (c CreateOrderCommand) DeliveryAddress() kernel.Address {
	return c.deliveryAddress
}

// PaymentMethod returns the opaque payment method label.
func (c CreateOrderCommand) PaymentMethod() string {
	return c.paymentMethod
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}

	c.buyerID = buyerID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("order lines")
	}
	for _, line := range lines {
		if err := line.ItemID.Validate(); err != nil {
			return err
		}
		if line.QuantityKg <= 0 {
			return errs.NewValueIsInvalidError("quantity")
		}
	}

	c.lines = append([]OrderLine(nil), lines...)
	return nil
}

func (c *CreateOrderCommand) setDeliveryAddress(deliveryAddress kernel.Address) error {
	if err := deliveryAddress.Validate(); err != nil {
		return err
	}

	c.deliveryAddress = deliveryAddress
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(paymentMethod string) error {
	if paymentMethod == "" {
		return errs.NewValueIsRequiredError("payment method")
	}

	c.paymentMethod = paymentMethod
	return nil
}
