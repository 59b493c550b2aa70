package order

import (
	"errors"
	"fmt"

	"agrimarket/internal/core/domain/model/inventory"
	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"
	"agrimarket/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an order Item was not created via NewItem.
var ErrItemIsNotConstructed = errors.New("order Item must be created via NewItem constructor")

// Item is an immutable line of an order: a reference to a sellable inventory
// unit with the quantity and unit price captured at creation time. Quantities
// are in kilograms; the order's total weight is the sum of its item quantities.
//
// Quantity and price never change once recorded; a new order is created for
// any subsequent change.
type Item struct { //nolint:recvcheck //using for validation
	itemID     kernel.UUID
	itemType   inventory.ItemType
	quantityKg float64
	pricePerKg float64

	guard guard.ConstructorGuard
}

// NewItem creates a validated order line.
// Quantity and price must both be positive.
func NewItem(
	itemID kernel.UUID,
	itemType inventory.ItemType,
	quantityKg float64,
	pricePerKg float64,
) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setItemID(itemID),
		item.setItemType(itemType),
		item.setQuantityKg(quantityKg),
		item.setPricePerKg(pricePerKg),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the Item was created through the constructor.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ItemID returns the inventory item this line reserves.
func (i Item) ItemID() kernel.UUID {
	return i.itemID
}

// Type returns the category of the referenced inventory item.
func (i Item) Type() inventory.ItemType {
	return i.itemType
}

// QuantityKg returns the reserved quantity in kilograms.
func (i Item) QuantityKg() float64 {
	return i.quantityKg
}

// PricePerKg returns the unit price in rupees captured at order creation.
func (i Item) PricePerKg() float64 {
	return i.pricePerKg
}

// Subtotal returns quantity times unit price.
func (i Item) Subtotal() float64 {
	return i.quantityKg * i.pricePerKg
}

func (i *Item) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	i.itemID = itemID
	return nil
}

func (i *Item) setItemType(itemType inventory.ItemType) error {
	if err := itemType.Validate(); err != nil {
		return err
	}
	i.itemType = itemType
	return nil
}

func (i *Item) setQuantityKg(quantityKg float64) error {
	if quantityKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%.2f is not greater than 0", quantityKg))
	}
	i.quantityKg = quantityKg
	return nil
}

func (i *Item) setPricePerKg(pricePerKg float64) error {
	if pricePerKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("price per kg",
			fmt.Errorf("%.2f is not greater than 0", pricePerKg))
	}
	i.pricePerKg = pricePerKg
	return nil
}
