package inventory

import (
	"errors"
	"fmt"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"
)

var (
	// ErrItemIsNotConstructed is returned when an Item instance was not created through
	// the NewItem or RestoreItem factory methods.
	ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

	// ErrInsufficientStock is returned when a reservation asks for more than the
	// currently available quantity. The reservation performs no write in that case.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError carries the requested-versus-available detail so callers
// can produce an actionable message. It unwraps to ErrInsufficientStock.
type InsufficientStockError struct {
	ItemID      kernel.UUID
	RequestedKg float64
	AvailableKg float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: requested %.2f kg, available %.2f kg",
		e.ItemID, e.RequestedKg, e.AvailableKg)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// Item is the inventory ledger entry for a sellable unit: a crop lot, seed bag,
// pesticide, fertilizer, or piece of equipment registered by a seller.
//
// Item maintains these invariants:
//   - Available quantity never goes negative; a reservation that would overdraw
//     fails before any state changes
//   - The availability flag flips to false in the same operation that drains the
//     last kilogram, so there is no window where stock is zero but the item still
//     reads available
//   - Cumulative sold quantity and revenue move together with reservations and
//     their compensating restores
type Item struct {
	id          kernel.UUID
	sellerID    kernel.UUID
	name        string
	itemType    ItemType
	pricePerKg  float64
	availableKg float64
	soldKg      float64
	revenue     float64
	available   bool
	pickup      kernel.Address

	isConstructed bool
}

// NewItem creates a new inventory Item with validation.
//
// The pickup address is the seller's registered location for this item; it is
// copied into orders at creation time so dispatch eligibility is evaluated
// against a stable point.
func NewItem(
	id kernel.UUID,
	sellerID kernel.UUID,
	name string,
	itemType ItemType,
	pricePerKg float64,
	availableKg float64,
	pickup kernel.Address,
) (*Item, error) {
	item := &Item{
		isConstructed: true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setSellerID(sellerID),
		item.setName(name),
		item.setItemType(itemType),
		item.setPricePerKg(pricePerKg),
		item.setAvailableKg(availableKg),
		item.setPickup(pickup),
	); err != nil {
		return nil, err
	}

	item.available = item.availableKg > 0
	return item, nil
}

// RestoreItem reconstructs an Item from persistence without re-running creation
// rules, keeping the stored ledger counters as-is.
func RestoreItem(
	id kernel.UUID,
	sellerID kernel.UUID,
	name string,
	itemType ItemType,
	pricePerKg float64,
	availableKg float64,
	soldKg float64,
	revenue float64,
	available bool,
	pickup kernel.Address,
) (*Item, error) {
	item, err := NewItem(id, sellerID, name, itemType, pricePerKg, availableKg, pickup)
	if err != nil {
		return nil, err
	}

	item.soldKg = soldKg
	item.revenue = revenue
	item.available = available
	return item, nil
}

// Validate ensures the Item instance was properly constructed.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}

	return nil
}

// ID returns the item's unique identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// SellerID returns the identifier of the seller who registered the item.
func (i *Item) SellerID() kernel.UUID {
	return i.sellerID
}

// Name returns the item's display name.
func (i *Item) Name() string {
	return i.name
}

// Type returns the item's category.
func (i *Item) Type() ItemType {
	return i.itemType
}

// PricePerKg returns the unit price in rupees per kilogram.
func (i *Item) PricePerKg() float64 {
	return i.pricePerKg
}

// AvailableKg returns the quantity currently available for reservation.
func (i *Item) AvailableKg() float64 {
	return i.availableKg
}

// SoldKg returns the cumulative reserved-and-sold quantity.
func (i *Item) SoldKg() float64 {
	return i.soldKg
}

// Revenue returns the cumulative revenue recorded for reservations.
func (i *Item) Revenue() float64 {
	return i.revenue
}

// IsAvailable reports whether the item is open for new reservations.
func (i *Item) IsAvailable() bool {
	return i.available
}

// Pickup returns the seller's registered pickup address for the item.
func (i *Item) Pickup() kernel.Address {
	return i.pickup
}

// Reserve atomically decrements available stock and advances the cumulative
// sold/revenue counters. When the reservation drains the last kilogram the
// availability flag flips to false in the same operation.
//
// Returns an InsufficientStockError (wrapping ErrInsufficientStock) and performs
// no write when the requested quantity exceeds the available quantity. Callers
// must treat a failed reservation as all-or-nothing and roll back any
// surrounding order creation.
func (i *Item) Reserve(quantityKg float64) error {
	if err := i.Validate(); err != nil {
		return err
	}

	if quantityKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%.2f is not greater than 0", quantityKg))
	}

	if !i.available || quantityKg > i.availableKg {
		return &InsufficientStockError{
			ItemID:      i.id,
			RequestedKg: quantityKg,
			AvailableKg: i.availableKg,
		}
	}

	i.availableKg -= quantityKg
	i.soldKg += quantityKg
	i.revenue += quantityKg * i.pricePerKg

	if i.availableKg <= 0 {
		i.availableKg = 0
		i.available = false
	}

	return nil
}

// Restore is the compensating transaction for Reserve, applied when an order is
// cancelled before pickup. It returns the reserved quantity to stock, reverses
// the sold/revenue counters recorded at reservation time, and reopens the item
// for sale.
func (i *Item) Restore(quantityKg float64) error {
	if err := i.Validate(); err != nil {
		return err
	}

	if quantityKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%.2f is not greater than 0", quantityKg))
	}

	i.availableKg += quantityKg
	i.available = true

	i.soldKg -= quantityKg
	if i.soldKg < 0 {
		i.soldKg = 0
	}

	i.revenue -= quantityKg * i.pricePerKg
	if i.revenue < 0 {
		i.revenue = 0
	}

	return nil
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setSellerID(sellerID kernel.UUID) error {
	if err := sellerID.Validate(); err != nil {
		return err
	}
	i.sellerID = sellerID
	return nil
}

func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.name = name
	return nil
}

func (i *Item) setItemType(itemType ItemType) error {
	if err := itemType.Validate(); err != nil {
		return err
	}
	i.itemType = itemType
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

func (i *Item) setAvailableKg(availableKg float64) error {
	if availableKg < 0 {
		return errs.NewValueIsInvalidErrorWithCause("available quantity",
			fmt.Errorf("%.2f is negative", availableKg))
	}
	i.availableKg = availableKg
	return nil
}

func (i *Item) setPickup(pickup kernel.Address) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	i.pickup = pickup
	return nil
}
