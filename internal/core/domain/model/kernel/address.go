package kernel

import (
	"errors"

	"agrimarket/internal/pkg/errs"
	"agrimarket/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly
// initialized Address. Addresses must be created via NewAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is an immutable postal address paired with its geographic point.
// Pickup addresses are copied from an inventory item's registered location at
// order creation; delivery addresses are supplied by the buyer.
type Address struct { //nolint:recvcheck //using for validation
	line  string
	city  string
	point GeoPoint
	guard guard.ConstructorGuard
}

// NewAddress creates a validated Address. The line must be non-empty and the
// point must be a properly constructed GeoPoint. City may be empty for rural
// locations outside any serviced city.
func NewAddress(line string, city string, point GeoPoint) (Address, error) {
	addr := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(addr.setLine(line), addr.setPoint(point)); err != nil {
		return Address{}, err
	}

	addr.city = city
	return addr, nil
}

// Validate checks if the Address was properly constructed via NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Line returns the free-form street line of the address.
func (a Address) Line() string {
	return a.line
}

// City returns the city name, possibly empty.
func (a Address) City() string {
	return a.city
}

// Point returns the geographic coordinates of the address.
func (a Address) Point() GeoPoint {
	return a.point
}

func (a *Address) setLine(line string) error {
	if line == "" {
		return errs.NewValueIsRequiredError("address line")
	}
	a.line = line
	return nil
}

func (a *Address) setPoint(point GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	a.point = point
	return nil
}
