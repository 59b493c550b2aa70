package courier

import (
	"errors"
	"fmt"
	"strings"

	"agrimarket/internal/pkg/errs"
	"agrimarket/internal/pkg/guard"
)

// ErrServiceAreaIsNotConstructed is returned when a ServiceArea was not created
// via NewServiceArea.
var ErrServiceAreaIsNotConstructed = errors.New(
	"ServiceArea must be created via NewServiceArea constructor")

// ServiceArea declares where a courier is willing to work: an optional set of
// cities and a maximum travel distance from the pickup point in kilometers.
// An empty city list means the courier serves any city.
type ServiceArea struct { //nolint:recvcheck //using for validation
	cities        []string
	maxDistanceKm float64

	guard guard.ConstructorGuard
}

// NewServiceArea creates a validated ServiceArea. Max distance must be positive.
func NewServiceArea(cities []string, maxDistanceKm float64) (ServiceArea, error) {
	area := ServiceArea{
		guard: guard.NewConstructorGuard(),
	}

	if err := area.setMaxDistanceKm(maxDistanceKm); err != nil {
		return ServiceArea{}, err
	}

	area.cities = append([]string(nil), cities...)
	return area, nil
}

// Validate ensures the ServiceArea was created through the constructor.
func (a ServiceArea) Validate() error {
	return a.guard.Validate(ErrServiceAreaIsNotConstructed)
}

// Cities returns a copy of the declared city list.
func (a ServiceArea) Cities() []string {
	return append([]string(nil), a.cities...)
}

// MaxDistanceKm returns the courier's declared service radius.
func (a ServiceArea) MaxDistanceKm() float64 {
	return a.maxDistanceKm
}

// ServesCity reports whether the area covers the given city.
// An empty declared list covers every city; comparison is case-insensitive.
func (a ServiceArea) ServesCity(city string) bool {
	if len(a.cities) == 0 {
		return true
	}
	for _, c := range a.cities {
		if strings.EqualFold(c, city) {
			return true
		}
	}
	return false
}

// CoversDistance reports whether a pickup at the given distance falls inside
// the declared service radius.
func (a ServiceArea) CoversDistance(distanceKm float64) bool {
	return distanceKm <= a.maxDistanceKm
}

func (a *ServiceArea) setMaxDistanceKm(maxDistanceKm float64) error {
	if maxDistanceKm <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("max distance",
			fmt.Errorf("%.2f is not greater than 0", maxDistanceKm))
	}
	a.maxDistanceKm = maxDistanceKm
	return nil
}
