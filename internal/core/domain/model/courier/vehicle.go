package courier

import (
	"errors"
	"fmt"

	"agrimarket/internal/pkg/errs"
	"agrimarket/internal/pkg/guard"
)

// ErrVehicleIsNotConstructed is returned when a Vehicle was not created via NewVehicle.
var ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle constructor")

// VehicleType classifies a courier's transport.
type VehicleType int

const (
	// UnknownVehicleType represents an invalid or undefined vehicle type.
	UnknownVehicleType VehicleType = iota

	// Bike is a two-wheeler for small, nearby loads.
	Bike

	// Van is a light commercial vehicle for medium loads.
	Van

	// Truck is a heavy vehicle for bulk loads.
	Truck
)

func getVehicleTypeStrings() map[VehicleType]string {
	return map[VehicleType]string{
		UnknownVehicleType: "unknown",
		Bike:               "bike",
		Van:                "van",
		Truck:              "truck",
	}
}

// VehicleTypeFromString parses a vehicle type from its wire representation.
func VehicleTypeFromString(s string) (VehicleType, error) {
	for vehicleType, str := range getVehicleTypeStrings() {
		if str == s && vehicleType != UnknownVehicleType {
			return vehicleType, nil
		}
	}
	return UnknownVehicleType, errs.NewValueIsInvalidErrorWithCause("vehicle type",
		fmt.Errorf("%q is not a valid vehicle type", s))
}

// Validate checks if the VehicleType is one of the defined types.
func (t VehicleType) Validate() error {
	if t != Bike && t != Van && t != Truck {
		return errs.NewValueIsInvalidErrorWithCause("vehicle type",
			fmt.Errorf("%d is not a valid vehicle type", t))
	}
	return nil
}

// String returns the lowercase name of the vehicle type.
func (t VehicleType) String() string {
	if str, ok := getVehicleTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// Vehicle is the capacity-bearing transport a courier operates.
// CapacityKg bounds the total weight of any order the courier may take.
type Vehicle struct { //nolint:recvcheck //using for validation
	vehicleType VehicleType
	number      string
	capacityKg  float64

	guard guard.ConstructorGuard
}

// NewVehicle creates a validated Vehicle.
// The registration number must be non-empty and capacity positive.
func NewVehicle(vehicleType VehicleType, number string, capacityKg float64) (Vehicle, error) {
	v := Vehicle{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setVehicleType(vehicleType),
		v.setNumber(number),
		v.setCapacityKg(capacityKg),
	); err != nil {
		return Vehicle{}, err
	}

	return v, nil
}

// Validate ensures the Vehicle was created through the constructor.
func (v Vehicle) Validate() error {
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

// Type returns the vehicle classification.
func (v Vehicle) Type() VehicleType {
	return v.vehicleType
}

// Number returns the registration number.
func (v Vehicle) Number() string {
	return v.number
}

// CapacityKg returns the maximum load weight in kilograms.
func (v Vehicle) CapacityKg() float64 {
	return v.capacityKg
}

func (v *Vehicle) setVehicleType(vehicleType VehicleType) error {
	if err := vehicleType.Validate(); err != nil {
		return err
	}
	v.vehicleType = vehicleType
	return nil
}

func (v *Vehicle) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("vehicle number")
	}
	v.number = number
	return nil
}

func (v *Vehicle) setCapacityKg(capacityKg float64) error {
	if capacityKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("vehicle capacity",
			fmt.Errorf("%.2f is not greater than 0", capacityKg))
	}
	v.capacityKg = capacityKg
	return nil
}
