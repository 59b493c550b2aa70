package commands

import (
	"errors"

	"agrimarket/internal/core/domain/model/courier"
	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"
	"agrimarket/internal/pkg/guard"
)

var ErrRegisterCourierCommandIsNotConstructed = errors.New(
	"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
)

// RegisterCourierCommand represents a request to register a new delivery
// partner with their vehicle and declared service area. New couriers start
// offline; they become dispatchable when they first connect.
type RegisterCourierCommand struct { //nolint:recvcheck //using for validation
	courierID     kernel.UUID
	partnerCode   string
	name          string
	phone         string
	vehicleType   courier.VehicleType
	vehicleNumber string
	capacityKg    float64
	cities        []string
	maxDistanceKm float64

	guard guard.ConstructorGuard
}

// NewRegisterCourierCommand creates a command to register a delivery partner.
func NewRegisterCourierCommand(
	courierID kernel.UUID,
	partnerCode string,
	name string,
	phone string,
	vehicleType courier.VehicleType,
	vehicleNumber string,
	capacityKg float64,
	cities []string,
	maxDistanceKm float64,
) (RegisterCourierCommand, error) {
	cmd := RegisterCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setPartnerCode(partnerCode),
		cmd.setName(name),
		cmd.setPhone(phone),
		cmd.setVehicleType(vehicleType),
		cmd.setVehicleNumber(vehicleNumber),
		cmd.setCapacityKg(capacityKg),
		cmd.setMaxDistanceKm(maxDistanceKm),
	); err != nil {
		return RegisterCourierCommand{}, err
	}

	cmd.cities = append([]string(nil), cities...)
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

// CourierID returns the identifier for the new courier.
func (c RegisterCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// PartnerCode returns the human-facing partner code.
func (c RegisterCourierCommand) PartnerCode() string {
	return c.partnerCode
}

// Name returns the courier's display name.
func (c RegisterCourierCommand) Name() string {
	return c.name
}

// Phone returns the courier's contact number.
func (c RegisterCourierCommand) Phone() string {
	return c.phone
}

// VehicleType returns the vehicle classification.
func (c RegisterCourierCommand) VehicleType() courier.VehicleType {
	return c.vehicleType
}

// VehicleNumber returns the vehicle registration number.
func (c RegisterCourierCommand) VehicleNumber() string {
	return c.vehicleNumber
}

// CapacityKg returns the vehicle's maximum load weight.
func (c RegisterCourierCommand) CapacityKg() float64 {
	return c.capacityKg
}

// Cities returns a copy of the declared city list.
func (c RegisterCourierCommand) Cities() []string {
	return append([]string(nil), c.cities...)
}

// MaxDistanceKm returns the declared service radius.
func (c RegisterCourierCommand) MaxDistanceKm() float64 {
	return c.maxDistanceKm
}

func (c *RegisterCourierCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *RegisterCourierCommand) setPartnerCode(partnerCode string) error {
	if partnerCode == "" {
		return errs.NewValueIsRequiredError("partner code")
	}

	c.partnerCode = partnerCode
	return nil
}

func (c *RegisterCourierCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	c.name = name
	return nil
}

func (c *RegisterCourierCommand) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}

	c.phone = phone
	return nil
}

func (c *RegisterCourierCommand) setVehicleType(vehicleType courier.VehicleType) error {
	if err := vehicleType.Validate(); err != nil {
		return err
	}

	c.vehicleType = vehicleType
	return nil
}

func (c *RegisterCourierCommand) setVehicleNumber(vehicleNumber string) error {
	if vehicleNumber == "" {
		return errs.NewValueIsRequiredError("vehicle number")
	}

	c.vehicleNumber = vehicleNumber
	return nil
}

func (c *RegisterCourierCommand) setCapacityKg(capacityKg float64) error {
	if capacityKg <= 0 {
		return errs.NewValueIsInvalidError("vehicle capacity")
	}

	c.capacityKg = capacityKg
	return nil
}

func (c *RegisterCourierCommand) setMaxDistanceKm(maxDistanceKm float64) error {
	if maxDistanceKm <= 0 {
		return errs.NewValueIsInvalidError("max distance")
	}

	c.maxDistanceKm = maxDistanceKm
	return nil
}
