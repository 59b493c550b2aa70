package commands

import (
	"context"

	"agrimarket/internal/core/domain/model/courier"
)

// RegisterCourierCommandHandler handles the business logic for delivery
// partner registration.
type RegisterCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewRegisterCourierCommandHandler creates a handler for courier registration.
func NewRegisterCourierCommandHandler(uowFactory CourierUoWFactory) RegisterCourierCommandHandler {
	return RegisterCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the registration command.
func (h RegisterCourierCommandHandler) Handle(ctx context.Context, cmd RegisterCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	vehicle, err := courier.NewVehicle(cmd.VehicleType(), cmd.VehicleNumber(), cmd.CapacityKg())
	if err != nil {
		return err
	}
	serviceArea, err := courier.NewServiceArea(cmd.Cities(), cmd.MaxDistanceKm())
	if err != nil {
		return err
	}
	newCourier, err := courier.NewCourier(
		cmd.CourierID(), cmd.PartnerCode(), cmd.Name(), cmd.Phone(), vehicle, serviceArea,
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierRepository().Add(ctx, newCourier); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
