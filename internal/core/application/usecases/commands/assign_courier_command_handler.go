package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"agrimarket/internal/core/domain/model/courier"
	"agrimarket/internal/core/domain/model/delivery"
	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/domain/model/order"
	"agrimarket/internal/core/ports"
	"agrimarket/internal/notify"
)

var (
	// ErrCourierCannotCarryOrder is returned when the chosen courier's vehicle
	// capacity no longer covers the order weight at assignment time.
	ErrCourierCannotCarryOrder = errors.New("courier vehicle cannot carry the order weight")

	// ErrCourierOutOfRange is returned when the pickup point falls outside the
	// chosen courier's declared service radius at assignment time.
	ErrCourierOutOfRange = errors.New("pickup point is outside the courier's service area")
)

// AssignCourierCommandHandler executes the dispatch decision: it claims the
// courier, binds it to the order and the delivery record, and notifies both
// trade parties.
//
// Capacity and range are re-validated inside the transaction because the
// candidate listing the caller acted on may be stale. If the courier was
// concurrently claimed between listing and this call, Handle fails with
// courier.ErrCourierUnavailable and leaves no partial state; the caller should
// re-fetch the candidate list rather than retry blindly.
type AssignCourierCommandHandler struct {
	uowFactory DispatchUoWFactory
	relay      *notify.Relay
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewAssignCourierCommandHandler creates a handler for courier assignment.
func NewAssignCourierCommandHandler(
	uowFactory DispatchUoWFactory,
	relay *notify.Relay,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		relay:      relay,
		publisher:  publisher,
		logger:     logger.With("component", "commands.assign_courier"),
	}
}

// Handle processes the assignment command.
//
// Both rows are loaded with locks; the courier flip to busy, the order's
// Confirmed transition, and the delivery's partner binding commit together or
// not at all.
func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	courierRepo := uow.CourierRepository()
	deliveryRepo := uow.DeliveryRepository()

	theOrder, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	theCourier, err := courierRepo.GetForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if !theCourier.CanCarry(theOrder.TotalWeightKg()) {
		return ErrCourierCannotCarryOrder
	}
	if theCourier.Location() != nil {
		pickupDistance, distErr := theCourier.Location().DistanceKmTo(theOrder.PickupAddress().Point())
		if distErr != nil {
			return distErr
		}
		if !theCourier.ServiceArea().CoversDistance(pickupDistance) {
			return ErrCourierOutOfRange
		}
	}

	if err = theCourier.Dispatch(); err != nil {
		return err
	}
	if err = theOrder.AssignCourier(theCourier.ID()); err != nil {
		return err
	}

	theDelivery, err := deliveryRepo.GetByOrder(ctx, theOrder.ID())
	if err != nil {
		return err
	}
	if err = theDelivery.AssignPartner(theCourier.ID()); err != nil {
		return err
	}
	if theCourier.Location() != nil {
		if err = theDelivery.UpdateLocation(*theCourier.Location()); err != nil {
			return err
		}
		if err = theOrder.UpdateCourierLocation(*theCourier.Location()); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, theOrder); err != nil {
		return err
	}
	if err = courierRepo.Update(ctx, theCourier); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, theDelivery); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifyParties(ctx, theOrder, theCourier, theDelivery)
	publishOrderChanged(ctx, h.publisher, h.logger, theOrder)
	return nil
}

func (h AssignCourierCommandHandler) notifyParties(
	ctx context.Context, o *order.Order, c *courier.Courier, d *delivery.Delivery,
) {
	if h.relay == nil {
		return
	}

	data := map[string]any{
		"order_id":       o.ID().String(),
		"courier_name":   c.Name(),
		"courier_phone":  c.Phone(),
		"vehicle_type":   c.Vehicle().Type().String(),
		"vehicle_number": c.Vehicle().Number(),
	}
	if eta := d.EstimatedDeliveryTime(); eta != nil {
		data["estimated_delivery_time"] = eta.Format(time.RFC3339)
	}

	h.relay.Broadcast(ctx, []kernel.UUID{o.BuyerID(), o.SellerID()}, ports.Notification{
		Kind: notify.KindCourierAssigned,
		Data: data,
	})
}
