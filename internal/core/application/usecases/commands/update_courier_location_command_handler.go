package commands

import (
	"context"
	"log/slog"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/ports"
	"agrimarket/internal/notify"
)

// UpdateCourierLocationCommandHandler records courier position reports and
// propagates them into the active delivery and order mirror when one is named.
// Buyer and seller get a best-effort location event if they are online;
// exactly-once delivery is neither guaranteed nor required, only freshness.
type UpdateCourierLocationCommandHandler struct {
	uowFactory LocationUoWFactory
	relay      *notify.Relay
	logger     *slog.Logger
}

// NewUpdateCourierLocationCommandHandler creates a handler for location reports.
func NewUpdateCourierLocationCommandHandler(
	uowFactory LocationUoWFactory,
	relay *notify.Relay,
	logger *slog.Logger,
) UpdateCourierLocationCommandHandler {
	return UpdateCourierLocationCommandHandler{
		uowFactory: uowFactory,
		relay:      relay,
		logger:     logger.With("component", "commands.update_courier_location"),
	}
}

// Handle processes the position report. Rows are loaded without locks; a
// concurrent report for the same courier simply wins or loses the write.
func (h UpdateCourierLocationCommandHandler) Handle(
	ctx context.Context, cmd UpdateCourierLocationCommand,
) error {
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

	courierRepo := uow.CourierRepository()
	theCourier, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if err = theCourier.UpdateLocation(cmd.Point()); err != nil {
		return err
	}
	if err = courierRepo.Update(ctx, theCourier); err != nil {
		return err
	}

	var recipients []kernel.UUID
	if cmd.OrderID() != nil {
		orderRepo := uow.OrderRepository()
		theOrder, orderErr := orderRepo.Get(ctx, *cmd.OrderID())
		if orderErr != nil {
			return orderErr
		}
		if orderErr = theOrder.UpdateCourierLocation(cmd.Point()); orderErr != nil {
			return orderErr
		}
		if orderErr = orderRepo.Update(ctx, theOrder); orderErr != nil {
			return orderErr
		}

		deliveryRepo := uow.DeliveryRepository()
		theDelivery, deliveryErr := deliveryRepo.GetByOrder(ctx, theOrder.ID())
		if deliveryErr != nil {
			return deliveryErr
		}
		if deliveryErr = theDelivery.UpdateLocation(cmd.Point()); deliveryErr != nil {
			return deliveryErr
		}
		if deliveryErr = deliveryRepo.Update(ctx, theDelivery); deliveryErr != nil {
			return deliveryErr
		}

		recipients = []kernel.UUID{theOrder.BuyerID(), theOrder.SellerID()}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if h.relay != nil && len(recipients) > 0 {
		h.relay.Broadcast(ctx, recipients, ports.Notification{
			Kind: notify.KindLocationUpdate,
			Data: map[string]any{
				"order_id":   cmd.OrderID().String(),
				"courier_id": cmd.CourierID().String(),
				"latitude":   cmd.Point().Lat(),
				"longitude":  cmd.Point().Lng(),
			},
		})
	}
	return nil
}
