package commands

import (
	"context"
	"log/slog"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/domain/model/order"
	"agrimarket/internal/core/ports"
	"agrimarket/internal/notify"
)

// AdvanceOrderStatusCommandHandler moves an order one step forward and mirrors
// the step onto its delivery record. Delivering an order additionally returns
// the courier to available and advances its success counters, in the same
// transaction.
type AdvanceOrderStatusCommandHandler struct {
	uowFactory OrderProgressUoWFactory
	relay      *notify.Relay
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewAdvanceOrderStatusCommandHandler creates a handler for status transitions.
func NewAdvanceOrderStatusCommandHandler(
	uowFactory OrderProgressUoWFactory,
	relay *notify.Relay,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AdvanceOrderStatusCommandHandler {
	return AdvanceOrderStatusCommandHandler{
		uowFactory: uowFactory,
		relay:      relay,
		publisher:  publisher,
		logger:     logger.With("component", "commands.advance_order_status"),
	}
}

// Handle processes the status transition command.
//
// The order row is locked for the duration, so concurrent transitions on the
// same order serialize and the losing writer fails its own step check. The
// timeline entry, the delivery mirror, and the courier completion commit
// together.
func (h AdvanceOrderStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderStatusCommand) error {
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
	theOrder, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = theOrder.Advance(cmd.Target()); err != nil {
		return err
	}

	deliveryRepo := uow.DeliveryRepository()
	theDelivery, err := deliveryRepo.GetByOrder(ctx, theOrder.ID())
	if err != nil {
		return err
	}

	switch cmd.Target() {
	case order.PickedUp:
		err = theDelivery.MarkPickedUp()
	case order.InTransit:
		err = theDelivery.MarkInTransit()
	case order.Delivered:
		err = theDelivery.MarkDelivered()
	default:
	}
	if err != nil {
		return err
	}

	if cmd.Target() == order.Delivered {
		courierRepo := uow.CourierRepository()
		theCourier, courierErr := courierRepo.GetForUpdate(ctx, *theOrder.Courier())
		if courierErr != nil {
			return courierErr
		}
		if courierErr = theCourier.CompleteDelivery(); courierErr != nil {
			return courierErr
		}
		if courierErr = courierRepo.Update(ctx, theCourier); courierErr != nil {
			return courierErr
		}
	}

	if err = orderRepo.Update(ctx, theOrder); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, theDelivery); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifyStatusChange(ctx, theOrder)
	publishOrderChanged(ctx, h.publisher, h.logger, theOrder)
	return nil
}

func (h AdvanceOrderStatusCommandHandler) notifyStatusChange(ctx context.Context, o *order.Order) {
	if h.relay == nil {
		return
	}

	h.relay.Broadcast(ctx, []kernel.UUID{o.BuyerID(), o.SellerID()}, ports.Notification{
		Kind: notify.KindOrderStatus,
		Data: map[string]any{
			"order_id": o.ID().String(),
			"status":   o.Status().String(),
		},
	})
}
