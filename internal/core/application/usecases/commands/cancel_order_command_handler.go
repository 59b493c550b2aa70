package commands

import (
	"context"
	"log/slog"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/domain/model/order"
	"agrimarket/internal/core/ports"
	"agrimarket/internal/notify"
)

// CancelOrderCommandHandler abandons an order from any non-terminal state.
//
// A cancellation before pickup runs the compensating inventory restore: every
// reserved line returns its quantity to stock and reverses the sold/revenue
// counters recorded at reservation time. After pickup the goods already left
// the seller, so stock is not restored. An assigned courier is released back
// to available with its cancellation counter advanced, and the delivery record
// is marked failed.
type CancelOrderCommandHandler struct {
	uowFactory OrderProgressUoWFactory
	relay      *notify.Relay
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory OrderProgressUoWFactory,
	relay *notify.Relay,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		relay:      relay,
		publisher:  publisher,
		logger:     logger.With("component", "commands.cancel_order"),
	}
}

// Handle processes the cancellation command.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	wasPickedUp := theOrder.WasPickedUp()
	if err = theOrder.Cancel(); err != nil {
		return err
	}

	if !wasPickedUp {
		inventoryRepo := uow.InventoryRepository()
		for _, line := range theOrder.Items() {
			item, itemErr := inventoryRepo.GetForUpdate(ctx, line.ItemID())
			if itemErr != nil {
				return itemErr
			}
			if itemErr = item.Restore(line.QuantityKg()); itemErr != nil {
				return itemErr
			}
			if itemErr = inventoryRepo.Update(ctx, item); itemErr != nil {
				return itemErr
			}
		}
	}

	if theOrder.Courier() != nil {
		courierRepo := uow.CourierRepository()
		theCourier, courierErr := courierRepo.GetForUpdate(ctx, *theOrder.Courier())
		if courierErr != nil {
			return courierErr
		}
		if courierErr = theCourier.CancelDelivery(); courierErr != nil {
			return courierErr
		}
		if courierErr = courierRepo.Update(ctx, theCourier); courierErr != nil {
			return courierErr
		}
	}

	deliveryRepo := uow.DeliveryRepository()
	theDelivery, err := deliveryRepo.GetByOrder(ctx, theOrder.ID())
	if err != nil {
		return err
	}
	if err = theDelivery.MarkFailed(); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, theDelivery); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, theOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifyCancellation(ctx, theOrder)
	publishOrderChanged(ctx, h.publisher, h.logger, theOrder)
	return nil
}

func (h CancelOrderCommandHandler) notifyCancellation(ctx context.Context, o *order.Order) {
	if h.relay == nil {
		return
	}

	h.relay.Broadcast(ctx, []kernel.UUID{o.BuyerID(), o.SellerID()}, ports.Notification{
		Kind: notify.KindOrderStatus,
		Data: map[string]any{
			"order_id": o.ID().String(),
			"status":   order.Cancelled.String(),
		},
	})
}
