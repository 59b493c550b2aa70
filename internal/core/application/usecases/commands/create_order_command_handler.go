package commands

import (
	"context"
	"errors"
	"log/slog"

	"agrimarket/internal/core/domain/model/delivery"
	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/domain/model/order"
	"agrimarket/internal/core/ports"
)

// ErrOrderSpansSellers is returned when the requested lines reference items
// registered by more than one seller. One order, one seller.
var ErrOrderSpansSellers = errors.New("order lines must belong to a single seller")

// CreateOrderCommandHandler handles the business logic for order placement.
// Reserves inventory for every line, records the order in Pending status with
// the pickup address copied from the sold items, and opens the unassigned
// delivery record, all in one transaction. A failed reservation rolls the
// whole placement back; stock is never overdrawn.
type CreateOrderCommandHandler struct {
	uowFactory CreateOrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(
	uowFactory CreateOrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "commands.create_order"),
	}
}

// Handle processes the order placement command.
//
// Items are loaded with row locks so concurrent placements serialize per item;
// a reservation that would overdraw fails with an InsufficientStockError and
// the transaction rolls back without partial writes.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	inventoryRepo := uow.InventoryRepository()

	var (
		sellerID   kernel.UUID
		pickup     kernel.Address
		orderItems []order.Item
	)
	for i, line := range cmd.Lines() {
		item, err := inventoryRepo.GetForUpdate(ctx, line.ItemID)
		if err != nil {
			return err
		}

		if i == 0 {
			sellerID = item.SellerID()
			pickup = item.Pickup()
		} else if !item.SellerID().IsEqual(sellerID) {
			return ErrOrderSpansSellers
		}

		if err = item.Reserve(line.QuantityKg); err != nil {
			return err
		}
		if err = inventoryRepo.Update(ctx, item); err != nil {
			return err
		}

		orderItem, err := order.NewItem(item.ID(), item.Type(), line.QuantityKg, item.PricePerKg())
		if err != nil {
			return err
		}
		orderItems = append(orderItems, orderItem)
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(), cmd.BuyerID(), sellerID,
		orderItems, pickup, cmd.DeliveryAddress(), cmd.PaymentMethod(),
	)
	if err != nil {
		return err
	}
	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	newDelivery, err := delivery.NewDelivery(kernel.NewUUID(), newOrder.ID(), cmd.DeliveryAddress())
	if err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Add(ctx, newDelivery); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderChanged(ctx, h.publisher, h.logger, newOrder)
	return nil
}

// publishOrderChanged emits the integration event after a committed status
// change. Publishing is best-effort: failures are logged, never propagated.
func publishOrderChanged(
	ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, o *order.Order,
) {
	if publisher == nil {
		return
	}

	timeline := o.Timeline()
	event := ports.OrderChangedEvent{
		OrderID:    o.ID().String(),
		BuyerID:    o.BuyerID().String(),
		SellerID:   o.SellerID().String(),
		Status:     o.Status().String(),
		OccurredAt: timeline[len(timeline)-1].At,
	}
	if err := publisher.PublishOrderChanged(ctx, event); err != nil {
		logger.WarnContext(ctx, "order changed event not published",
			"order_id", event.OrderID,
			"status", event.Status,
			"error", err)
	}
}
