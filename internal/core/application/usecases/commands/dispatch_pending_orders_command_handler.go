package commands

import (
	"context"
	"errors"
	"log/slog"

	"agrimarket/internal/core/domain/model/courier"
	"agrimarket/internal/core/domain/model/order"
	"agrimarket/internal/core/domain/services"
)

// DispatchPendingOrdersCommandHandler runs one auto-dispatch sweep: it lists
// the waiting orders and the dispatchable courier pool, ranks candidates with
// the matcher, and delegates each chosen pair to the assignment handler.
//
// Each assignment runs in its own transaction. A courier concurrently claimed
// elsewhere fails just that order's assignment; the sweep logs it and moves
// on, and the order stays in the pool for the next tick.
type DispatchPendingOrdersCommandHandler struct {
	uowFactory    DispatchUoWFactory
	assignHandler AssignCourierCommandHandler
	matcher       services.CourierMatcher
	logger        *slog.Logger
}

// NewDispatchPendingOrdersCommandHandler creates a handler for dispatch sweeps.
func NewDispatchPendingOrdersCommandHandler(
	uowFactory DispatchUoWFactory,
	assignHandler AssignCourierCommandHandler,
	logger *slog.Logger,
) DispatchPendingOrdersCommandHandler {
	return DispatchPendingOrdersCommandHandler{
		uowFactory:    uowFactory,
		assignHandler: assignHandler,
		matcher:       services.NewCourierMatcher(),
		logger:        logger.With("component", "commands.dispatch_pending_orders"),
	}
}

// Handle processes one sweep. Orders are taken oldest first; a courier
// assigned during the sweep is excluded from later matches in the same sweep.
func (h DispatchPendingOrdersCommandHandler) Handle(ctx context.Context, cmd DispatchPendingOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	waiting, pool, err := h.loadWork(ctx)
	if err != nil {
		return err
	}
	if len(waiting) == 0 || len(pool) == 0 {
		return nil
	}

	for _, theOrder := range waiting {
		candidates, matchErr := h.matcher.Match(services.MatchRequest{
			PickupPoint:   theOrder.PickupAddress().Point(),
			DeliveryPoint: theOrder.DeliveryAddress().Point(),
			TotalWeightKg: theOrder.TotalWeightKg(),
			City:          theOrder.DeliveryAddress().City(),
		}, pool)
		if matchErr != nil {
			return matchErr
		}
		if len(candidates) == 0 || !candidates[0].IsEligible() {
			continue
		}

		chosen := candidates[0].Courier
		assignCmd, cmdErr := NewAssignCourierCommand(theOrder.ID(), chosen.ID())
		if cmdErr != nil {
			return cmdErr
		}

		if assignErr := h.assignHandler.Handle(ctx, assignCmd); assignErr != nil {
			if errors.Is(assignErr, courier.ErrCourierUnavailable) {
				h.logger.InfoContext(ctx, "courier claimed concurrently, order stays pending",
					"order_id", theOrder.ID().String(),
					"courier_id", chosen.ID().String())
				continue
			}
			h.logger.WarnContext(ctx, "auto-dispatch assignment failed",
				"order_id", theOrder.ID().String(),
				"courier_id", chosen.ID().String(),
				"error", assignErr)
			continue
		}

		// Exclude the claimed courier from the rest of this sweep.
		_ = chosen.Dispatch()
	}

	return nil
}

func (h DispatchPendingOrdersCommandHandler) loadWork(
	ctx context.Context,
) ([]*order.Order, []*courier.Courier, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	waiting, err := uow.OrderRepository().GetAllUnassigned(ctx)
	if err != nil {
		return nil, nil, err
	}
	pool, err := uow.CourierRepository().GetAllDispatchable(ctx)
	if err != nil {
		return nil, nil, err
	}

	return waiting, pool, nil
}
