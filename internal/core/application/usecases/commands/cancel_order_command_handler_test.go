package commands_test

import (
	"log/slog"
	"testing"

	"agrimarket/internal/core/application/usecases/commands"
	"agrimarket/internal/core/domain/model/courier"
	"agrimarket/internal/core/domain/model/delivery"
	"agrimarket/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderCommandHandler_Handle_BeforePickupRestoresStock(t *testing.T) {
	ctx := t.Context()
	f := newAssignedFixture(t)
	item := testItem(t, f.order.SellerID(), 100)
	require.NoError(t, item.Reserve(50))

	cmd, err := commands.NewCancelOrderCommand(f.order.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	deliveryRepo := new(MockDeliveryRepository)
	inventoryRepo := new(MockInventoryRepository)
	uow := new(MockUnitOfWork)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, f.order.ID()).Return(f.order, nil).Once(),
		uow.On("InventoryRepository").Return(inventoryRepo).Once(),
		inventoryRepo.On("GetForUpdate", ctx, f.order.Items()[0].ItemID()).Return(item, nil).Once(),
		inventoryRepo.On("Update", ctx, mock.AnythingOfType("*inventory.Item")).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("GetForUpdate", ctx, f.courier.ID()).Return(f.courier, nil).Once(),
		courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("GetByOrder", ctx, f.order.ID()).Return(f.delivery, nil).Once(),
		deliveryRepo.On("Update", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderProgressUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderChanged", ctx, mock.AnythingOfType("ports.OrderChangedEvent")).
		Return(nil).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, nil, publisher, slog.Default())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, f.order.Status())
	assert.InDelta(t, 100.0, item.AvailableKg(), 0.001)
	assert.InDelta(t, 0.0, item.SoldKg(), 0.001)
	assert.Equal(t, courier.Available, f.courier.Status())
	assert.Equal(t, 1, f.courier.Stats().Cancelled)
	assert.Equal(t, delivery.Failed, f.delivery.Status())

	inventoryRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_AfterPickupKeepsStock(t *testing.T) {
	ctx := t.Context()
	f := newAssignedFixture(t)
	f.advanceTo(t, order.PickedUp)

	cmd, err := commands.NewCancelOrderCommand(f.order.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUnitOfWork)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, f.order.ID()).Return(f.order, nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("GetForUpdate", ctx, f.courier.ID()).Return(f.courier, nil).Once(),
		courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("GetByOrder", ctx, f.order.ID()).Return(f.delivery, nil).Once(),
		deliveryRepo.On("Update", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderProgressUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, nil, nil, slog.Default())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, f.order.Status())
	uow.AssertNotCalled(t, "InventoryRepository")
	uow.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_TerminalOrder(t *testing.T) {
	ctx := t.Context()
	f := newAssignedFixture(t)
	f.advanceTo(t, order.InTransit)
	require.NoError(t, f.order.Advance(order.Delivered))

	cmd, err := commands.NewCancelOrderCommand(f.order.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUnitOfWork)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, f.order.ID()).Return(f.order, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderProgressUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, nil, nil, slog.Default())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrIllegalTransition)
	assert.Equal(t, order.Delivered, f.order.Status())
	uow.AssertNotCalled(t, "Commit", ctx)
}
