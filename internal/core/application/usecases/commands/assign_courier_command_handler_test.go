package commands_test

import (
	"log/slog"
	"testing"

	"agrimarket/internal/core/application/usecases/commands"
	"agrimarket/internal/core/domain/model/courier"
	"agrimarket/internal/core/domain/model/delivery"
	"agrimarket/internal/core/domain/model/order"
	"agrimarket/internal/notify"
	"agrimarket/internal/presence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAssignRelay() *notify.Relay {
	return notify.NewRelay(presence.NewRegistry(), &noopPusher{}, slog.Default())
}

func TestAssignCourierCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	testOrder := testOrder(t, 50)
	testCourier := testDispatchableCourier(t, 200)
	theDelivery := testDelivery(t, testOrder.ID())

	cmd, err := commands.NewAssignCourierCommand(testOrder.ID(), testCourier.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUnitOfWork)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		courierRepo.On("GetForUpdate", ctx, testCourier.ID()).Return(testCourier, nil).Once(),
		deliveryRepo.On("GetByOrder", ctx, testOrder.ID()).Return(theDelivery, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		deliveryRepo.On("Update", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderChanged", ctx, mock.AnythingOfType("ports.OrderChangedEvent")).
		Return(nil).Once()

	handler := commands.NewAssignCourierCommandHandler(factory, newAssignRelay(), publisher, slog.Default())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, testOrder.Status())
	require.NotNil(t, testOrder.Courier())
	assert.True(t, testOrder.Courier().IsEqual(testCourier.ID()))
	assert.Equal(t, courier.Busy, testCourier.Status())
	assert.Equal(t, delivery.Assigned, theDelivery.Status())
	require.NotNil(t, theDelivery.PartnerID())
	assert.NotNil(t, theDelivery.EstimatedDeliveryTime())
	assert.NotNil(t, theDelivery.CurrentLocation())

	orderRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	deliveryRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAssignCourierCommandHandler_Handle_CourierAlreadyClaimed(t *testing.T) {
	ctx := t.Context()
	testOrder := testOrder(t, 50)
	testCourier := testDispatchableCourier(t, 200)
	require.NoError(t, testCourier.Dispatch()) // claimed by a concurrent assignment

	cmd, err := commands.NewAssignCourierCommand(testOrder.ID(), testCourier.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUnitOfWork)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		uow.On("DeliveryRepository").Return(new(MockDeliveryRepository)).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		courierRepo.On("GetForUpdate", ctx, testCourier.ID()).Return(testCourier, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignCourierCommandHandler(factory, newAssignRelay(), nil, slog.Default())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, courier.ErrCourierUnavailable)
	assert.Equal(t, order.Pending, testOrder.Status())
	assert.Nil(t, testOrder.Courier())
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestAssignCourierCommandHandler_Handle_CapacityRevalidated(t *testing.T) {
	ctx := t.Context()
	testOrder := testOrder(t, 150)
	testCourier := testDispatchableCourier(t, 100)

	cmd, err := commands.NewAssignCourierCommand(testOrder.ID(), testCourier.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUnitOfWork)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		uow.On("DeliveryRepository").Return(new(MockDeliveryRepository)).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		courierRepo.On("GetForUpdate", ctx, testCourier.ID()).Return(testCourier, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignCourierCommandHandler(factory, newAssignRelay(), nil, slog.Default())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrCourierCannotCarryOrder)
	assert.Equal(t, courier.Available, testCourier.Status())
}

func TestAssignCourierCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.AssignCourierCommand{} // not constructed properly

	factory := new(MockDispatchUoWFactory)
	handler := commands.NewAssignCourierCommandHandler(factory, newAssignRelay(), nil, slog.Default())
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrAssignCourierCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
