package cmd

import (
	"log/slog"

	"agrimarket/internal/adapters/out/postgres"
	"agrimarket/internal/core/application/usecases/commands"
	"agrimarket/internal/core/application/usecases/queries"
	"agrimarket/internal/core/ports"
	"agrimarket/internal/notify"
	"agrimarket/internal/presence"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. The presence
// registry and the notification relay are shared singletons; every handler
// gets its own unit of work factory so transactions never leak across
// operations.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	registry   *presence.Registry
	relay      *notify.Relay
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewCompositionRoot(
	_ Config,
	gormDB *gorm.DB,
	pusher ports.Pusher,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CompositionRoot {
	registry := presence.NewRegistry()
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:   registry,
		relay:      notify.NewRelay(registry, pusher, logger),
		publisher:  publisher,
		logger:     logger,
	}
}

// PresenceRegistry exposes the shared presence registry.
func (c *CompositionRoot) PresenceRegistry() *presence.Registry {
	return c.registry
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.CreateOrderUoWFactory = FuncCreateOrderUoWFactory(func() commands.CreateOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignCourierCommandHandler(f, c.relay, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAdvanceOrderStatusCommandHandler() commands.AdvanceOrderStatusCommandHandler {
	var f commands.OrderProgressUoWFactory = FuncOrderProgressUoWFactory(func() commands.OrderProgressUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceOrderStatusCommandHandler(f, c.relay, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderProgressUoWFactory = FuncOrderProgressUoWFactory(func() commands.OrderProgressUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.relay, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateUpdateCourierLocationCommandHandler() commands.UpdateCourierLocationCommandHandler {
	var f commands.LocationUoWFactory = FuncLocationUoWFactory(func() commands.LocationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateCourierLocationCommandHandler(f, c.relay, c.logger)
}

func (c *CompositionRoot) CreateSendMessageCommandHandler() commands.SendMessageCommandHandler {
	var f commands.ChatUoWFactory = FuncChatUoWFactory(func() commands.ChatUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSendMessageCommandHandler(f, c.registry, c.relay, c.logger)
}

func (c *CompositionRoot) CreateMarkConversationReadCommandHandler() commands.MarkConversationReadCommandHandler {
	var f commands.ChatUoWFactory = FuncChatUoWFactory(func() commands.ChatUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkConversationReadCommandHandler(f)
}

func (c *CompositionRoot) CreateSetPresenceCommandHandler() commands.SetPresenceCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetPresenceCommandHandler(c.registry, c.relay, f, c.logger)
}

func (c *CompositionRoot) CreateDispatchPendingOrdersCommandHandler() commands.DispatchPendingOrdersCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchPendingOrdersCommandHandler(f, c.CreateAssignCourierCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateListEligibleCouriersQueryHandler() queries.ListEligibleCouriersQueryHandler {
	return queries.NewListEligibleCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetConversationQueryHandler() queries.GetConversationQueryHandler {
	return queries.NewGetConversationQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTrackingQueryHandler() queries.GetTrackingQueryHandler {
	return queries.NewGetTrackingQueryHandler(c.gormDB)
}

type FuncCreateOrderUoWFactory func() commands.CreateOrderUoW

func (f FuncCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncOrderProgressUoWFactory func() commands.OrderProgressUoW

func (f FuncOrderProgressUoWFactory) Create() commands.OrderProgressUoW {
	return f()
}

type FuncLocationUoWFactory func() commands.LocationUoW

func (f FuncLocationUoWFactory) Create() commands.LocationUoW {
	return f()
}

type FuncChatUoWFactory func() commands.ChatUoW

func (f FuncChatUoWFactory) Create() commands.ChatUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}
