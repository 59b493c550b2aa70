// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"agrimarket/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler declares the narrowest composition of repositories it needs;
// the single postgres UnitOfWork satisfies all of them.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// DeliveryRepoFactory provides access to the delivery repository within a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// InventoryRepoFactory provides access to the inventory repository within a transaction.
	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryRepository
	}

	// ConversationRepoFactory provides access to the conversation repository within a transaction.
	ConversationRepoFactory interface {
		ConversationRepository() ports.ConversationRepository
	}

	// CreateOrderUoW manages the order creation transaction: reserving
	// inventory, storing the order, and creating its delivery shadow must
	// happen together or not at all.
	CreateOrderUoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRepoFactory
		InventoryRepoFactory
	}

	// CreateOrderUoWFactory creates new order creation unit of work instances.
	CreateOrderUoWFactory interface {
		Create() CreateOrderUoW
	}

	// DispatchUoW manages the assignment transaction across the order, the
	// claimed courier, and the delivery record.
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		DeliveryRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// OrderProgressUoW manages status transition transactions, which may touch
	// the courier (completion) and inventory (cancellation restore) besides
	// the order and delivery.
	OrderProgressUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		DeliveryRepoFactory
		InventoryRepoFactory
	}

	// OrderProgressUoWFactory creates new order progress unit of work instances.
	OrderProgressUoWFactory interface {
		Create() OrderProgressUoW
	}

	// LocationUoW manages location update transactions across the courier and
	// the optional active order/delivery mirror.
	LocationUoW interface {
		TxManager
		CourierRepoFactory
		OrderRepoFactory
		DeliveryRepoFactory
	}

	// LocationUoWFactory creates new location unit of work instances.
	LocationUoWFactory interface {
		Create() LocationUoW
	}

	// ChatUoW manages conversation-only transactions.
	ChatUoW interface {
		TxManager
		ConversationRepoFactory
	}

	// ChatUoWFactory creates new chat unit of work instances.
	ChatUoWFactory interface {
		Create() ChatUoW
	}

	// CourierUoW manages courier-only transactions.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}
)
