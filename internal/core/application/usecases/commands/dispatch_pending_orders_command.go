package commands

import (
	"errors"

	"agrimarket/internal/pkg/guard"
)

var ErrDispatchPendingOrdersCommandIsNotConstructed = errors.New(
	"DispatchPendingOrdersCommand must be created via NewDispatchPendingOrdersCommand constructor",
)

// DispatchPendingOrdersCommand triggers one sweep of the auto-dispatch job:
// match every waiting order against the available courier pool and assign the
// best candidate.
type DispatchPendingOrdersCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewDispatchPendingOrdersCommand creates a command for one dispatch sweep.
func NewDispatchPendingOrdersCommand() DispatchPendingOrdersCommand {
	return DispatchPendingOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c DispatchPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrDispatchPendingOrdersCommandIsNotConstructed)
}
