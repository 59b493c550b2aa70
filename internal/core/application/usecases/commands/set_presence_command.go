package commands

import (
	"errors"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/guard"
)

var ErrSetPresenceCommandIsNotConstructed = errors.New(
	"SetPresenceCommand must be created via NewSetPresenceCommand constructor",
)

// SetPresenceCommand represents a user's live connection coming up or going
// down: a connect/disconnect from the real-time layer. Role and name ride
// along on connect so presence broadcasts can identify the user.
type SetPresenceCommand struct { //nolint:recvcheck //using for validation
	userID kernel.UUID
	online bool
	role   string
	name   string

	guard guard.ConstructorGuard
}

// NewSetPresenceCommand creates a command to record a presence change.
func NewSetPresenceCommand(userID kernel.UUID, online bool, role string, name string) (SetPresenceCommand, error) {
	cmd := SetPresenceCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setUserID(userID); err != nil {
		return SetPresenceCommand{}, err
	}

	cmd.online = online
	cmd.role = role
	cmd.name = name
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetPresenceCommand) Validate() error {
	return c.guard.Validate(ErrSetPresenceCommandIsNotConstructed)
}

// UserID returns the user whose presence changed.
func (c SetPresenceCommand) UserID() kernel.UUID {
	return c.userID
}

// Online reports whether the user connected (true) or disconnected (false).
func (c SetPresenceCommand) Online() bool {
	return c.online
}

// Role returns the connecting user's role (buyer, seller, courier).
func (c SetPresenceCommand) Role() string {
	return c.role
}

// Name returns the connecting user's display name.
func (c SetPresenceCommand) Name() string {
	return c.name
}

func (c *SetPresenceCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}
