package commands

import (
	"context"
	"errors"
	"log/slog"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/ports"
	"agrimarket/internal/notify"
	"agrimarket/internal/pkg/errs"
	"agrimarket/internal/presence"
)

// SetPresenceCommandHandler records connects and disconnects in the in-process
// presence registry, broadcasts the change to every other connected user, and
// additionally persists the online flag for couriers so the matcher sees it.
// Buyers and sellers have no courier row; for them only the registry changes.
type SetPresenceCommandHandler struct {
	registry   *presence.Registry
	relay      *notify.Relay
	uowFactory CourierUoWFactory
	logger     *slog.Logger
}

// NewSetPresenceCommandHandler creates a handler for presence changes.
func NewSetPresenceCommandHandler(
	registry *presence.Registry,
	relay *notify.Relay,
	uowFactory CourierUoWFactory,
	logger *slog.Logger,
) SetPresenceCommandHandler {
	return SetPresenceCommandHandler{
		registry:   registry,
		relay:      relay,
		uowFactory: uowFactory,
		logger:     logger.With("component", "commands.set_presence"),
	}
}

// Handle processes the presence change. The registry entry is updated first
// and the online/offline broadcast goes out to the remaining connected users
// right after; both are independent of the courier-row update, so a database
// failure never revokes an already-announced presence change. A busy courier
// disconnecting keeps its busy status and only drops the online flag.
func (h SetPresenceCommandHandler) Handle(ctx context.Context, cmd SetPresenceCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.Online() {
		h.registry.Connect(cmd.UserID(), cmd.Role(), cmd.Name())
		h.broadcastPresence(ctx, cmd.UserID(), notify.KindPresenceOnline, cmd.Role(), cmd.Name())
	} else {
		if entry, ok := h.registry.Disconnect(cmd.UserID()); ok {
			h.broadcastPresence(ctx, cmd.UserID(), notify.KindPresenceOffline, entry.Role, entry.Name)
		}
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	theCourier, err := courierRepo.GetForUpdate(ctx, cmd.UserID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if cmd.Online() {
		err = theCourier.MarkOnline()
	} else {
		err = theCourier.MarkOffline()
	}
	if err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, theCourier); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// broadcastPresence tells everyone else the user came up or went down. The
// affected user is excluded: on connect they already know, on disconnect they
// are no longer reachable.
func (h SetPresenceCommandHandler) broadcastPresence(
	ctx context.Context, userID kernel.UUID, kind string, role string, name string,
) {
	peers := make([]kernel.UUID, 0)
	for _, entry := range h.registry.Snapshot() {
		if entry.UserID.IsEqual(userID) {
			continue
		}
		peers = append(peers, entry.UserID)
	}

	h.relay.Broadcast(ctx, peers, ports.Notification{
		Kind: kind,
		Data: map[string]any{
			"user_id": userID.String(),
			"role":    role,
			"name":    name,
		},
	})
}
