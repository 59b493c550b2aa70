package commands

import (
	"context"
	"log/slog"
	"time"

	"agrimarket/internal/core/ports"
	"agrimarket/internal/notify"
	"agrimarket/internal/presence"
)

// SendMessageCommandHandler appends a message to a conversation and pushes it
// to the recipient's live connection when they are online.
//
// The delivered flag is derived from the Presence Registry at send time and
// stored with the message. An offline recipient gets nothing pushed; the
// durable store is the queue and the message shows up on their next
// conversation fetch. Delivery and read are independent signals: readAt is
// stamped only by an explicit mark-read.
type SendMessageCommandHandler struct {
	uowFactory ChatUoWFactory
	registry   *presence.Registry
	relay      *notify.Relay
	logger     *slog.Logger
}

// NewSendMessageCommandHandler creates a handler for sending chat messages.
func NewSendMessageCommandHandler(
	uowFactory ChatUoWFactory,
	registry *presence.Registry,
	relay *notify.Relay,
	logger *slog.Logger,
) SendMessageCommandHandler {
	return SendMessageCommandHandler{
		uowFactory: uowFactory,
		registry:   registry,
		relay:      relay,
		logger:     logger.With("component", "commands.send_message"),
	}
}

// Handle processes the send command and reports whether the message was
// pushed to an online recipient.
//
// The conversation row is locked for the append so the per-conversation
// sequence stays gapless and monotonic under concurrent senders. The push
// happens only after commit; a crash between the two loses the push but
// never the message.
func (h SendMessageCommandHandler) Handle(ctx context.Context, cmd SendMessageCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	conversationRepo := uow.ConversationRepository()
	conversation, err := conversationRepo.GetForUpdate(ctx, cmd.ConversationID())
	if err != nil {
		return false, err
	}

	recipientID, err := conversation.RecipientOf(cmd.SenderID())
	if err != nil {
		return false, err
	}

	delivered := h.registry.IsOnline(recipientID)
	message, err := conversation.Append(cmd.SenderID(), cmd.Content(), delivered)
	if err != nil {
		return false, err
	}

	if err = conversationRepo.Update(ctx, conversation); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	if delivered && h.relay != nil {
		h.relay.Deliver(ctx, recipientID, ports.Notification{
			Kind: notify.KindChatMessage,
			Data: map[string]any{
				"conversation_id": conversation.ID().String(),
				"seq":             message.Seq,
				"sender_id":       message.SenderID.String(),
				"content":         message.Content,
				"sent_at":         message.SentAt.Format(time.RFC3339),
			},
		})
	}
	return delivered, nil
}
