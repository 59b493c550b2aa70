package commands

import (
	"context"
)

// MarkConversationReadCommandHandler stamps readAt on the unread messages
// addressed to the reader and zeroes their unread counter. Idempotent.
type MarkConversationReadCommandHandler struct {
	uowFactory ChatUoWFactory
}

// NewMarkConversationReadCommandHandler creates a handler for mark-read operations.
func NewMarkConversationReadCommandHandler(uowFactory ChatUoWFactory) MarkConversationReadCommandHandler {
	return MarkConversationReadCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the mark-read command.
func (h MarkConversationReadCommandHandler) Handle(ctx context.Context, cmd MarkConversationReadCommand) error {
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

	conversationRepo := uow.ConversationRepository()
	conversation, err := conversationRepo.GetForUpdate(ctx, cmd.ConversationID())
	if err != nil {
		return err
	}

	if _, err = conversation.MarkRead(cmd.ReaderID()); err != nil {
		return err
	}

	if err = conversationRepo.Update(ctx, conversation); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
