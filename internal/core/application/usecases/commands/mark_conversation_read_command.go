package commands

import (
	"errors"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/guard"
)

var ErrMarkConversationReadCommandIsNotConstructed = errors.New(
	"MarkConversationReadCommand must be created via NewMarkConversationReadCommand constructor",
)

// MarkConversationReadCommand represents a reader explicitly marking a
// conversation as read, stamping readAt on the other side's messages.
type MarkConversationReadCommand struct { //nolint:recvcheck //using for validation
	conversationID kernel.UUID
	readerID       kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkConversationReadCommand creates a command to mark a conversation read.
func NewMarkConversationReadCommand(
	conversationID kernel.UUID,
	readerID kernel.UUID,
) (MarkConversationReadCommand, error) {
	cmd := MarkConversationReadCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setConversationID(conversationID),
		cmd.setReaderID(readerID),
	); err != nil {
		return MarkConversationReadCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkConversationReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkConversationReadCommandIsNotConstructed)
}

// ConversationID returns the conversation being read.
func (c MarkConversationReadCommand) ConversationID() kernel.UUID {
	return c.conversationID
}

// ReaderID returns the authenticated reader.
func (c MarkConversationReadCommand) ReaderID() kernel.UUID {
	return c.readerID
}

func (c *MarkConversationReadCommand) setConversationID(conversationID kernel.UUID) error {
	if err := conversationID.Validate(); err != nil {
		return err
	}

	c.conversationID = conversationID
	return nil
}

func (c *MarkConversationReadCommand) setReaderID(readerID kernel.UUID) error {
	if err := readerID.Validate(); err != nil {
		return err
	}

	c.readerID = readerID
	return nil
}
