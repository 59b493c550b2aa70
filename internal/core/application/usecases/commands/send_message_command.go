package commands

import (
	"errors"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"
	"agrimarket/internal/pkg/guard"
)

var ErrSendMessageCommandIsNotConstructed = errors.New(
	"SendMessageCommand must be created via NewSendMessageCommand constructor",
)

// SendMessageCommand represents a request to append a message to a
// conversation and push it to the other party if they are online.
type SendMessageCommand struct { //nolint:recvcheck //using for validation
	conversationID kernel.UUID
	senderID       kernel.UUID
	content        string

	guard guard.ConstructorGuard
}

// NewSendMessageCommand creates a command to send a chat message.
func NewSendMessageCommand(
	conversationID kernel.UUID,
	senderID kernel.UUID,
	content string,
) (SendMessageCommand, error) {
	cmd := SendMessageCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setConversationID(conversationID),
		cmd.setSenderID(senderID),
		cmd.setContent(content),
	); err != nil {
		return SendMessageCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SendMessageCommand) Validate() error {
	return c.guard.Validate(ErrSendMessageCommandIsNotConstructed)
}

// ConversationID returns the target conversation.
func (c SendMessageCommand) ConversationID() kernel.UUID {
	return c.conversationID
}

// SenderID returns the authenticated sender.
func (c SendMessageCommand) SenderID() kernel.UUID {
	return c.senderID
}

// Content returns the message body.
func (c SendMessageCommand) Content() string {
	return c.content
}

func (c *SendMessageCommand) setConversationID(conversationID kernel.UUID) error {
	if err := conversationID.Validate(); err != nil {
		return err
	}

	c.conversationID = conversationID
	return nil
}

func (c *SendMessageCommand) setSenderID(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return err
	}

	c.senderID = senderID
	return nil
}

func (c *SendMessageCommand) setContent(content string) error {
	if content == "" {
		return errs.NewValueIsRequiredError("message content")
	}

	c.content = content
	return nil
}
