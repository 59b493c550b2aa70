package queries

import (
	"errors"
	"time"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/guard"
)

var (
	ErrGetConversationQueryIsNotConstructed = errors.New(
		"GetConversationQuery must be created via NewGetConversationQuery constructor",
	)
)

// GetConversationQuery fetches a full conversation thread for one of its
// participants. This is the pull-based catch-up path: messages that could not
// be pushed live (recipient offline) surface here on the next fetch.
type GetConversationQuery struct {
	conversationID kernel.UUID
	requesterID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetConversationQuery creates a query for the given conversation. The
// requester must be one of the two participants; the handler enforces it.
func NewGetConversationQuery(conversationID, requesterID kernel.UUID) (GetConversationQuery, error) {
	if err := errors.Join(
		conversationID.Validate(),
		requesterID.Validate(),
	); err != nil {
		return GetConversationQuery{}, err
	}

	return GetConversationQuery{
		conversationID: conversationID,
		requesterID:    requesterID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// ConversationID returns the conversation being fetched.
func (q GetConversationQuery) ConversationID() kernel.UUID {
	return q.conversationID
}

// RequesterID returns the participant asking for the thread.
func (q GetConversationQuery) RequesterID() kernel.UUID {
	return q.requesterID
}

// Validate ensures the query was created through the constructor.
func (q GetConversationQuery) Validate() error {
	return q.guard.Validate(ErrGetConversationQueryIsNotConstructed)
}

// ConversationMessage is one message in the conversation read model.
type ConversationMessage struct {
	Seq        int64
	SenderID   kernel.UUID
	SenderRole string
	Content    string
	SentAt     time.Time
	Delivered  bool
	ReadAt     *time.Time
}

// GetConversationQueryResponse is the conversation read model: the message log
// in sequence order plus the requester's own unread counter.
type GetConversationQueryResponse struct {
	ID             kernel.UUID
	Kind           string
	SubjectID      kernel.UUID
	CustomerID     kernel.UUID
	SellerID       kernel.UUID
	Messages       []ConversationMessage
	UnreadCount    int
	LastActivityAt time.Time
}
