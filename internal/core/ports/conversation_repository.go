package ports

import (
	"context"

	"agrimarket/internal/core/domain/model/chat"
	"agrimarket/internal/core/domain/model/kernel"
)

// ConversationRepository defines the persistence contract for conversations
// and their message logs.
type ConversationRepository interface {
	// Add persists a new conversation to storage.
	Add(ctx context.Context, aggregate *chat.Conversation) error

	// Update persists changes to an existing conversation, appending any new
	// messages and updating read/unread state.
	Update(ctx context.Context, aggregate *chat.Conversation) error

	// Get retrieves a conversation with its full message log.
	Get(ctx context.Context, id kernel.UUID) (*chat.Conversation, error)

	// GetForUpdate retrieves a conversation and locks its row for the
	// duration of the surrounding transaction, serializing appends so the
	// per-conversation sequence stays gapless and monotonic.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*chat.Conversation, error)
}
