package chat_test

import (
	"testing"

	"agrimarket/internal/core/domain/model/chat"
	"agrimarket/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conversationFixture struct {
	conversation *chat.Conversation
	customerID   kernel.UUID
	sellerID     kernel.UUID
}

func newConversationFixture(t *testing.T) conversationFixture {
	t.Helper()
	customerID := kernel.NewUUID()
	sellerID := kernel.NewUUID()
	c, err := chat.NewConversation(kernel.NewUUID(), chat.OrderChat, kernel.NewUUID(), customerID, sellerID)
	require.NoError(t, err)
	return conversationFixture{conversation: c, customerID: customerID, sellerID: sellerID}
}

func TestConversation_Append(t *testing.T) {
	t.Run("should assign monotonic sequence numbers", func(t *testing.T) {
		f := newConversationFixture(t)

		first, err := f.conversation.Append(f.customerID, "is the wheat organic?", true)
		require.NoError(t, err)
		second, err := f.conversation.Append(f.sellerID, "yes, certified", true)
		require.NoError(t, err)
		third, err := f.conversation.Append(f.customerID, "great, ordering now", true)
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.Seq)
		assert.Equal(t, int64(2), second.Seq)
		assert.Equal(t, int64(3), third.Seq)

		messages := f.conversation.Messages()
		require.Len(t, messages, 3)
		for i := 1; i < len(messages); i++ {
			assert.Greater(t, messages[i].Seq, messages[i-1].Seq)
			assert.False(t, messages[i].SentAt.Before(messages[i-1].SentAt))
		}
	})

	t.Run("should advance the recipient side's unread counter", func(t *testing.T) {
		f := newConversationFixture(t)

		_, err := f.conversation.Append(f.customerID, "hello", true)
		require.NoError(t, err)

		assert.Equal(t, 1, f.conversation.UnreadFor(chat.Seller))
		assert.Zero(t, f.conversation.UnreadFor(chat.Customer))
	})

	t.Run("should store an undelivered message for later fetch", func(t *testing.T) {
		f := newConversationFixture(t)

		msg, err := f.conversation.Append(f.customerID, "are you there?", false)
		require.NoError(t, err)

		assert.False(t, msg.Delivered)
		messages := f.conversation.Messages()
		require.Len(t, messages, 1)
		assert.False(t, messages[0].Delivered)
		assert.Nil(t, messages[0].ReadAt)
	})

	t.Run("should refuse outsiders", func(t *testing.T) {
		f := newConversationFixture(t)

		_, err := f.conversation.Append(kernel.NewUUID(), "let me in", true)

		require.ErrorIs(t, err, chat.ErrNotParticipant)
	})

	t.Run("should refuse empty content", func(t *testing.T) {
		f := newConversationFixture(t)

		_, err := f.conversation.Append(f.customerID, "", true)

		require.Error(t, err)
	})
}

func TestConversation_RecipientOf(t *testing.T) {
	t.Run("should resolve the other party", func(t *testing.T) {
		f := newConversationFixture(t)

		recipient, err := f.conversation.RecipientOf(f.customerID)
		require.NoError(t, err)
		assert.True(t, recipient.IsEqual(f.sellerID))

		recipient, err = f.conversation.RecipientOf(f.sellerID)
		require.NoError(t, err)
		assert.True(t, recipient.IsEqual(f.customerID))
	})

	t.Run("should refuse outsiders", func(t *testing.T) {
		f := newConversationFixture(t)

		_, err := f.conversation.RecipientOf(kernel.NewUUID())

		require.ErrorIs(t, err, chat.ErrNotParticipant)
	})
}

func TestConversation_MarkRead(t *testing.T) {
	t.Run("should stamp readAt on the other side's messages only", func(t *testing.T) {
		f := newConversationFixture(t)
		_, err := f.conversation.Append(f.customerID, "first", true)
		require.NoError(t, err)
		_, err = f.conversation.Append(f.customerID, "second", true)
		require.NoError(t, err)
		_, err = f.conversation.Append(f.sellerID, "reply", true)
		require.NoError(t, err)

		stamped, err := f.conversation.MarkRead(f.sellerID)
		require.NoError(t, err)

		assert.Equal(t, 2, stamped)
		assert.Zero(t, f.conversation.UnreadFor(chat.Seller))
		assert.Equal(t, 1, f.conversation.UnreadFor(chat.Customer))

		messages := f.conversation.Messages()
		assert.NotNil(t, messages[0].ReadAt)
		assert.NotNil(t, messages[1].ReadAt)
		assert.Nil(t, messages[2].ReadAt)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		f := newConversationFixture(t)
		_, err := f.conversation.Append(f.customerID, "hello", false)
		require.NoError(t, err)

		stamped, err := f.conversation.MarkRead(f.sellerID)
		require.NoError(t, err)
		assert.Equal(t, 1, stamped)

		stamped, err = f.conversation.MarkRead(f.sellerID)
		require.NoError(t, err)
		assert.Zero(t, stamped)
	})

	t.Run("should keep delivery and read as independent signals", func(t *testing.T) {
		f := newConversationFixture(t)
		_, err := f.conversation.Append(f.customerID, "offline note", false)
		require.NoError(t, err)

		_, err = f.conversation.MarkRead(f.sellerID)
		require.NoError(t, err)

		messages := f.conversation.Messages()
		require.Len(t, messages, 1)
		assert.False(t, messages[0].Delivered)
		assert.NotNil(t, messages[0].ReadAt)
	})
}

func TestRestoreConversation(t *testing.T) {
	t.Run("should continue the sequence after the last stored message", func(t *testing.T) {
		f := newConversationFixture(t)
		_, err := f.conversation.Append(f.customerID, "one", true)
		require.NoError(t, err)
		_, err = f.conversation.Append(f.sellerID, "two", true)
		require.NoError(t, err)

		restored, err := chat.RestoreConversation(
			f.conversation.ID(),
			f.conversation.Kind(),
			f.conversation.SubjectID(),
			f.customerID,
			f.sellerID,
			f.conversation.Messages(),
			f.conversation.UnreadFor(chat.Customer),
			f.conversation.UnreadFor(chat.Seller),
			f.conversation.LastActivityAt(),
		)
		require.NoError(t, err)

		msg, err := restored.Append(f.customerID, "three", true)
		require.NoError(t, err)
		assert.Equal(t, int64(3), msg.Seq)
	})
}
