package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"agrimarket/internal/core/domain/model/chat"
	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetConversationQueryHandler reads a conversation thread from the database.
// Non-participants get ErrNotParticipant, the same answer a send attempt gets,
// so a conversation id leaks nothing about who is talking.
type GetConversationQueryHandler struct {
	db *gorm.DB
}

// NewGetConversationQueryHandler creates a handler for conversation fetches.
func NewGetConversationQueryHandler(db *gorm.DB) GetConversationQueryHandler {
	return GetConversationQueryHandler{db: db}
}

// conversationMessageRow mirrors the JSONB message encoding used by the
// conversation repository.
type conversationMessageRow struct {
	Seq        int64      `json:"seq"`
	SenderID   string     `json:"sender_id"`
	SenderRole string     `json:"sender_role"`
	Content    string     `json:"content"`
	SentAt     time.Time  `json:"sent_at"`
	Delivered  bool       `json:"delivered"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}

// Handle executes the query and returns the thread with the requester's own
// unread counter.
func (h GetConversationQueryHandler) Handle(
	ctx context.Context,
	query GetConversationQuery,
) (GetConversationQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetConversationQueryResponse{}, err
	}

	var (
		id                                 uuid.UUID
		kind                               string
		subjectID, customerID, sellerID    uuid.UUID
		messagesRaw                        []byte
		unreadForCustomer, unreadForSeller int
		lastActivityAt                     time.Time
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			kind,
			subject_id,
			customer_id,
			seller_id,
			messages,
			unread_for_customer,
			unread_for_seller,
			last_activity_at
		FROM conversations
		WHERE id = ?
	`, query.ConversationID().String()).Row()

	err := row.Scan(
		&id, &kind, &subjectID, &customerID, &sellerID,
		&messagesRaw, &unreadForCustomer, &unreadForSeller, &lastActivityAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetConversationQueryResponse{},
			errs.NewObjectNotFoundError("conversation", query.ConversationID())
	}
	if err != nil {
		return GetConversationQueryResponse{}, err
	}

	response := GetConversationQueryResponse{
		Kind:           kind,
		LastActivityAt: lastActivityAt,
	}
	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetConversationQueryResponse{}, err
	}
	if response.SubjectID, err = kernel.UUIDFromBytes(subjectID[:]); err != nil {
		return GetConversationQueryResponse{}, err
	}
	if response.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetConversationQueryResponse{}, err
	}
	if response.SellerID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
		return GetConversationQueryResponse{}, err
	}

	switch {
	case query.RequesterID().IsEqual(response.CustomerID):
		response.UnreadCount = unreadForCustomer
	case query.RequesterID().IsEqual(response.SellerID):
		response.UnreadCount = unreadForSeller
	default:
		return GetConversationQueryResponse{}, chat.ErrNotParticipant
	}

	response.Messages, err = decodeMessages(messagesRaw)
	if err != nil {
		return GetConversationQueryResponse{}, err
	}

	return response, nil
}

func decodeMessages(raw []byte) ([]ConversationMessage, error) {
	messages := make([]ConversationMessage, 0)
	if len(raw) == 0 {
		return messages, nil
	}

	var rows []conversationMessageRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}

	for _, r := range rows {
		senderID, err := kernel.UUIDFromString(r.SenderID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, ConversationMessage{
			Seq:        r.Seq,
			SenderID:   senderID,
			SenderRole: r.SenderRole,
			Content:    r.Content,
			SentAt:     r.SentAt,
			Delivered:  r.Delivered,
			ReadAt:     r.ReadAt,
		})
	}

	return messages, nil
}
