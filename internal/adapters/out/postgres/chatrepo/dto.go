// Package chatrepo persists conversations. The message log lives in a JSONB
// column on the conversation row: messages are append-only, always read as a
// whole thread, and the row lock taken for appends keeps the sequence gapless.
package chatrepo

import (
	"encoding/json"
	"time"

	"agrimarket/internal/core/domain/model/chat"
	"agrimarket/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ConversationDTO is the database representation of a conversation aggregate.
type ConversationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind       string
	SubjectID  uuid.UUID `gorm:"type:uuid;index"`
	CustomerID uuid.UUID `gorm:"type:uuid;index"`
	SellerID   uuid.UUID `gorm:"type:uuid;index"`

	Messages []byte `gorm:"type:jsonb"`

	UnreadForCustomer int
	UnreadForSeller   int
	LastActivityAt    time.Time
}

// TableName overrides GORM's default naming to use "conversations".
func (ConversationDTO) TableName() string {
	return "conversations"
}

type messageRow struct {
	Seq        int64      `json:"seq"`
	SenderID   string     `json:"sender_id"`
	SenderRole string     `json:"sender_role"`
	Content    string     `json:"content"`
	SentAt     time.Time  `json:"sent_at"`
	Delivered  bool       `json:"delivered"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}

func fromDomain(c *chat.Conversation) (ConversationDTO, error) {
	rows := make([]messageRow, 0, len(c.Messages()))
	for _, msg := range c.Messages() {
		rows = append(rows, messageRow{
			Seq:        msg.Seq,
			SenderID:   msg.SenderID.String(),
			SenderRole: msg.SenderRole.String(),
			Content:    msg.Content,
			SentAt:     msg.SentAt,
			Delivered:  msg.Delivered,
			ReadAt:     msg.ReadAt,
		})
	}
	messagesRaw, err := json.Marshal(rows)
	if err != nil {
		return ConversationDTO{}, err
	}

	return ConversationDTO{
		ID:                c.ID().Bytes(),
		Kind:              c.Kind().String(),
		SubjectID:         c.SubjectID().Bytes(),
		CustomerID:        c.CustomerID().Bytes(),
		SellerID:          c.SellerID().Bytes(),
		Messages:          messagesRaw,
		UnreadForCustomer: c.UnreadFor(chat.Customer),
		UnreadForSeller:   c.UnreadFor(chat.Seller),
		LastActivityAt:    c.LastActivityAt(),
	}, nil
}

func toDomain(dto ConversationDTO) (*chat.Conversation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	subjectID, err := kernel.UUIDFromBytes(dto.SubjectID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	kind, err := chat.KindFromString(dto.Kind)
	if err != nil {
		return nil, err
	}

	var rows []messageRow
	if len(dto.Messages) > 0 {
		if err = json.Unmarshal(dto.Messages, &rows); err != nil {
			return nil, err
		}
	}
	messages := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		senderID, msgErr := kernel.UUIDFromString(row.SenderID)
		if msgErr != nil {
			return nil, msgErr
		}
		role, msgErr := chat.RoleFromString(row.SenderRole)
		if msgErr != nil {
			return nil, msgErr
		}
		messages = append(messages, chat.Message{
			Seq:        row.Seq,
			SenderID:   senderID,
			SenderRole: role,
			Content:    row.Content,
			SentAt:     row.SentAt,
			Delivered:  row.Delivered,
			ReadAt:     row.ReadAt,
		})
	}

	return chat.RestoreConversation(
		id, kind, subjectID, customerID, sellerID,
		messages, dto.UnreadForCustomer, dto.UnreadForSeller, dto.LastActivityAt,
	)
}
