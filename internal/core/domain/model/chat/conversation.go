package chat

import (
	"errors"
	"time"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"
)

var (
	// ErrConversationIsNotConstructed is returned when using an improperly
	// initialized Conversation.
	ErrConversationIsNotConstructed = errors.New(
		"Conversation must be created via NewConversation constructor")

	// ErrNotParticipant is returned when a user outside the conversation's two
	// parties tries to send or read in it.
	ErrNotParticipant = errors.New("user is not a participant of this conversation")
)

// Message is an append-only unit inside a conversation. Messages are never
// edited in place; the only later mutation is stamping ReadAt.
//
// Seq is assigned by the conversation on append and is monotonic within it.
// Delivered records whether the recipient was online at send time; it is a
// push signal only, an undelivered message is still durably stored and shows
// up on the next conversation fetch.
type Message struct {
	Seq        int64
	SenderID   kernel.UUID
	SenderRole Role
	Content    string
	SentAt     time.Time
	Delivered  bool
	ReadAt     *time.Time
}

// Conversation is the aggregate root for a message thread between one customer
// and one seller, scoped to an order or to a listed item. It owns the message
// log, the per-side unread counters, and the append sequence.
type Conversation struct {
	id         kernel.UUID
	kind       Kind
	subjectID  kernel.UUID
	customerID kernel.UUID
	sellerID   kernel.UUID

	messages []Message
	nextSeq  int64

	unreadForCustomer int
	unreadForSeller   int
	lastActivityAt    time.Time

	isConstructed bool
}

// NewConversation creates an empty conversation between a customer and a
// seller. SubjectID is the order or item the thread is about, per kind.
func NewConversation(
	id kernel.UUID,
	kind Kind,
	subjectID kernel.UUID,
	customerID kernel.UUID,
	sellerID kernel.UUID,
) (*Conversation, error) {
	if err := errors.Join(
		id.Validate(),
		kind.Validate(),
		subjectID.Validate(),
		customerID.Validate(),
		sellerID.Validate(),
	); err != nil {
		return nil, err
	}

	return &Conversation{
		id:             id,
		kind:           kind,
		subjectID:      subjectID,
		customerID:     customerID,
		sellerID:       sellerID,
		nextSeq:        1,
		lastActivityAt: time.Now(),
		isConstructed:  true,
	}, nil
}

// RestoreConversation reconstructs a Conversation from persistence.
// Messages must be supplied in sequence order.
func RestoreConversation(
	id kernel.UUID,
	kind Kind,
	subjectID kernel.UUID,
	customerID kernel.UUID,
	sellerID kernel.UUID,
	messages []Message,
	unreadForCustomer int,
	unreadForSeller int,
	lastActivityAt time.Time,
) (*Conversation, error) {
	c, err := NewConversation(id, kind, subjectID, customerID, sellerID)
	if err != nil {
		return nil, err
	}

	c.messages = append([]Message(nil), messages...)
	c.nextSeq = 1
	if n := len(c.messages); n > 0 {
		c.nextSeq = c.messages[n-1].Seq + 1
	}
	c.unreadForCustomer = unreadForCustomer
	c.unreadForSeller = unreadForSeller
	c.lastActivityAt = lastActivityAt
	return c, nil
}

// Validate ensures the Conversation instance was properly constructed.
func (c *Conversation) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrConversationIsNotConstructed
	}

	return nil
}

// ID returns the conversation's unique identifier.
func (c *Conversation) ID() kernel.UUID {
	return c.id
}

// Kind returns what the conversation is scoped to.
func (c *Conversation) Kind() Kind {
	return c.kind
}

// SubjectID returns the order or item the conversation is about.
func (c *Conversation) SubjectID() kernel.UUID {
	return c.subjectID
}

// CustomerID returns the buying party.
func (c *Conversation) CustomerID() kernel.UUID {
	return c.customerID
}

// SellerID returns the selling party.
func (c *Conversation) SellerID() kernel.UUID {
	return c.sellerID
}

// Messages returns a copy of the message log in append order.
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

// UnreadFor returns how many messages the given side has not read yet.
func (c *Conversation) UnreadFor(role Role) int {
	if role == Customer {
		return c.unreadForCustomer
	}
	return c.unreadForSeller
}

// LastActivityAt returns the time of the latest append.
func (c *Conversation) LastActivityAt() time.Time {
	return c.lastActivityAt
}

// RoleOf resolves which side of the conversation the user is on.
func (c *Conversation) RoleOf(userID kernel.UUID) (Role, error) {
	switch {
	case userID.IsEqual(c.customerID):
		return Customer, nil
	case userID.IsEqual(c.sellerID):
		return Seller, nil
	default:
		return UnknownRole, ErrNotParticipant
	}
}

// RecipientOf resolves the other party for a given sender.
func (c *Conversation) RecipientOf(senderID kernel.UUID) (kernel.UUID, error) {
	role, err := c.RoleOf(senderID)
	if err != nil {
		return kernel.UUID{}, err
	}
	if role == Customer {
		return c.sellerID, nil
	}
	return c.customerID, nil
}

// Append adds a message to the log, assigning the next sequence number and
// advancing the recipient side's unread counter. Delivered records whether the
// recipient could be pushed to at send time; it does not affect durability.
func (c *Conversation) Append(senderID kernel.UUID, content string, delivered bool) (Message, error) {
	if err := c.Validate(); err != nil {
		return Message{}, err
	}
	if content == "" {
		return Message{}, errs.NewValueIsRequiredError("message content")
	}

	role, err := c.RoleOf(senderID)
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		Seq:        c.nextSeq,
		SenderID:   senderID,
		SenderRole: role,
		Content:    content,
		SentAt:     time.Now(),
		Delivered:  delivered,
	}

	c.messages = append(c.messages, msg)
	c.nextSeq++
	c.lastActivityAt = msg.SentAt

	if role == Customer {
		c.unreadForSeller++
	} else {
		c.unreadForCustomer++
	}
	return msg, nil
}

// MarkRead stamps ReadAt on every unread message addressed to the reader and
// zeroes the reader side's unread counter. Returns how many messages were
// stamped. Idempotent.
func (c *Conversation) MarkRead(readerID kernel.UUID) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	role, err := c.RoleOf(readerID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	stamped := 0
	for i := range c.messages {
		if c.messages[i].SenderRole != role && c.messages[i].ReadAt == nil {
			c.messages[i].ReadAt = &now
			stamped++
		}
	}

	if role == Customer {
		c.unreadForCustomer = 0
	} else {
		c.unreadForSeller = 0
	}
	return stamped, nil
}
