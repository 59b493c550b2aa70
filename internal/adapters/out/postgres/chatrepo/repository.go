package chatrepo

import (
	"context"
	"errors"

	"agrimarket/internal/core/domain/model/chat"
	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConversationRepository implements ports.ConversationRepository using GORM.
type GormConversationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormConversationRepository creates a new GORM conversation repository.
func NewGormConversationRepository(db *gorm.DB, tracker aggregateTracker) *GormConversationRepository {
	return &GormConversationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new conversation to the database.
func (r *GormConversationRepository) Add(ctx context.Context, aggregate *chat.Conversation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing conversation to the database.
func (r *GormConversationRepository) Update(ctx context.Context, aggregate *chat.Conversation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a conversation by ID.
func (r *GormConversationRepository) Get(ctx context.Context, id kernel.UUID) (*chat.Conversation, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a conversation by ID holding a row lock until the
// surrounding transaction ends. Concurrent appends serialize on this lock so
// the per-conversation message sequence stays gapless and monotonic.
func (r *GormConversationRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*chat.Conversation, error) {
	return r.get(ctx, id, true)
}

func (r *GormConversationRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*chat.Conversation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx)
	if forUpdate {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto ConversationDTO
	if err := tx.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("conversation", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
