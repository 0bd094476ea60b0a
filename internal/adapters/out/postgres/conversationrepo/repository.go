package conversationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/pkg/errs"
)

// GormConversationRepository implements ConversationRepository using GORM.
type GormConversationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id int64, aggregate any)
}

// NewGormConversationRepository creates a new GORM dialogue state repository.
func NewGormConversationRepository(db *gorm.DB, tracker aggregateTracker) *GormConversationRepository {
	return &GormConversationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a newly created dialogue state and assigns the generated id back
// to the aggregate.
func (r *GormConversationRepository) Add(ctx context.Context, state *conversation.State) error {
	if err := state.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(state)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	state.AssignID(dto.ID)
	r.tracker.TrackAggregate(state.ID(), state)
	return nil
}

// Update saves the current flow, step, scratch and traveler link.
func (r *GormConversationRepository) Update(ctx context.Context, state *conversation.State) error {
	if err := state.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(state)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&StateDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"traveler_id": dto.TravelerID,
			"flow":        dto.Flow,
			"step":        dto.Step,
			"scratch":     dto.Scratch,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(state.ID(), state)
	return nil
}

// GetByPhone retrieves the dialogue state for a phone number.
func (r *GormConversationRepository) GetByPhone(
	ctx context.Context,
	phone kernel.Phone,
) (*conversation.State, error) {
	if err := phone.Validate(); err != nil {
		return nil, err
	}

	var dto StateDTO
	if err := r.db.WithContext(ctx).First(&dto, "phone = ?", phone.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("conversation state", phone.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
