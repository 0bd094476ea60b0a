// Package conversationrepo provides data transfer objects and mapping functions
// for dialogue state persistence. One row per phone number; the scratch column
// is the jsonb working memory that lets a dialogue survive process restarts.
package conversationrepo

import (
	"encoding/json"
	"time"

	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/kernel"
)

// StateDTO represents the database structure for persisting dialogue state.
type StateDTO struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Phone      string `gorm:"type:varchar(32);not null;uniqueIndex"`
	TravelerID *int64 `gorm:"index"`
	Flow       string `gorm:"type:varchar(32);not null"`
	Step       string `gorm:"type:varchar(64);not null"`
	Scratch    []byte `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

// TableName specifies the database table name for dialogue state entities.
// Overrides GORM's default naming convention to use "conversation_states".
func (StateDTO) TableName() string {
	return "conversation_states"
}

// fromDomain converts a dialogue state aggregate to its database representation.
func fromDomain(state *conversation.State) (StateDTO, error) {
	rawScratch, err := json.Marshal(state.Scratch())
	if err != nil {
		return StateDTO{}, err
	}

	return StateDTO{
		ID:         state.ID(),
		Phone:      state.Phone().String(),
		TravelerID: state.Traveler(),
		Flow:       string(state.Flow()),
		Step:       string(state.Step()),
		Scratch:    rawScratch,
		CreatedAt:  state.CreatedAt(),
	}, nil
}

// toDomain converts a database DTO to a dialogue state aggregate.
func toDomain(dto StateDTO) (*conversation.State, error) {
	phone, err := kernel.NewPhone(dto.Phone)
	if err != nil {
		return nil, err
	}

	var scratch conversation.Scratch
	if len(dto.Scratch) > 0 {
		if err = json.Unmarshal(dto.Scratch, &scratch); err != nil {
			return nil, err
		}
	}

	return conversation.RestoreState(
		dto.ID,
		phone,
		dto.TravelerID,
		conversation.Flow(dto.Flow),
		conversation.Step(dto.Step),
		&scratch,
		dto.CreatedAt,
	)
}
