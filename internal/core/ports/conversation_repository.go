package ports

import (
	"context"

	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/kernel"
)

// ConversationRepository defines the persistence contract for dialogue state.
// One row per phone number; the flow engine loads the state at the start of
// each turn and saves it after every handler invocation.
type ConversationRepository interface {
	// Add persists a newly created dialogue state and assigns the
	// storage-generated id to the aggregate.
	Add(ctx context.Context, state *conversation.State) error

	// Update persists the current flow, step and scratch of an existing state.
	Update(ctx context.Context, state *conversation.State) error

	// GetByPhone retrieves the dialogue state for a phone number.
	// Returns errs.ObjectNotFoundError for a phone never seen before.
	GetByPhone(ctx context.Context, phone kernel.Phone) (*conversation.State, error)
}
