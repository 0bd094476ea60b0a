package ports

import (
	"context"

	"tripdesk/internal/core/domain/model/account"
)

// AccountRepository defines the persistence contract for login identities and
// traveler profiles.
type AccountRepository interface {
	// AddUser persists a new user and assigns the storage-generated id.
	AddUser(ctx context.Context, user *account.User) error

	// AddTraveler persists the traveler profile for an existing user.
	// The traveler's ID must already carry the owning user's id.
	AddTraveler(ctx context.Context, traveler *account.Traveler) error

	// GetUserByEmail retrieves a user by normalized email.
	// Returns errs.ObjectNotFoundError when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*account.User, error)

	// GetUserByID retrieves a user by id.
	// Returns errs.ObjectNotFoundError when no such user exists.
	GetUserByID(ctx context.Context, id int64) (*account.User, error)

	// GetTraveler retrieves a traveler profile by user id.
	// Returns errs.ObjectNotFoundError when no such traveler exists.
	GetTraveler(ctx context.Context, id int64) (*account.Traveler, error)
}
