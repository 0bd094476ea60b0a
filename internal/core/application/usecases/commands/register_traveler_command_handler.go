package commands

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tripdesk/internal/core/domain/model/account"
)

// RegisterTravelerCommandHandler creates the login identity and traveler
// profile for a phone number that completed the registration dialogue.
// The account starts with a random password; travelers interact through the
// messaging channel and only set a password if they later want API access.
type RegisterTravelerCommandHandler struct {
	uowFactory AccountUoWFactory
}

// NewRegisterTravelerCommandHandler creates a handler for traveler registration.
func NewRegisterTravelerCommandHandler(uowFactory AccountUoWFactory) RegisterTravelerCommandHandler {
	return RegisterTravelerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the registration command.
// Returns the created traveler profile with its storage-assigned id.
func (h RegisterTravelerCommandHandler) Handle(
	ctx context.Context,
	command RegisterTravelerCommand,
) (*account.Traveler, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := account.NewUser(command.Email(), string(passwordHash), account.RoleTraveler)
	if err != nil {
		return nil, err
	}

	traveler, err := account.NewTraveler(command.FullName(), command.DNI(), command.Phone().String())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	accountRepo := uow.AccountRepository()

	if err = accountRepo.AddUser(ctx, user); err != nil {
		return nil, err
	}

	traveler.ID = user.ID
	if err = accountRepo.AddTraveler(ctx, traveler); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return traveler, nil
}
