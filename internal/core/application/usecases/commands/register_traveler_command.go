package commands

import (
	"errors"

	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/pkg/guard"
)

var (
	ErrRegisterTravelerCommandIsNotConstructed = errors.New(
		"RegisterTravelerCommand must be created via NewRegisterTravelerCommand constructor",
	)
	ErrFullNameIsRequired = errors.New("full name is required")
	ErrEmailIsRequired    = errors.New("email is required")
	ErrDNIIsRequired      = errors.New("dni is required")
)

// RegisterTravelerCommand represents the completion of the registration
// dialogue: a phone number becomes a login identity plus a traveler profile.
type RegisterTravelerCommand struct { //nolint:recvcheck //using for validation
	phone    kernel.Phone
	fullName string
	email    string
	dni      string

	guard guard.ConstructorGuard
}

// NewRegisterTravelerCommand creates a command to register a traveler.
// All answers collected by the registration flow are required.
func NewRegisterTravelerCommand(
	phone kernel.Phone,
	fullName, email, dni string,
) (RegisterTravelerCommand, error) {
	registerCommand := RegisterTravelerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		registerCommand.setPhone(phone),
		registerCommand.setFullName(fullName),
		registerCommand.setEmail(email),
		registerCommand.setDNI(dni),
	); err != nil {
		return RegisterTravelerCommand{}, err
	}

	return registerCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRegisterTravelerCommandIsNotConstructed if validation fails.
func (c RegisterTravelerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterTravelerCommandIsNotConstructed)
}

// Phone returns the traveler's phone number.
func (c RegisterTravelerCommand) Phone() kernel.Phone {
	return c.phone
}

// FullName returns the traveler's full name.
func (c RegisterTravelerCommand) FullName() string {
	return c.fullName
}

// Email returns the traveler's email address.
func (c RegisterTravelerCommand) Email() string {
	return c.email
}

// DNI returns the traveler's national identity document number.
func (c RegisterTravelerCommand) DNI() string {
	return c.dni
}

func (c *RegisterTravelerCommand) setPhone(phone kernel.Phone) error {
	if err := phone.Validate(); err != nil {
		return err
	}

	c.phone = phone
	return nil
}

func (c *RegisterTravelerCommand) setFullName(fullName string) error {
	if fullName == "" {
		return ErrFullNameIsRequired
	}

	c.fullName = fullName
	return nil
}

func (c *RegisterTravelerCommand) setEmail(email string) error {
	if email == "" {
		return ErrEmailIsRequired
	}

	c.email = email
	return nil
}

func (c *RegisterTravelerCommand) setDNI(dni string) error {
	if dni == "" {
		return ErrDNIIsRequired
	}

	c.dni = dni
	return nil
}
