// Package account holds the identity model: users with roles and password
// hashes, and the traveler profile the registration flow creates.
package account

import (
	"fmt"
	"strings"
	"time"

	"tripdesk/internal/pkg/errs"
)

// Role partitions the API surface: travelers request trips, drivers work
// them, admins manage their assigned drivers, superusers manage everything.
type Role string

const (
	RoleTraveler  Role = "traveler"
	RoleDriver    Role = "driver"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// Validate checks the role against the known set.
func (r Role) Validate() error {
	switch r {
	case RoleTraveler, RoleDriver, RoleAdmin, RoleSuperuser:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("role is invalid",
		fmt.Errorf("%q is not a valid role", string(r)))
}

// CanManageDrivers reports whether the role may verify drivers at all.
// Whether a particular admin may verify a particular driver additionally
// depends on the assignment relation.
func (r Role) CanManageDrivers() bool {
	return r == RoleAdmin || r == RoleSuperuser
}

// User is a login identity. The password hash is a bcrypt digest; this
// package never sees plaintext passwords.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// NewUser creates an active user. The email is lowercased for uniqueness.
func NewUser(email, passwordHash string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.NewValueIsInvalidError("email")
	}
	if passwordHash == "" {
		return nil, errs.NewValueIsRequiredError("passwordHash")
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}

	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Traveler is the profile created by the registration flow. Its ID is the
// owning user's id.
type Traveler struct {
	ID         int64
	FullName   string
	DNI        string
	Phone      string
	TotalTrips int
}

// NewTraveler validates the registration answers into a traveler profile.
func NewTraveler(fullName, dni, phone string) (*Traveler, error) {
	if fullName == "" {
		return nil, errs.NewValueIsRequiredError("fullName")
	}
	if dni == "" {
		return nil, errs.NewValueIsRequiredError("dni")
	}

	return &Traveler{
		FullName: fullName,
		DNI:      dni,
		Phone:    phone,
	}, nil
}
