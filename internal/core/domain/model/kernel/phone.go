package kernel

import (
	"fmt"
	"strings"

	"tripdesk/internal/pkg/errs"
	"tripdesk/internal/pkg/guard"
)

const (
	phoneMinDigits = 7
	phoneMaxDigits = 15
)

// ErrPhoneIsNotConstructed is returned when attempting to use an improperly
// initialized Phone. Phones must be created via NewPhone.
var ErrPhoneIsNotConstructed = errs.NewValueIsRequiredError(
	"phone must be created via NewPhone constructor")

// Phone is the messaging identity of a conversation participant. It is stored
// in normalized form: digits only, no plus sign or separators.
// The zero value is invalid and will fail validation.
type Phone struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

// NewPhone creates a Phone from a raw identifier as delivered by the
// messaging provider. Spaces, dashes and a leading plus sign are stripped;
// what remains must be 7 to 15 digits.
//
// Parameters:
//   - raw: The phone number as received (e.g. "+591 771-23456")
//
// Returns:
//   - Phone: The normalized phone value
//   - error: Validation error if the number is empty or malformed
func NewPhone(raw string) (Phone, error) {
	cleaned := strings.NewReplacer("+", "", " ", "", "-", "", "(", "", ")", "").Replace(raw)
	if cleaned == "" {
		return Phone{}, errs.NewValueIsRequiredError("phone")
	}
	if len(cleaned) < phoneMinDigits || len(cleaned) > phoneMaxDigits {
		return Phone{}, errs.NewValueIsOutOfRangeError("phone", len(cleaned), phoneMinDigits, phoneMaxDigits)
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return Phone{}, errs.NewValueIsInvalidError("phone")
		}
	}

	return Phone{
		value: cleaned,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the Phone was properly constructed using a constructor.
func (p Phone) Validate() error {
	return p.guard.Validate(ErrPhoneIsNotConstructed)
}

// String returns the normalized digits. Implements fmt.Stringer.
func (p Phone) String() string {
	return p.value
}

// IsEqual compares two phones for equality after validating both.
func (p Phone) IsEqual(other Phone) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if err := other.Validate(); err != nil {
		return false, err
	}

	return p.value == other.value, nil
}

// GoString implements fmt.GoStringer so debug output shows the value.
func (p Phone) GoString() string {
	return fmt.Sprintf("kernel.Phone(%s)", p.value)
}
