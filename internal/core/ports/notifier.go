package ports

import (
	"context"

	"tripdesk/internal/core/domain/model/kernel"
)

// MaxChoiceOptions is the display limit of the messaging channel's
// interactive button prompt. Callers must keep option lists within it; the
// sink is never asked to truncate.
const MaxChoiceOptions = 3

// ChoiceOption is one button of an interactive prompt. The ID is what comes
// back as the turn input when the user taps it.
type ChoiceOption struct {
	ID    string
	Title string
}

// Notifier is the outbound notification sink. Delivery is fire-and-forget:
// callers log failures and move on, and a failed delivery never rolls back
// the state transition that preceded it.
type Notifier interface {
	// SendText delivers a plain text message.
	SendText(ctx context.Context, to kernel.Phone, text string) error

	// SendChoicePrompt delivers a body with up to MaxChoiceOptions buttons.
	// Longer option lists are a caller error, validated before this call.
	SendChoicePrompt(ctx context.Context, to kernel.Phone, body string, options []ChoiceOption) error
}
