package flows

import (
	"context"
	"log/slog"

	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/ports"
	"tripdesk/internal/pkg/errs"
)

// Session is the per-turn view a flow handler works with: the dialogue state
// being mutated plus the outbound message sink. Flow switches performed
// through the session are redispatched by the engine within the same turn.
type Session struct {
	state      *conversation.State
	notifier   ports.Notifier
	logger     *slog.Logger
	redispatch bool
}

// State returns the dialogue state of the current turn.
func (s *Session) State() *conversation.State {
	return s.state
}

// Scratch returns the scratch data of the current dialogue.
func (s *Session) Scratch() *conversation.Scratch {
	return s.state.Scratch()
}

// Send delivers a plain text message. Delivery is fire-and-forget: a failed
// send is logged and the dialogue carries on.
func (s *Session) Send(ctx context.Context, text string) {
	if err := s.notifier.SendText(ctx, s.state.Phone(), text); err != nil {
		s.logger.Warn("outbound message failed",
			"phone", s.state.Phone().String(),
			"error", err)
	}
}

// Prompt delivers a body with interactive buttons. The option count must fit
// the channel's display limit; delivery itself is fire-and-forget like Send.
func (s *Session) Prompt(ctx context.Context, body string, options ...ports.ChoiceOption) error {
	if len(options) == 0 || len(options) > ports.MaxChoiceOptions {
		return errs.NewValueIsOutOfRangeError("options", len(options), 1, ports.MaxChoiceOptions)
	}
	if err := s.notifier.SendChoicePrompt(ctx, s.state.Phone(), body, options); err != nil {
		s.logger.Warn("outbound prompt failed",
			"phone", s.state.Phone().String(),
			"error", err)
	}
	return nil
}

// Advance moves to another step within the current flow.
func (s *Session) Advance(step conversation.Step) {
	s.state.Advance(step)
}

// SwitchTo moves the dialogue to another flow and asks the engine to run it
// immediately with an empty turn.
func (s *Session) SwitchTo(flow conversation.Flow, step conversation.Step) {
	s.state.SwitchFlow(flow, step)
	s.redispatch = true
}

// Delegate enters a sub-flow, recording where the current flow resumes, and
// asks the engine to run the sub-flow immediately.
func (s *Session) Delegate(sub conversation.Flow, resumeStep conversation.Step) error {
	if err := s.state.Delegate(sub, resumeStep); err != nil {
		return err
	}
	s.redispatch = true
	return nil
}

// ReturnToCaller pops the return stack and asks the engine to run the
// resumed flow immediately.
func (s *Session) ReturnToCaller() error {
	if err := s.state.ReturnToCaller(); err != nil {
		return err
	}
	s.redispatch = true
	return nil
}

// ResetToMenu ends the dialogue and leaves it idle at the menu. The menu is
// not redispatched; it greets the user on their next message.
func (s *Session) ResetToMenu() {
	s.state.ResetToMenu()
	s.redispatch = false
}

// FinishToMenu ends the dialogue like ResetToMenu but shows the menu right
// away instead of waiting for the next message.
func (s *Session) FinishToMenu() {
	s.state.ResetToMenu()
	s.redispatch = true
}

func (s *Session) takeRedispatch() bool {
	redispatch := s.redispatch
	s.redispatch = false
	return redispatch
}
