// Package flows implements the conversational dialogue engine: a registry of
// flow handlers driven by persistent per-phone state. Every inbound turn
// loads the state, dispatches to the handler for the current flow, and saves
// the state back, so any process can pick up a dialogue mid-flow.
package flows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/core/ports"
	"tripdesk/internal/pkg/errs"
)

const msgTurnFailed = "Lo siento, algo salió mal. Escribime de nuevo para volver al menú."

// Handler reacts to one turn of a dialogue positioned inside its flow. It
// reads and mutates the session state; the engine persists the result.
type Handler interface {
	Handle(ctx context.Context, session *Session, turn Turn) error
}

// Engine routes inbound turns to flow handlers. Dialogue state is loaded and
// saved through a unit of work per turn; a phone never seen before starts at
// the registration flow.
type Engine struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
	handlers   map[conversation.Flow]Handler
	logger     *slog.Logger
}

// NewEngine creates an engine with an empty handler registry.
func NewEngine(uowFactory ports.UnitOfWorkFactory, notifier ports.Notifier, logger *slog.Logger) *Engine {
	return &Engine{
		uowFactory: uowFactory,
		notifier:   notifier,
		handlers:   make(map[conversation.Flow]Handler),
		logger:     logger,
	}
}

// Register binds a handler to a flow name. Later registrations for the same
// flow replace earlier ones.
func (e *Engine) Register(flow conversation.Flow, handler Handler) {
	e.handlers[flow] = handler
}

// ProcessTurn runs one inbound message through the dialogue machinery and
// persists the resulting state. Empty turns are ignored. Handler errors and
// panics never escape: the dialogue is reset to the menu and the reset is
// what gets persisted, so one bad turn cannot wedge a phone number.
func (e *Engine) ProcessTurn(ctx context.Context, phone kernel.Phone, turn Turn) error {
	if turn.IsEmpty() {
		return nil
	}

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	conversationRepo := uow.ConversationRepository()
	state, isNew, err := e.loadOrCreate(ctx, conversationRepo, phone)
	if err != nil {
		return err
	}

	// Nothing except registration is available to an unregistered phone.
	if !state.IsRegistered() && state.Flow() != conversation.FlowRegistration {
		state.SwitchFlow(conversation.FlowRegistration, conversation.StepStart)
	}

	session := &Session{state: state, notifier: e.notifier, logger: e.logger}
	e.run(ctx, session, turn)

	if isNew {
		err = conversationRepo.Add(ctx, state)
	} else {
		err = conversationRepo.Update(ctx, state)
	}
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (e *Engine) loadOrCreate(
	ctx context.Context,
	conversationRepo ports.ConversationRepository,
	phone kernel.Phone,
) (*conversation.State, bool, error) {
	state, err := conversationRepo.GetByPhone(ctx, phone)
	if err == nil {
		return state, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	state, err = conversation.NewState(phone, conversation.FlowRegistration, conversation.StepStart)
	if err != nil {
		return nil, false, err
	}
	return state, true, nil
}

// run dispatches the turn and, when a handler switched flows, synchronously
// dispatches the new flow with an empty turn so it can greet the user within
// the same message round trip. The hop budget bounds the chain even if a
// handler keeps switching.
func (e *Engine) run(ctx context.Context, session *Session, turn Turn) {
	current := turn
	for hop := 0; hop <= conversation.MaxReturnDepth+1; hop++ {
		handler, registered := e.handlers[session.state.Flow()]
		if !registered {
			e.logger.Error("no handler registered for flow", "flow", session.state.Flow())
			session.state.ResetToMenu()
			if handler, registered = e.handlers[conversation.FlowMenu]; !registered {
				return
			}
		}

		if err := e.dispatch(ctx, handler, session, current); err != nil {
			e.logger.Error("dialogue turn failed",
				"phone", session.state.Phone().String(),
				"flow", session.state.Flow(),
				"step", session.state.Step(),
				"error", err)
			session.state.ResetToMenu()
			session.redispatch = false
			session.Send(ctx, msgTurnFailed)
			return
		}

		if !session.takeRedispatch() {
			return
		}
		current = Turn{}
	}

	e.logger.Error("dialogue dispatch budget exhausted",
		"phone", session.state.Phone().String(),
		"flow", session.state.Flow())
	session.state.ResetToMenu()
}

func (e *Engine) dispatch(ctx context.Context, handler Handler, session *Session, turn Turn) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("flow handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, session, turn)
}
