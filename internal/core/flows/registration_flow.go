package flows

import (
	"context"
	"fmt"
	"strings"

	"tripdesk/internal/core/application/usecases/commands"
	"tripdesk/internal/core/domain/model/conversation"
)

const (
	stepRegistrationName  conversation.Step = "collect_name"
	stepRegistrationEmail conversation.Step = "collect_email"
	stepRegistrationDNI   conversation.Step = "collect_dni"
)

// RegistrationFlow signs a new phone number up as a traveler. It is the only
// flow reachable before registration completes.
type RegistrationFlow struct {
	registerTraveler commands.RegisterTravelerCommandHandler
}

// NewRegistrationFlow creates the registration flow.
func NewRegistrationFlow(registerTraveler commands.RegisterTravelerCommandHandler) RegistrationFlow {
	return RegistrationFlow{registerTraveler: registerTraveler}
}

func (f RegistrationFlow) Handle(ctx context.Context, session *Session, turn Turn) error {
	switch session.State().Step() {
	case conversation.StepStart:
		session.Send(ctx, "¡Bienvenido! Para usar el servicio necesito registrarte.\nEscribí tu nombre completo.")
		session.Advance(stepRegistrationName)
		return nil

	case stepRegistrationName:
		name := strings.TrimSpace(turn.Text)
		if name == "" {
			session.Send(ctx, "Necesito tu nombre completo para continuar.")
			return nil
		}
		session.Scratch().RegistrationOrNew().FullName = name
		session.Send(ctx, "Gracias. Ahora escribí tu correo electrónico.")
		session.Advance(stepRegistrationEmail)
		return nil

	case stepRegistrationEmail:
		email := strings.TrimSpace(turn.Text)
		if !strings.Contains(email, "@") {
			session.Send(ctx, "Ese correo no parece válido. Probá de nuevo.")
			return nil
		}
		session.Scratch().RegistrationOrNew().Email = email
		session.Send(ctx, "Por último, escribí tu número de cédula.")
		session.Advance(stepRegistrationDNI)
		return nil

	case stepRegistrationDNI:
		dni := strings.TrimSpace(turn.Text)
		if dni == "" {
			session.Send(ctx, "Necesito tu número de cédula para terminar.")
			return nil
		}
		draft := session.Scratch().RegistrationOrNew()

		registerCommand, err := commands.NewRegisterTravelerCommand(
			session.State().Phone(), draft.FullName, draft.Email, dni)
		if err != nil {
			return err
		}
		traveler, err := f.registerTraveler.Handle(ctx, registerCommand)
		if err != nil {
			return err
		}

		session.State().LinkTraveler(traveler.ID)
		session.Send(ctx, fmt.Sprintf("¡Listo, %s! Tu registro quedó completo.", traveler.FullName))
		session.FinishToMenu()
		return nil

	default:
		session.Advance(conversation.StepStart)
		return f.Handle(ctx, session, turn)
	}
}
