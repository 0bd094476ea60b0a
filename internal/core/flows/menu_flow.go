package flows

import (
	"context"

	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/ports"
)

const (
	stepMenuChoose     conversation.Step = "choose"
	stepMenuChooseMore conversation.Step = "choose_more"

	buttonMenuOneWay  = "menu_one_way"
	buttonMenuRound   = "menu_round"
	buttonMenuMore    = "menu_more"
	buttonMenuParcel  = "menu_parcel"
	buttonMenuFreight = "menu_freight"
	buttonMenuBack    = "menu_back"
)

// MenuFlow is the idle hub of the dialogue. The channel shows at most three
// buttons per prompt, so the menu spreads its entries over two pages.
type MenuFlow struct{}

// NewMenuFlow creates the main menu flow.
func NewMenuFlow() MenuFlow {
	return MenuFlow{}
}

func (f MenuFlow) Handle(ctx context.Context, session *Session, turn Turn) error {
	switch session.State().Step() {
	case stepMenuChoose:
		switch turn.Value() {
		case buttonMenuOneWay:
			session.SwitchTo(conversation.FlowTripRequest, conversation.StepStart)
			return nil
		case buttonMenuRound:
			session.SwitchTo(conversation.FlowRoundTrip, conversation.StepStart)
			return nil
		case buttonMenuMore:
			session.Advance(stepMenuChooseMore)
			return f.showMore(ctx, session)
		default:
			return f.showMain(ctx, session)
		}

	case stepMenuChooseMore:
		switch turn.Value() {
		case buttonMenuParcel:
			session.SwitchTo(conversation.FlowParcel, conversation.StepStart)
			return nil
		case buttonMenuFreight:
			session.Send(ctx, "El servicio de flete todavía no está disponible. Te avisamos apenas lo habilitemos.")
			return f.showMain(ctx, session)
		default:
			return f.showMain(ctx, session)
		}

	default:
		// Idle or unknown step: any message brings the menu up.
		return f.showMain(ctx, session)
	}
}

func (f MenuFlow) showMain(ctx context.Context, session *Session) error {
	session.Advance(stepMenuChoose)
	return session.Prompt(ctx, "¿Qué querés hacer hoy?",
		ports.ChoiceOption{ID: buttonMenuOneWay, Title: "Viaje sencillo"},
		ports.ChoiceOption{ID: buttonMenuRound, Title: "Ida y vuelta"},
		ports.ChoiceOption{ID: buttonMenuMore, Title: "Más opciones"},
	)
}

func (f MenuFlow) showMore(ctx context.Context, session *Session) error {
	return session.Prompt(ctx, "Más opciones:",
		ports.ChoiceOption{ID: buttonMenuParcel, Title: "Enviar encomienda"},
		ports.ChoiceOption{ID: buttonMenuFreight, Title: "Flete"},
		ports.ChoiceOption{ID: buttonMenuBack, Title: "Volver"},
	)
}
