package flows

import (
	"context"
	"fmt"

	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/core/ports"
)

const (
	stepMultiCollect conversation.Step = "collect"
	stepMultiMore    conversation.Step = "more"

	buttonStopsAdd  = "stops_add"
	buttonStopsDone = "stops_done"
)

// MultilocationFlow is the sub-flow that collects an open-ended list of
// stops. Stops land in the outbound or return list of the trip draft
// depending on the leg context the caller primed.
type MultilocationFlow struct{}

// NewMultilocationFlow creates the multi-address sub-flow.
func NewMultilocationFlow() MultilocationFlow {
	return MultilocationFlow{}
}

func (f MultilocationFlow) Handle(ctx context.Context, session *Session, turn Turn) error {
	switch session.State().Step() {
	case conversation.StepStart:
		session.Send(ctx, "Envíame la ubicación de la primera parada, o escribí la dirección.")
		session.Advance(stepMultiCollect)
		return nil

	case stepMultiCollect:
		stop := parseStop(turn, trip.RoleWaypoint.String())
		if stop == nil {
			session.Send(ctx, "Necesito una ubicación compartida o una dirección escrita.")
			return nil
		}
		f.record(session, stop)
		session.Advance(stepMultiMore)
		return f.promptMore(ctx, session)

	case stepMultiMore:
		switch turn.Value() {
		case buttonStopsAdd:
			session.Send(ctx, "Dale, envíame la siguiente parada.")
			session.Advance(stepMultiCollect)
			return nil
		case buttonStopsDone:
			return session.ReturnToCaller()
		default:
			return f.promptMore(ctx, session)
		}

	default:
		session.Advance(conversation.StepStart)
		return f.Handle(ctx, session, turn)
	}
}

func (f MultilocationFlow) record(session *Session, stop *conversation.StopDraft) {
	draft := session.Scratch().TripDraftOrNew()
	if session.Scratch().StopsOrNew().Context == stopsContextReturn {
		stop.Order = len(draft.ReturnStops) + 1
		draft.ReturnStops = append(draft.ReturnStops, *stop)
		return
	}
	stop.Order = len(draft.OutboundStops) + 1
	draft.OutboundStops = append(draft.OutboundStops, *stop)
}

func (f MultilocationFlow) promptMore(ctx context.Context, session *Session) error {
	draft := session.Scratch().TripDraftOrNew()
	collected := len(draft.OutboundStops)
	if session.Scratch().StopsOrNew().Context == stopsContextReturn {
		collected = len(draft.ReturnStops)
	}
	return session.Prompt(ctx,
		fmt.Sprintf("Llevás %d parada(s). ¿Agregamos otra?", collected),
		ports.ChoiceOption{ID: buttonStopsAdd, Title: "Agregar otra"},
		ports.ChoiceOption{ID: buttonStopsDone, Title: "Listo"},
	)
}
