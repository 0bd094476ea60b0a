package flows

import (
	"context"
	"fmt"

	"tripdesk/internal/core/domain/model/conversation"
)

const stepLocationCollect conversation.Step = "collect"

// LocationFlow is the sub-flow that collects exactly one address. The caller
// primes the stop collector with the role it wants, delegates here, and finds
// the collected stop in the scratch when the flow returns.
type LocationFlow struct{}

// NewLocationFlow creates the single-address sub-flow.
func NewLocationFlow() LocationFlow {
	return LocationFlow{}
}

func (f LocationFlow) Handle(ctx context.Context, session *Session, turn Turn) error {
	collector := session.Scratch().StopsOrNew()

	switch session.State().Step() {
	case conversation.StepStart:
		session.Send(ctx, fmt.Sprintf(
			"Envíame la ubicación de %s, o escribí la dirección.", roleLabel(collector.PendingRole)))
		session.Advance(stepLocationCollect)
		return nil

	case stepLocationCollect:
		stop := parseStop(turn, collector.PendingRole)
		if stop == nil {
			session.Send(ctx, "Necesito una ubicación compartida o una dirección escrita.")
			return nil
		}
		collector.Current = stop
		return session.ReturnToCaller()

	default:
		session.Advance(conversation.StepStart)
		return f.Handle(ctx, session, turn)
	}
}
