package flows

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tripdesk/internal/core/application/usecases/commands"
	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/core/ports"
)

const (
	roundTripBasePrice       = 40000.0
	roundTripPricePerMinWait = 200.0

	// Return-leg addresses carry orders above this base so the outbound and
	// return legs plan independently yet persist in one list.
	returnLegOrderBase = 100
)

const (
	stepRoundPickup       conversation.Step = "got_pickup"
	stepRoundDestination  conversation.Step = "got_destination"
	stepRoundWaitChoice   conversation.Step = "wait_choice"
	stepRoundWaitTime     conversation.Step = "collect_wait_time"
	stepRoundReturnChoice conversation.Step = "return_choice"
	stepRoundReturnStops  conversation.Step = "got_return_stops"
	stepRoundNotes        conversation.Step = "notes"
	stepRoundConfirm      conversation.Step = "confirm"
	stepRoundAssignment   conversation.Step = "assignment"
	stepRoundDriverChosen conversation.Step = "driver_chosen"

	buttonWaitYes     = "wait_yes"
	buttonWaitNo      = "wait_no"
	buttonReturnSame  = "return_same"
	buttonReturnOther = "return_other"
)

// RoundTripFlow builds a ride with a return leg: outbound pickup and
// destination, an optional paid wait, and either the outbound addresses
// reversed or a separately collected return pair.
type RoundTripFlow struct {
	createTrip commands.CreateTripCommandHandler
}

// NewRoundTripFlow creates the round-trip ride flow.
func NewRoundTripFlow(createTrip commands.CreateTripCommandHandler) RoundTripFlow {
	return RoundTripFlow{createTrip: createTrip}
}

func (f RoundTripFlow) Handle(ctx context.Context, session *Session, turn Turn) error {
	draft := session.Scratch().TripDraftOrNew()

	switch session.State().Step() {
	case conversation.StepStart:
		draft.CustomKind = trip.CustomKindRound.String()
		session.Send(ctx, "Vamos a armar tu viaje de ida y vuelta.")
		return requestStop(session, trip.RolePickup.String(), stopsContextOutbound, stepRoundPickup)

	case stepRoundPickup:
		stop, err := takeCollectedStop(session)
		if err != nil {
			return err
		}
		draft.Pickup = stop
		return requestStop(session, trip.RoleDelivery.String(), stopsContextOutbound, stepRoundDestination)

	case stepRoundDestination:
		stop, err := takeCollectedStop(session)
		if err != nil {
			return err
		}
		draft.Delivery = stop
		session.Advance(stepRoundWaitChoice)
		return session.Prompt(ctx, "¿El conductor tiene que esperarte para el regreso?",
			ports.ChoiceOption{ID: buttonWaitYes, Title: "Sí, que espere"},
			ports.ChoiceOption{ID: buttonWaitNo, Title: "No hace falta"},
		)

	case stepRoundWaitChoice:
		switch turn.Value() {
		case buttonWaitYes:
			draft.RequiresWait = true
			session.Send(ctx, "¿Cuántos minutos de espera necesitás? Escribí solo el número.")
			session.Advance(stepRoundWaitTime)
			return nil
		case buttonWaitNo:
			draft.RequiresWait = false
			return f.promptReturnChoice(ctx, session)
		default:
			return session.Prompt(ctx, "¿El conductor tiene que esperarte para el regreso?",
				ports.ChoiceOption{ID: buttonWaitYes, Title: "Sí, que espere"},
				ports.ChoiceOption{ID: buttonWaitNo, Title: "No hace falta"},
			)
		}

	case stepRoundWaitTime:
		minutes, err := strconv.Atoi(strings.TrimSpace(turn.Text))
		if err != nil || minutes <= 0 {
			session.Send(ctx, "No entendí los minutos. Escribí solo el número, por ejemplo 30.")
			return nil
		}
		draft.WaitTimeMinutes = &minutes
		return f.promptReturnChoice(ctx, session)

	case stepRoundReturnChoice:
		switch turn.Value() {
		case buttonReturnSame:
			reuse := true
			draft.ReuseOutbound = &reuse
			f.reverseOutbound(draft)
			return f.askNotes(ctx, session)
		case buttonReturnOther:
			reuse := false
			draft.ReuseOutbound = &reuse
			collector := session.Scratch().StopsOrNew()
			collector.Context = stopsContextReturn
			collector.Current = nil
			return session.Delegate(conversation.FlowMultilocation, stepRoundReturnStops)
		default:
			return f.promptReturnChoice(ctx, session)
		}

	case stepRoundReturnStops:
		if len(draft.ReturnStops) == 0 {
			return fmt.Errorf("multilocation sub-flow returned without return stops")
		}
		return f.askNotes(ctx, session)

	case stepRoundNotes:
		if note := takeNote(turn); note != "" {
			draft.Notes = note
		}
		return f.promptConfirm(ctx, session)

	case stepRoundConfirm:
		switch turn.Value() {
		case buttonConfirmYes:
			session.Advance(stepRoundAssignment)
			return f.promptAssignment(ctx, session)
		case buttonConfirmNo:
			session.Send(ctx, "Listo, cancelé el pedido.")
			session.ResetToMenu()
			return nil
		default:
			return f.promptConfirm(ctx, session)
		}

	case stepRoundAssignment:
		switch turn.Value() {
		case buttonTripPublish:
			return f.create(ctx, session, nil)
		case buttonTripPickDriver:
			return session.Delegate(conversation.FlowDriverSelection, stepRoundDriverChosen)
		default:
			return f.promptAssignment(ctx, session)
		}

	case stepRoundDriverChosen:
		return f.create(ctx, session, draft.Driver)

	default:
		session.Advance(conversation.StepStart)
		return f.Handle(ctx, session, turn)
	}
}

func (f RoundTripFlow) askNotes(ctx context.Context, session *Session) error {
	session.Advance(stepRoundNotes)
	session.Send(ctx, promptNotes)
	return nil
}

func (f RoundTripFlow) promptReturnChoice(ctx context.Context, session *Session) error {
	session.Advance(stepRoundReturnChoice)
	return session.Prompt(ctx, "¿El regreso es por las mismas direcciones, en sentido inverso?",
		ports.ChoiceOption{ID: buttonReturnSame, Title: "Sí, las mismas"},
		ports.ChoiceOption{ID: buttonReturnOther, Title: "Otras direcciones"},
	)
}

// reverseOutbound builds the return leg from the outbound pair: the trip back
// starts where the outbound ended.
func (f RoundTripFlow) reverseOutbound(draft *conversation.TripDraft) {
	returnPickup := *draft.Delivery
	returnPickup.Role = trip.RolePickup.String()
	returnDelivery := *draft.Pickup
	returnDelivery.Role = trip.RoleDelivery.String()
	draft.ReturnStops = []conversation.StopDraft{returnPickup, returnDelivery}
}

func (f RoundTripFlow) price(draft *conversation.TripDraft) float64 {
	price := roundTripBasePrice
	if draft.RequiresWait && draft.WaitTimeMinutes != nil {
		price += roundTripPricePerMinWait * float64(*draft.WaitTimeMinutes)
	}
	return price
}

func (f RoundTripFlow) promptConfirm(ctx context.Context, session *Session) error {
	draft := session.Scratch().TripDraftOrNew()
	price := f.price(draft)
	draft.Price = &price
	session.Advance(stepRoundConfirm)

	summary := fmt.Sprintf("Ida y vuelta desde %s hasta %s.", draft.Pickup.AddressText, draft.Delivery.AddressText)
	if draft.RequiresWait && draft.WaitTimeMinutes != nil {
		summary += fmt.Sprintf(" El conductor espera %d minutos.", *draft.WaitTimeMinutes)
	}
	summary += fmt.Sprintf(" Total: Gs. %.0f. ¿Confirmás?", price)

	return session.Prompt(ctx, summary,
		ports.ChoiceOption{ID: buttonConfirmYes, Title: "Confirmar"},
		ports.ChoiceOption{ID: buttonConfirmNo, Title: "Cancelar"},
	)
}

func (f RoundTripFlow) promptAssignment(ctx context.Context, session *Session) error {
	return session.Prompt(ctx,
		"¿Querés elegir un conductor o publicamos tu viaje para el primero disponible?",
		ports.ChoiceOption{ID: buttonTripPickDriver, Title: "Elegir conductor"},
		ports.ChoiceOption{ID: buttonTripPublish, Title: "Publicar"},
	)
}

func (f RoundTripFlow) create(ctx context.Context, session *Session, pick *conversation.DriverPick) error {
	draft := session.Scratch().TripDraftOrNew()

	addresses := []commands.AddressInput{
		stopToAddress(draft.Pickup, 1),
		stopToAddress(draft.Delivery, 2),
	}
	for i := range draft.ReturnStops {
		addresses = append(addresses, stopToAddress(&draft.ReturnStops[i], returnLegOrderBase+i+1))
	}

	params := commands.CreateTripParams{
		Kind:            trip.KindCustom.String(),
		CustomKind:      trip.CustomKindRound.String(),
		TravelerID:      session.State().Traveler(),
		PassengerCount:  1,
		Price:           draft.Price,
		Notes:           draft.Notes,
		Addresses:       addresses,
		RequiresWait:    draft.RequiresWait,
		WaitTimeMinutes: draft.WaitTimeMinutes,
	}
	if pick != nil {
		params.DriverID = &pick.DriverID
		params.VehicleID = pick.VehicleID
	}

	createCommand, err := commands.NewCreateTripCommand(params)
	if err != nil {
		return err
	}
	if _, err := f.createTrip.Handle(ctx, createCommand); err != nil {
		return err
	}

	if pick != nil {
		session.Send(ctx, fmt.Sprintf("¡Listo! Tu viaje de ida y vuelta quedó asignado a %s.", pick.DriverName))
	} else {
		session.Send(ctx, "¡Tu viaje de ida y vuelta fue publicado! Te avisamos cuando un conductor lo tome.")
	}
	session.ResetToMenu()
	return nil
}
