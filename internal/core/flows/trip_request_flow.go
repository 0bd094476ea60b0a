package flows

import (
	"context"
	"fmt"

	"tripdesk/internal/core/application/usecases/commands"
	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/core/ports"
)

const oneWayPrice = 25000.0

const (
	stepTripStyle        conversation.Step = "style"
	stepTripShare        conversation.Step = "share"
	stepTripPickup       conversation.Step = "got_pickup"
	stepTripDropoff      conversation.Step = "got_dropoff"
	stepTripNotes        conversation.Step = "notes"
	stepTripConfirm      conversation.Step = "confirm"
	stepTripAssignment   conversation.Step = "assignment"
	stepTripDriverChosen conversation.Step = "driver_chosen"

	buttonTripStyleNow      = "trip_style_now"
	buttonTripStyleReserved = "trip_style_reserved"
	buttonTripSharePrivate  = "trip_share_private"
	buttonTripShareShared   = "trip_share_shared"
	buttonTripPickDriver    = "trip_pick_driver"
	buttonTripPublish       = "trip_publish"
)

// TripRequestFlow builds a one-way ride: pickup, destination, a fixed fare,
// and optionally a driver chosen by the traveler. Without a chosen driver the
// trip is published for any driver to accept.
type TripRequestFlow struct {
	createTrip commands.CreateTripCommandHandler
}

// NewTripRequestFlow creates the one-way ride flow.
func NewTripRequestFlow(createTrip commands.CreateTripCommandHandler) TripRequestFlow {
	return TripRequestFlow{createTrip: createTrip}
}

func (f TripRequestFlow) Handle(ctx context.Context, session *Session, turn Turn) error {
	draft := session.Scratch().TripDraftOrNew()

	switch session.State().Step() {
	case conversation.StepStart:
		draft.CustomKind = trip.CustomKindOneWay.String()
		session.Send(ctx, "Vamos a pedir tu viaje.")
		session.Advance(stepTripStyle)
		return f.promptStyle(ctx, session)

	case stepTripStyle:
		switch turn.Value() {
		case buttonTripStyleNow:
			session.Advance(stepTripShare)
			return f.promptShare(ctx, session)
		case buttonTripStyleReserved:
			// A reserved ride is always private.
			draft.IsReserved = true
			draft.AllowSharedRide = false
			return requestStop(session, trip.RolePickup.String(), stopsContextOutbound, stepTripPickup)
		default:
			return f.promptStyle(ctx, session)
		}

	case stepTripShare:
		switch turn.Value() {
		case buttonTripSharePrivate, buttonTripShareShared:
			draft.AllowSharedRide = turn.Value() == buttonTripShareShared
			return requestStop(session, trip.RolePickup.String(), stopsContextOutbound, stepTripPickup)
		default:
			return f.promptShare(ctx, session)
		}

	case stepTripPickup:
		stop, err := takeCollectedStop(session)
		if err != nil {
			return err
		}
		draft.Pickup = stop
		return requestStop(session, trip.RoleDelivery.String(), stopsContextOutbound, stepTripDropoff)

	case stepTripDropoff:
		stop, err := takeCollectedStop(session)
		if err != nil {
			return err
		}
		draft.Delivery = stop
		price := oneWayPrice
		draft.Price = &price
		session.Advance(stepTripNotes)
		session.Send(ctx, promptNotes)
		return nil

	case stepTripNotes:
		if note := takeNote(turn); note != "" {
			draft.Notes = note
		}
		session.Advance(stepTripConfirm)
		return f.promptConfirm(ctx, session)

	case stepTripConfirm:
		switch turn.Value() {
		case buttonConfirmYes:
			session.Advance(stepTripAssignment)
			return f.promptAssignment(ctx, session)
		case buttonConfirmNo:
			session.Send(ctx, "Listo, cancelé el pedido.")
			session.ResetToMenu()
			return nil
		default:
			return f.promptConfirm(ctx, session)
		}

	case stepTripAssignment:
		switch turn.Value() {
		case buttonTripPublish:
			return f.create(ctx, session, nil)
		case buttonTripPickDriver:
			return session.Delegate(conversation.FlowDriverSelection, stepTripDriverChosen)
		default:
			return f.promptAssignment(ctx, session)
		}

	case stepTripDriverChosen:
		// A nil pick means the selection sub-flow found nobody offerable;
		// the trip is published for whoever takes it first.
		return f.create(ctx, session, draft.Driver)

	default:
		session.Advance(conversation.StepStart)
		return f.Handle(ctx, session, turn)
	}
}

func (f TripRequestFlow) promptStyle(ctx context.Context, session *Session) error {
	return session.Prompt(ctx,
		"¿Salís ahora o preferís reservar el viaje?",
		ports.ChoiceOption{ID: buttonTripStyleNow, Title: "Ahora"},
		ports.ChoiceOption{ID: buttonTripStyleReserved, Title: "Reservar"},
	)
}

func (f TripRequestFlow) promptShare(ctx context.Context, session *Session) error {
	return session.Prompt(ctx,
		"¿Querés un viaje privado o compartido?",
		ports.ChoiceOption{ID: buttonTripSharePrivate, Title: "Privado"},
		ports.ChoiceOption{ID: buttonTripShareShared, Title: "Compartido"},
	)
}

func (f TripRequestFlow) promptConfirm(ctx context.Context, session *Session) error {
	draft := session.Scratch().TripDraftOrNew()
	return session.Prompt(ctx,
		fmt.Sprintf("Tu viaje de %s a %s cuesta Gs. %.0f. ¿Confirmás?",
			draft.Pickup.AddressText, draft.Delivery.AddressText, *draft.Price),
		ports.ChoiceOption{ID: buttonConfirmYes, Title: "Confirmar"},
		ports.ChoiceOption{ID: buttonConfirmNo, Title: "Cancelar"},
	)
}

func (f TripRequestFlow) promptAssignment(ctx context.Context, session *Session) error {
	return session.Prompt(ctx,
		"¿Querés elegir un conductor o publicamos tu viaje para el primero disponible?",
		ports.ChoiceOption{ID: buttonTripPickDriver, Title: "Elegir conductor"},
		ports.ChoiceOption{ID: buttonTripPublish, Title: "Publicar"},
	)
}

func (f TripRequestFlow) create(ctx context.Context, session *Session, pick *conversation.DriverPick) error {
	draft := session.Scratch().TripDraftOrNew()

	params := commands.CreateTripParams{
		Kind:            trip.KindCustom.String(),
		CustomKind:      trip.CustomKindOneWay.String(),
		TravelerID:      session.State().Traveler(),
		PassengerCount:  1,
		Price:           draft.Price,
		Notes:           draft.Notes,
		AllowSharedRide: draft.AllowSharedRide,
		IsReserved:      draft.IsReserved,
		Addresses: []commands.AddressInput{
			stopToAddress(draft.Pickup, 1),
			stopToAddress(draft.Delivery, 2),
		},
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
		session.Send(ctx, fmt.Sprintf("¡Listo! Tu viaje quedó asignado a %s.", pick.DriverName))
	} else {
		session.Send(ctx, "¡Tu viaje fue publicado! Te avisamos cuando un conductor lo tome.")
	}
	session.ResetToMenu()
	return nil
}
