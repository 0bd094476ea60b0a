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

const parcelPrice = 20000.0

const parcelTitleMaxLen = 40

const (
	stepParcelPickup       conversation.Step = "got_pickup"
	stepParcelDelivery     conversation.Step = "got_delivery"
	stepParcelDescription  conversation.Step = "collect_description"
	stepParcelWeight       conversation.Step = "collect_weight"
	stepParcelDimensions   conversation.Step = "collect_dimensions"
	stepParcelNotes        conversation.Step = "notes"
	stepParcelConfirm      conversation.Step = "confirm"
	stepParcelAssignment   conversation.Step = "assignment"
	stepParcelDriverChosen conversation.Step = "driver_chosen"
)

// ParcelFlow builds a package delivery: where to pick the parcel up, where
// to drop it off, what it is and roughly how much it weighs.
type ParcelFlow struct {
	createTrip commands.CreateTripCommandHandler
}

// NewParcelFlow creates the parcel delivery flow.
func NewParcelFlow(createTrip commands.CreateTripCommandHandler) ParcelFlow {
	return ParcelFlow{createTrip: createTrip}
}

func (f ParcelFlow) Handle(ctx context.Context, session *Session, turn Turn) error {
	draft := session.Scratch().TripDraftOrNew()

	switch session.State().Step() {
	case conversation.StepStart:
		session.Send(ctx, "Vamos a coordinar el envío de tu encomienda.")
		return requestStop(session, trip.RolePickup.String(), stopsContextOutbound, stepParcelPickup)

	case stepParcelPickup:
		stop, err := takeCollectedStop(session)
		if err != nil {
			return err
		}
		draft.Pickup = stop
		return requestStop(session, trip.RoleDelivery.String(), stopsContextOutbound, stepParcelDelivery)

	case stepParcelDelivery:
		stop, err := takeCollectedStop(session)
		if err != nil {
			return err
		}
		draft.Delivery = stop
		session.Send(ctx, "Contame qué vas a enviar, con una breve descripción.")
		session.Advance(stepParcelDescription)
		return nil

	case stepParcelDescription:
		description := strings.TrimSpace(turn.Text)
		if description == "" {
			session.Send(ctx, "Necesito una descripción de lo que enviás.")
			return nil
		}
		draft.Description = description
		draft.Title = parcelTitle(description)
		session.Send(ctx, "¿Cuánto pesa aproximadamente, en kilos? Escribí el número, o \"omitir\" si no sabés.")
		session.Advance(stepParcelWeight)
		return nil

	case stepParcelWeight:
		answer := strings.TrimSpace(strings.ToLower(turn.Text))
		if answer != answerSkip {
			weight, err := strconv.ParseFloat(strings.ReplaceAll(answer, ",", "."), 64)
			if err != nil || weight <= 0 {
				session.Send(ctx, "No entendí el peso. Escribí solo el número en kilos, o \"omitir\".")
				return nil
			}
			draft.WeightKg = &weight
		}
		session.Send(ctx, "¿Qué dimensiones tiene, más o menos? Por ejemplo 40x30x20 cm, o \"omitir\".")
		session.Advance(stepParcelDimensions)
		return nil

	case stepParcelDimensions:
		draft.Dimensions = takeNote(turn)
		session.Send(ctx, promptNotes)
		session.Advance(stepParcelNotes)
		return nil

	case stepParcelNotes:
		if note := takeNote(turn); note != "" {
			draft.Notes = note
		}
		price := parcelPrice
		draft.Price = &price
		return f.promptConfirm(ctx, session)

	case stepParcelConfirm:
		switch turn.Value() {
		case buttonConfirmYes:
			session.Advance(stepParcelAssignment)
			return f.promptAssignment(ctx, session)
		case buttonConfirmNo:
			session.Send(ctx, "Listo, cancelé el envío.")
			session.ResetToMenu()
			return nil
		default:
			return f.promptConfirm(ctx, session)
		}

	case stepParcelAssignment:
		switch turn.Value() {
		case buttonTripPublish:
			return f.create(ctx, session, nil)
		case buttonTripPickDriver:
			return session.Delegate(conversation.FlowDriverSelection, stepParcelDriverChosen)
		default:
			return f.promptAssignment(ctx, session)
		}

	case stepParcelDriverChosen:
		return f.create(ctx, session, draft.Driver)

	default:
		session.Advance(conversation.StepStart)
		return f.Handle(ctx, session, turn)
	}
}

func (f ParcelFlow) promptConfirm(ctx context.Context, session *Session) error {
	draft := session.Scratch().TripDraftOrNew()
	session.Advance(stepParcelConfirm)
	return session.Prompt(ctx,
		fmt.Sprintf("Encomienda de %s a %s por Gs. %.0f. ¿Confirmás?",
			draft.Pickup.AddressText, draft.Delivery.AddressText, *draft.Price),
		ports.ChoiceOption{ID: buttonConfirmYes, Title: "Confirmar"},
		ports.ChoiceOption{ID: buttonConfirmNo, Title: "Cancelar"},
	)
}

func (f ParcelFlow) promptAssignment(ctx context.Context, session *Session) error {
	return session.Prompt(ctx,
		"¿Querés elegir un conductor o publicamos tu encomienda para el primero disponible?",
		ports.ChoiceOption{ID: buttonTripPickDriver, Title: "Elegir conductor"},
		ports.ChoiceOption{ID: buttonTripPublish, Title: "Publicar"},
	)
}

func (f ParcelFlow) create(ctx context.Context, session *Session, pick *conversation.DriverPick) error {
	draft := session.Scratch().TripDraftOrNew()

	params := commands.CreateTripParams{
		Kind:        trip.KindParcel.String(),
		TravelerID:  session.State().Traveler(),
		Price:       draft.Price,
		Notes:       draft.Notes,
		Title:       draft.Title,
		Description: draft.Description,
		WeightKg:    draft.WeightKg,
		Dimensions:  draft.Dimensions,
		Addresses: []commands.AddressInput{
			stopToAddress(draft.Pickup, 1),
			stopToAddress(draft.Delivery, 2),
		},
		PickupIndex:   0,
		DeliveryIndex: 1,
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
		session.Send(ctx, fmt.Sprintf("¡Listo! Tu encomienda quedó asignada a %s.", pick.DriverName))
	} else {
		session.Send(ctx, "¡Tu encomienda fue publicada! Te avisamos cuando un conductor la tome.")
	}
	session.ResetToMenu()
	return nil
}

func parcelTitle(description string) string {
	runes := []rune(description)
	if len(runes) <= parcelTitleMaxLen {
		return description
	}
	return strings.TrimSpace(string(runes[:parcelTitleMaxLen]))
}
