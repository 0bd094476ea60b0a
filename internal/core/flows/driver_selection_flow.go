package flows

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/driver"
	"tripdesk/internal/core/ports"
)

const stepDriverChoose conversation.Step = "choose"

const driverButtonPrefix = "driver_"

// OfferableDrivers is the read surface the selection sub-flow needs: the
// verified drivers currently available for work.
type OfferableDrivers interface {
	GetAllOfferable(ctx context.Context) ([]*driver.Driver, error)
}

// DriverSelectionFlow is the sub-flow that lets a traveler pick one of the
// currently offerable drivers. The pick lands in the trip draft; when nobody
// is offerable the flow returns with no pick and the caller publishes the
// trip instead.
type DriverSelectionFlow struct {
	drivers OfferableDrivers
}

// NewDriverSelectionFlow creates the driver selection sub-flow.
func NewDriverSelectionFlow(drivers OfferableDrivers) DriverSelectionFlow {
	return DriverSelectionFlow{drivers: drivers}
}

func (f DriverSelectionFlow) Handle(ctx context.Context, session *Session, turn Turn) error {
	switch session.State().Step() {
	case conversation.StepStart:
		offerable, err := f.drivers.GetAllOfferable(ctx)
		if err != nil {
			return err
		}
		if len(offerable) == 0 {
			session.Send(ctx, "Por el momento no hay conductores disponibles. Vamos a publicar tu viaje.")
			session.Scratch().TripDraftOrNew().Driver = nil
			return session.ReturnToCaller()
		}
		session.Advance(stepDriverChoose)
		return f.promptDrivers(ctx, session, offerable)

	case stepDriverChoose:
		id, ok := parseDriverButton(turn.Value())
		if !ok {
			offerable, err := f.drivers.GetAllOfferable(ctx)
			if err != nil {
				return err
			}
			return f.promptDrivers(ctx, session, offerable)
		}

		offerable, err := f.drivers.GetAllOfferable(ctx)
		if err != nil {
			return err
		}
		chosen := findDriver(offerable, id)
		if chosen == nil {
			session.Send(ctx, "Ese conductor ya no está disponible. Elegí otro.")
			return f.promptDrivers(ctx, session, offerable)
		}

		pick := &conversation.DriverPick{
			DriverID:   chosen.ID(),
			DriverName: chosen.FullName(),
			Phone:      chosen.Phone(),
		}
		if vehicle := chosen.Vehicle(); vehicle != nil {
			pick.VehicleID = &vehicle.ID
		}
		session.Scratch().TripDraftOrNew().Driver = pick
		return session.ReturnToCaller()

	default:
		session.Advance(conversation.StepStart)
		return f.Handle(ctx, session, turn)
	}
}

func (f DriverSelectionFlow) promptDrivers(ctx context.Context, session *Session, offerable []*driver.Driver) error {
	if len(offerable) > ports.MaxChoiceOptions {
		offerable = offerable[:ports.MaxChoiceOptions]
	}
	options := make([]ports.ChoiceOption, 0, len(offerable))
	for _, candidate := range offerable {
		options = append(options, ports.ChoiceOption{
			ID:    fmt.Sprintf("%s%d", driverButtonPrefix, candidate.ID()),
			Title: driverOptionTitle(candidate),
		})
	}
	return session.Prompt(ctx, "Elegí un conductor:", options...)
}

func driverOptionTitle(candidate *driver.Driver) string {
	if vehicle := candidate.Vehicle(); vehicle != nil {
		return fmt.Sprintf("%s (%s %s)", candidate.FullName(), vehicle.Make, vehicle.Model)
	}
	return candidate.FullName()
}

func parseDriverButton(value string) (int64, bool) {
	raw, found := strings.CutPrefix(value, driverButtonPrefix)
	if !found {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func findDriver(offerable []*driver.Driver, id int64) *driver.Driver {
	for _, candidate := range offerable {
		if candidate.ID() == id {
			return candidate
		}
	}
	return nil
}
