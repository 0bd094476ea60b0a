package flows

import (
	"fmt"
	"strings"

	"tripdesk/internal/core/application/usecases/commands"
	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/trip"
)

// Leg contexts understood by the stop-collecting sub-flows. The trip flows
// set one before delegating so collected stops land in the right draft list.
const (
	stopsContextOutbound = "outbound"
	stopsContextReturn   = "return"
)

const gpsShareAddressText = "Ubicación compartida"

// Confirmation buttons shared by every trip-building flow.
const (
	buttonConfirmYes = "confirm_yes"
	buttonConfirmNo  = "confirm_no"
)

// answerSkip lets travelers pass on optional free-text questions.
const answerSkip = "omitir"

const promptNotes = "¿Querés dejar una nota para el conductor? Escribila, o mandá 'omitir'."

func roleLabel(role string) string {
	switch role {
	case trip.RolePickup.String():
		return "origen"
	case trip.RoleDelivery.String():
		return "destino"
	default:
		return "parada"
	}
}

// requestStop primes the stop collector and delegates to the location
// sub-flow, resuming the current flow at the given step once a stop arrives.
func requestStop(session *Session, role, legContext string, resume conversation.Step) error {
	collector := session.Scratch().StopsOrNew()
	collector.Context = legContext
	collector.PendingRole = role
	collector.Current = nil
	return session.Delegate(conversation.FlowLocation, resume)
}

// takeCollectedStop consumes the stop the location sub-flow left behind.
func takeCollectedStop(session *Session) (*conversation.StopDraft, error) {
	collector := session.Scratch().StopsOrNew()
	stop := collector.Current
	if stop == nil {
		return nil, fmt.Errorf("location sub-flow returned without a collected stop")
	}
	collector.Current = nil
	collector.PendingRole = ""
	return stop, nil
}

// parseStop extracts a stop from a turn: a GPS share wins over text, and a
// turn with neither yields nil.
func parseStop(turn Turn, role string) *conversation.StopDraft {
	if turn.HasLocation() {
		return &conversation.StopDraft{
			AddressText: gpsShareAddressText,
			Latitude:    turn.Latitude,
			Longitude:   turn.Longitude,
			Role:        role,
		}
	}
	if text := strings.TrimSpace(turn.Text); text != "" {
		return &conversation.StopDraft{AddressText: text, Role: role}
	}
	return nil
}

// takeNote reads an optional free-text answer, treating "omitir" as empty.
func takeNote(turn Turn) string {
	text := strings.TrimSpace(turn.Text)
	if strings.EqualFold(text, answerSkip) {
		return ""
	}
	return text
}

func stopToAddress(stop *conversation.StopDraft, order int) commands.AddressInput {
	return commands.AddressInput{
		AddressText: stop.AddressText,
		Latitude:    stop.Latitude,
		Longitude:   stop.Longitude,
		Role:        stop.Role,
		Order:       order,
	}
}
