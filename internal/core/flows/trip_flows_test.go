package flows_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/driver"
	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/core/flows"
)

func tripDraftState(
	t *testing.T, phone kernel.Phone, flow conversation.Flow, step conversation.Step, draft *conversation.TripDraft,
) *conversation.State {
	t.Helper()
	scratch := &conversation.Scratch{Trip: draft}
	state, err := conversation.RestoreState(1, phone, ptr(int64(7)), flow, step, scratch, time.Now().UTC())
	require.NoError(t, err)
	return state
}

func outboundPair() (*conversation.StopDraft, *conversation.StopDraft) {
	pickup := &conversation.StopDraft{AddressText: "Mercado 4", Role: "pickup", Order: 1}
	delivery := &conversation.StopDraft{AddressText: "Aeropuerto", Role: "delivery", Order: 2}
	return pickup, delivery
}

func TestTripRequestFlow_ReservedRideIsPrivate(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	draft := &conversation.TripDraft{CustomKind: "one_way"}
	state := tripDraftState(t, phone, conversation.FlowTripRequest, "style", draft)
	fixture.expectExisting(state)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "trip_style_reserved"})

	require.NoError(t, err)
	assert.True(t, draft.IsReserved)
	assert.False(t, draft.AllowSharedRide)

	// Reserved rides skip the shared question and go straight to the pickup.
	assert.Equal(t, conversation.FlowLocation, state.Flow())
	require.Len(t, state.Scratch().Returns, 1)
	assert.Equal(t, conversation.Step("got_pickup"), state.Scratch().Returns[0].Step)
}

func TestTripRequestFlow_NoteTravelsToCreatedTrip(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	pickup, delivery := outboundPair()
	draft := &conversation.TripDraft{
		CustomKind: "one_way",
		Pickup:     pickup,
		Delivery:   delivery,
		Price:      ptr(25000.0),
	}
	state := tripDraftState(t, phone, conversation.FlowTripRequest, "notes", draft)
	fixture.expectExisting(state)

	var created *trip.Trip
	fixture.uow.trips.
		On("Add", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*trip.Trip)
		}).
		Return(nil)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{Text: "Voy con una valija grande"})
	require.NoError(t, err)
	assert.Equal(t, conversation.Step("confirm"), state.Step())
	assert.Equal(t, "Voy con una valija grande", draft.Notes)

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "confirm_yes"})
	require.NoError(t, err)
	assert.Equal(t, conversation.Step("assignment"), state.Step())

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "trip_publish"})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "Voy con una valija grande", created.Notes())
	assert.Equal(t, trip.Available, created.Status())
	assert.Equal(t, conversation.FlowMenu, state.Flow())
}

func TestRoundTripFlow_WaitTimeRaisesPrice(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	pickup, delivery := outboundPair()
	draft := &conversation.TripDraft{
		CustomKind:   "round",
		RequiresWait: true,
		Pickup:       pickup,
		Delivery:     delivery,
	}
	state := tripDraftState(t, phone, conversation.FlowRoundTrip, "collect_wait_time", draft)
	fixture.expectExisting(state)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{Text: "30"})
	require.NoError(t, err)
	assert.Equal(t, conversation.Step("return_choice"), state.Step())

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "return_same"})
	require.NoError(t, err)
	assert.Equal(t, conversation.Step("notes"), state.Step())

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{Text: "omitir"})
	require.NoError(t, err)

	assert.Equal(t, conversation.Step("confirm"), state.Step())
	assert.Empty(t, draft.Notes)
	require.NotNil(t, draft.Price)
	assert.Equal(t, 46000.0, *draft.Price)
	fixture.notifier.AssertCalled(t, "SendChoicePrompt", mock.Anything, phone,
		"Ida y vuelta desde Mercado 4 hasta Aeropuerto. El conductor espera 30 minutos. Total: Gs. 46000. ¿Confirmás?",
		mock.Anything)

	// Reusing the outbound pair builds the return leg in reverse.
	require.Len(t, draft.ReturnStops, 2)
	assert.Equal(t, "Aeropuerto", draft.ReturnStops[0].AddressText)
	assert.Equal(t, "pickup", draft.ReturnStops[0].Role)
	assert.Equal(t, "Mercado 4", draft.ReturnStops[1].AddressText)
}

func TestRoundTripFlow_InvalidWaitTimeReasks(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	pickup, delivery := outboundPair()
	draft := &conversation.TripDraft{CustomKind: "round", RequiresWait: true, Pickup: pickup, Delivery: delivery}
	state := tripDraftState(t, phone, conversation.FlowRoundTrip, "collect_wait_time", draft)
	fixture.expectExisting(state)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{Text: "un rato"})

	require.NoError(t, err)
	assert.Equal(t, conversation.Step("collect_wait_time"), state.Step())
	assert.Nil(t, draft.WaitTimeMinutes)
	fixture.notifier.AssertCalled(t, "SendText", mock.Anything, phone,
		"No entendí los minutos. Escribí solo el número, por ejemplo 30.")
}

func TestRoundTripFlow_ConfirmCreatesTripWithReturnLeg(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	pickup, delivery := outboundPair()
	draft := &conversation.TripDraft{
		CustomKind:      "round",
		RequiresWait:    true,
		WaitTimeMinutes: ptr(30),
		Price:           ptr(46000.0),
		Pickup:          pickup,
		Delivery:        delivery,
		ReturnStops: []conversation.StopDraft{
			{AddressText: "Aeropuerto", Role: "pickup"},
			{AddressText: "Mercado 4", Role: "delivery"},
		},
	}
	state := tripDraftState(t, phone, conversation.FlowRoundTrip, "confirm", draft)
	fixture.expectExisting(state)

	var created *trip.Trip
	fixture.uow.trips.
		On("Add", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*trip.Trip)
		}).
		Return(nil)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "confirm_yes"})
	require.NoError(t, err)
	assert.Equal(t, conversation.Step("assignment"), state.Step())

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "trip_publish"})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Nil(t, created.Driver())
	assert.Equal(t, trip.CustomKindRound, created.CustomKind())
	assert.Equal(t, trip.Available, created.Status())
	assert.Equal(t, int64(7), *created.Traveler())
	assert.Equal(t, 46000.0, *created.Price())
	require.NotNil(t, created.Round())
	assert.True(t, created.Round().RequiresWait)
	assert.Equal(t, 30, *created.Round().WaitTimeMinutes)

	waypoints := created.Waypoints()
	require.Len(t, waypoints, 4)
	assert.Equal(t, 1, waypoints[0].Order)
	assert.Equal(t, 101, waypoints[2].Order)
	assert.Equal(t, 102, waypoints[3].Order)

	assert.Equal(t, conversation.FlowMenu, state.Flow())
	assert.Nil(t, state.Scratch().Trip)
}

func TestRoundTripFlow_DelegatesDriverSelectionAndAssigns(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	pickup, delivery := outboundPair()
	draft := &conversation.TripDraft{
		CustomKind: "round",
		Price:      ptr(40000.0),
		Pickup:     pickup,
		Delivery:   delivery,
		ReturnStops: []conversation.StopDraft{
			{AddressText: "Aeropuerto", Role: "pickup"},
			{AddressText: "Mercado 4", Role: "delivery"},
		},
	}
	state := tripDraftState(t, phone, conversation.FlowRoundTrip, "assignment", draft)
	fixture.expectExisting(state)

	fixture.drivers.On("GetAllOfferable", mock.Anything).
		Return([]*driver.Driver{offerableDriver(t, 5, "Carlos Benítez")}, nil)

	var created *trip.Trip
	fixture.uow.trips.
		On("Add", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*trip.Trip)
		}).
		Return(nil)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "trip_pick_driver"})
	require.NoError(t, err)
	assert.Equal(t, conversation.FlowDriverSelection, state.Flow())
	require.Len(t, state.Scratch().Returns, 1)
	assert.Equal(t, conversation.FlowRoundTrip, state.Scratch().Returns[0].Flow)
	assert.Equal(t, conversation.Step("driver_chosen"), state.Scratch().Returns[0].Step)

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "driver_5"})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, trip.CustomKindRound, created.CustomKind())
	require.NotNil(t, created.Driver())
	assert.Equal(t, int64(5), *created.Driver())
	assert.Equal(t, trip.Pending, created.Status())
	fixture.notifier.AssertCalled(t, "SendText", mock.Anything, phone,
		"¡Listo! Tu viaje de ida y vuelta quedó asignado a Carlos Benítez.")
	assert.Equal(t, conversation.FlowMenu, state.Flow())
}

func TestRoundTripFlow_CustomReturnCollectsStopsViaMultilocation(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	pickup, delivery := outboundPair()
	draft := &conversation.TripDraft{CustomKind: "round", Pickup: pickup, Delivery: delivery}
	state := tripDraftState(t, phone, conversation.FlowRoundTrip, "return_choice", draft)
	fixture.expectExisting(state)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "return_other"})
	require.NoError(t, err)
	assert.Equal(t, conversation.FlowMultilocation, state.Flow())
	fixture.notifier.AssertCalled(t, "SendText", mock.Anything, phone,
		"Envíame la ubicación de la primera parada, o escribí la dirección.")

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{Text: "Shopping del Sol"})
	require.NoError(t, err)
	require.Len(t, draft.ReturnStops, 1)
	assert.Equal(t, "Shopping del Sol", draft.ReturnStops[0].AddressText)

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "stops_done"})
	require.NoError(t, err)

	// Back in the round-trip flow, which asks for an optional note.
	assert.Equal(t, conversation.FlowRoundTrip, state.Flow())
	assert.Equal(t, conversation.Step("notes"), state.Step())

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{Text: "Tocá el portón dos veces"})
	require.NoError(t, err)
	assert.Equal(t, conversation.Step("confirm"), state.Step())
	assert.Equal(t, "Tocá el portón dos veces", draft.Notes)
	require.NotNil(t, draft.Price)
	assert.Equal(t, 40000.0, *draft.Price)
}

func TestParcelFlow_SkippedWeightStillConfirms(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	pickup, delivery := outboundPair()
	draft := &conversation.TripDraft{
		Pickup:      pickup,
		Delivery:    delivery,
		Title:       "Documentos del banco",
		Description: "Documentos del banco",
	}
	state := tripDraftState(t, phone, conversation.FlowParcel, "collect_weight", draft)
	fixture.expectExisting(state)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{Text: "omitir"})
	require.NoError(t, err)
	assert.Equal(t, conversation.Step("collect_dimensions"), state.Step())
	assert.Nil(t, draft.WeightKg)

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{Text: "40x30x20 cm"})
	require.NoError(t, err)
	assert.Equal(t, conversation.Step("notes"), state.Step())
	assert.Equal(t, "40x30x20 cm", draft.Dimensions)

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{Text: "omitir"})

	require.NoError(t, err)
	assert.Equal(t, conversation.Step("confirm"), state.Step())
	assert.Empty(t, draft.Notes)
	require.NotNil(t, draft.Price)
	assert.Equal(t, 20000.0, *draft.Price)
	fixture.notifier.AssertCalled(t, "SendChoicePrompt", mock.Anything, phone,
		"Encomienda de Mercado 4 a Aeropuerto por Gs. 20000. ¿Confirmás?", mock.Anything)
}

func TestParcelFlow_ConfirmCreatesParcelTrip(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	pickup, delivery := outboundPair()
	draft := &conversation.TripDraft{
		Pickup:      pickup,
		Delivery:    delivery,
		Title:       "Documentos del banco",
		Description: "Documentos del banco",
		WeightKg:    ptr(2.5),
		Dimensions:  "40x30x20 cm",
		Price:       ptr(20000.0),
	}
	state := tripDraftState(t, phone, conversation.FlowParcel, "confirm", draft)
	fixture.expectExisting(state)

	var created *trip.Trip
	fixture.uow.trips.
		On("Add", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*trip.Trip)
		}).
		Return(nil)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "confirm_yes"})
	require.NoError(t, err)
	assert.Equal(t, conversation.Step("assignment"), state.Step())

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "trip_publish"})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Nil(t, created.Driver())
	assert.Equal(t, trip.KindParcel, created.Kind())
	require.NotNil(t, created.Parcel())
	assert.Equal(t, "Documentos del banco", created.Parcel().Description)
	assert.Equal(t, 2.5, *created.Parcel().WeightKg)
	assert.Equal(t, "40x30x20 cm", created.Parcel().Dimensions)
	assert.Equal(t, 0, created.Parcel().PickupIndex)
	assert.Equal(t, 1, created.Parcel().DeliveryIndex)
	assert.Equal(t, conversation.FlowMenu, state.Flow())
}

func TestParcelFlow_DelegatesDriverSelectionAndAssigns(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	pickup, delivery := outboundPair()
	draft := &conversation.TripDraft{
		Pickup:      pickup,
		Delivery:    delivery,
		Title:       "Documentos del banco",
		Description: "Documentos del banco",
		Price:       ptr(20000.0),
	}
	state := tripDraftState(t, phone, conversation.FlowParcel, "assignment", draft)
	fixture.expectExisting(state)

	fixture.drivers.On("GetAllOfferable", mock.Anything).
		Return([]*driver.Driver{offerableDriver(t, 5, "Carlos Benítez")}, nil)

	var created *trip.Trip
	fixture.uow.trips.
		On("Add", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*trip.Trip)
		}).
		Return(nil)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "trip_pick_driver"})
	require.NoError(t, err)
	assert.Equal(t, conversation.FlowDriverSelection, state.Flow())
	require.Len(t, state.Scratch().Returns, 1)
	assert.Equal(t, conversation.FlowParcel, state.Scratch().Returns[0].Flow)
	assert.Equal(t, conversation.Step("driver_chosen"), state.Scratch().Returns[0].Step)

	// The parcel draft survives the sub-flow hop.
	assert.Equal(t, "Documentos del banco", state.Scratch().TripDraftOrNew().Description)

	err = fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "driver_5"})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, trip.KindParcel, created.Kind())
	require.NotNil(t, created.Driver())
	assert.Equal(t, int64(5), *created.Driver())
	assert.Equal(t, trip.Pending, created.Status())
	fixture.notifier.AssertCalled(t, "SendText", mock.Anything, phone,
		"¡Listo! Tu encomienda quedó asignada a Carlos Benítez.")
	assert.Equal(t, conversation.FlowMenu, state.Flow())
}

func offerableDriver(t *testing.T, id int64, name string) *driver.Driver {
	t.Helper()
	vehicle := &driver.Vehicle{ID: id * 10, Make: "Toyota", Model: "Vitz", Year: 2018, Color: "Gris", Plate: "ABCD123", Seats: 4}
	candidate, err := driver.RestoreDriver(
		id, name, "LIC-100", "595991222333", true, driver.DutyAvailable, 4.8, 120, vehicle, nil, nil)
	require.NoError(t, err)
	return candidate
}

func TestDriverSelectionFlow_PickAssignsDriverToTrip(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	pickup, delivery := outboundPair()
	draft := &conversation.TripDraft{
		CustomKind: "one_way",
		Pickup:     pickup,
		Delivery:   delivery,
		Price:      ptr(25000.0),
	}
	state := tripDraftState(t, phone, conversation.FlowDriverSelection, "choose", draft)
	require.NoError(t, state.Scratch().PushReturn(conversation.ReturnAddress{
		Flow: conversation.FlowTripRequest, Step: "driver_chosen",
	}))
	fixture.expectExisting(state)

	fixture.drivers.On("GetAllOfferable", mock.Anything).
		Return([]*driver.Driver{offerableDriver(t, 5, "Carlos Benítez")}, nil)

	var created *trip.Trip
	fixture.uow.trips.
		On("Add", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*trip.Trip)
		}).
		Return(nil)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{ButtonID: "driver_5"})

	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotNil(t, created.Driver())
	assert.Equal(t, int64(5), *created.Driver())
	assert.Equal(t, trip.Pending, created.Status())
	fixture.notifier.AssertCalled(t, "SendText", mock.Anything, phone,
		"¡Listo! Tu viaje quedó asignado a Carlos Benítez.")
	assert.Equal(t, conversation.FlowMenu, state.Flow())
}

func TestDriverSelectionFlow_NobodyOfferablePublishesTrip(t *testing.T) {
	fixture := newEngineFixture()
	phone := mustPhone(t, "+595981111111")
	pickup, delivery := outboundPair()
	draft := &conversation.TripDraft{
		CustomKind: "one_way",
		Pickup:     pickup,
		Delivery:   delivery,
		Price:      ptr(25000.0),
	}
	state := tripDraftState(t, phone, conversation.FlowDriverSelection, "start", draft)
	require.NoError(t, state.Scratch().PushReturn(conversation.ReturnAddress{
		Flow: conversation.FlowTripRequest, Step: "driver_chosen",
	}))
	fixture.expectExisting(state)

	fixture.drivers.On("GetAllOfferable", mock.Anything).Return([]*driver.Driver{}, nil)

	var created *trip.Trip
	fixture.uow.trips.
		On("Add", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*trip.Trip)
		}).
		Return(nil)

	err := fixture.engine.ProcessTurn(context.Background(), phone, flows.Turn{Text: "hola"})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Nil(t, created.Driver())
	assert.Equal(t, trip.Available, created.Status())
	fixture.notifier.AssertCalled(t, "SendText", mock.Anything, phone,
		"Por el momento no hay conductores disponibles. Vamos a publicar tu viaje.")
	fixture.notifier.AssertCalled(t, "SendText", mock.Anything, phone,
		"¡Tu viaje fue publicado! Te avisamos cuando un conductor lo tome.")
}
