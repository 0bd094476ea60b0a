package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tripdesk/internal/core/application/usecases/commands"
	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/pkg/errs"
)

func availableTrip(t *testing.T, id int64) *trip.Trip {
	t.Helper()

	waypoints := []trip.Waypoint{
		mustWaypoint(t, "Av. Mcal. Lopez 1000", trip.RolePickup, 1),
		mustWaypoint(t, "Av. Espana 200", trip.RoleDelivery, 2),
	}

	aggregate, err := trip.RestoreTrip(
		id, trip.KindCustom, trip.CustomKindOneWay, trip.Available,
		ptr(int64(7)), nil, nil, ptr(25000.0), "", 1, nil, nil,
		time.Now().UTC(), waypoints,
		&trip.OneWayDetails{}, nil, nil, nil,
	)
	require.NoError(t, err)
	return aggregate
}

func mustWaypoint(t *testing.T, text string, role trip.Role, order int) trip.Waypoint {
	t.Helper()

	waypoint, err := trip.NewWaypoint(text, nil, nil, role, order)
	require.NoError(t, err)
	return waypoint
}

func TestAcceptTripCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewAcceptTripCommand(42, 9, ptr(int64(3)))
	require.NoError(t, err)

	aggregate := availableTrip(t, 42)

	tripRepo := new(MockTripRepository)
	uow := new(MockUnitOfWork)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TripRepository").Return(tripRepo).Once(),
		tripRepo.On("Get", ctx, int64(42)).Return(aggregate, nil).Once(),
		tripRepo.On("UpdateWhereStatus", ctx, mock.AnythingOfType("*trip.Trip"), trip.Available).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTripUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptTripCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, trip.Pending, aggregate.Status())
	require.NotNil(t, aggregate.Driver())
	assert.Equal(t, int64(9), *aggregate.Driver())
	tripRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestAcceptTripCommandHandler_Handle_AlreadyPending(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewAcceptTripCommand(42, 9, nil)
	require.NoError(t, err)

	aggregate := availableTrip(t, 42)
	require.NoError(t, aggregate.Accept(5, nil))

	tripRepo := new(MockTripRepository)
	uow := new(MockUnitOfWork)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TripRepository").Return(tripRepo).Once()
	tripRepo.On("Get", ctx, int64(42)).Return(aggregate, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockTripUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptTripCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrAlreadyHandled)
	tripRepo.AssertNotCalled(t, "UpdateWhereStatus", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAcceptTripCommandHandler_Handle_LostRace(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewAcceptTripCommand(42, 9, nil)
	require.NoError(t, err)

	aggregate := availableTrip(t, 42)

	tripRepo := new(MockTripRepository)
	uow := new(MockUnitOfWork)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TripRepository").Return(tripRepo).Once()
	tripRepo.On("Get", ctx, int64(42)).Return(aggregate, nil).Once()
	tripRepo.On("UpdateWhereStatus", ctx, mock.AnythingOfType("*trip.Trip"), trip.Available).
		Return(errs.ErrAlreadyHandled).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockTripUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptTripCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrAlreadyHandled)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAcceptTripCommand_Validate_NotConstructed(t *testing.T) {
	var cmd commands.AcceptTripCommand

	assert.ErrorIs(t, cmd.Validate(), commands.ErrAcceptTripCommandIsNotConstructed)
}

func TestNewAcceptTripCommand_InvalidIDs(t *testing.T) {
	_, err := commands.NewAcceptTripCommand(0, 9, nil)
	assert.ErrorIs(t, err, commands.ErrTripIDIsRequired)

	_, err = commands.NewAcceptTripCommand(42, 0, nil)
	assert.ErrorIs(t, err, commands.ErrDriverIDIsRequired)
}
