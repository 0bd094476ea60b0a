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

func inProgressTrip(t *testing.T, id, driverID int64) *trip.Trip {
	t.Helper()

	aggregate := pendingTrip(t, id, driverID)
	require.NoError(t, aggregate.Start(time.Now().UTC()))
	return aggregate
}

func TestFinishTripCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewFinishTripCommand(42, 9)
	require.NoError(t, err)

	aggregate := inProgressTrip(t, 42, 9)

	tripRepo := new(MockTripRepository)
	uow := new(MockUnitOfWork)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TripRepository").Return(tripRepo).Once(),
		tripRepo.On("Get", ctx, int64(42)).Return(aggregate, nil).Once(),
		tripRepo.On("Update", ctx, mock.AnythingOfType("*trip.Trip")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTripUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewFinishTripCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, trip.Finished, aggregate.Status())
	assert.NotNil(t, aggregate.ArrivalTime())
	tripRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestFinishTripCommandHandler_Handle_WrongDriver(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewFinishTripCommand(42, 13)
	require.NoError(t, err)

	aggregate := inProgressTrip(t, 42, 9)

	tripRepo := new(MockTripRepository)
	uow := new(MockUnitOfWork)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TripRepository").Return(tripRepo).Once()
	tripRepo.On("Get", ctx, int64(42)).Return(aggregate, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockTripUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewFinishTripCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	assert.Equal(t, trip.InProgress, aggregate.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestFinishTripCommandHandler_Handle_NotStarted(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewFinishTripCommand(42, 9)
	require.NoError(t, err)

	aggregate := pendingTrip(t, 42, 9)

	tripRepo := new(MockTripRepository)
	uow := new(MockUnitOfWork)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TripRepository").Return(tripRepo).Once()
	tripRepo.On("Get", ctx, int64(42)).Return(aggregate, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockTripUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewFinishTripCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Equal(t, trip.Pending, aggregate.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
