package commands_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tripdesk/internal/core/application/usecases/commands"
	"tripdesk/internal/core/domain/model/account"
	"tripdesk/internal/core/domain/model/driver"
	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/core/ports"
)

type MockTripRepository struct{ mock.Mock }

func (m *MockTripRepository) Add(ctx context.Context, aggregate *trip.Trip) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTripRepository) Update(ctx context.Context, aggregate *trip.Trip) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTripRepository) UpdateWhereStatus(
	ctx context.Context,
	aggregate *trip.Trip,
	expected trip.Status,
) error {
	args := m.Called(ctx, aggregate, expected)
	return args.Error(0)
}

func (m *MockTripRepository) Get(ctx context.Context, id int64) (*trip.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trip.Trip), args.Error(1)
}

func (m *MockTripRepository) GetAllAvailable(ctx context.Context) ([]*trip.Trip, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trip.Trip), args.Error(1)
}

func (m *MockTripRepository) GetByDriver(ctx context.Context, driverID int64) ([]*trip.Trip, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trip.Trip), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id int64) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAllOfferable(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) IsAssignedToAdmin(
	ctx context.Context,
	adminID, driverID int64,
) (bool, error) {
	args := m.Called(ctx, adminID, driverID)
	return args.Bool(0), args.Error(1)
}

type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) AddUser(ctx context.Context, user *account.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAccountRepository) AddTraveler(ctx context.Context, traveler *account.Traveler) error {
	args := m.Called(ctx, traveler)
	return args.Error(0)
}

func (m *MockAccountRepository) GetUserByEmail(ctx context.Context, email string) (*account.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockAccountRepository) GetUserByID(ctx context.Context, id int64) (*account.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockAccountRepository) GetTraveler(ctx context.Context, id int64) (*account.Traveler, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Traveler), args.Error(1)
}

// MockUnitOfWork satisfies every command UoW interface so a single mock type
// serves all handler tests.
type MockUnitOfWork struct{ mock.Mock }

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) TripRepository() ports.TripRepository {
	args := m.Called()
	return args.Get(0).(ports.TripRepository)
}

func (m *MockUnitOfWork) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUnitOfWork) AccountRepository() ports.AccountRepository {
	args := m.Called()
	return args.Get(0).(ports.AccountRepository)
}

type MockTripUoWFactory struct{ mock.Mock }

func (m *MockTripUoWFactory) Create() commands.TripUoW {
	args := m.Called()
	return args.Get(0).(commands.TripUoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

type MockAccountUoWFactory struct{ mock.Mock }

func (m *MockAccountUoWFactory) Create() commands.AccountUoW {
	args := m.Called()
	return args.Get(0).(commands.AccountUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

func ptr[T any](v T) *T { return &v }

func mustPhone(raw string) kernel.Phone {
	phone, err := kernel.NewPhone(raw)
	if err != nil {
		panic(err)
	}
	return phone
}
