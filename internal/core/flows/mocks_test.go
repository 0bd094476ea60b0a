package flows_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tripdesk/internal/core/application/usecases/commands"
	"tripdesk/internal/core/domain/model/account"
	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/driver"
	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/core/ports"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendText(ctx context.Context, to kernel.Phone, text string) error {
	args := m.Called(ctx, to, text)
	return args.Error(0)
}

func (m *MockNotifier) SendChoicePrompt(
	ctx context.Context, to kernel.Phone, body string, options []ports.ChoiceOption,
) error {
	args := m.Called(ctx, to, body, options)
	return args.Error(0)
}

type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) Add(ctx context.Context, state *conversation.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockConversationRepository) Update(ctx context.Context, state *conversation.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockConversationRepository) GetByPhone(
	ctx context.Context, phone kernel.Phone,
) (*conversation.State, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversation.State), args.Error(1)
}

type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) Add(ctx context.Context, aggregate *trip.Trip) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTripRepository) Update(ctx context.Context, aggregate *trip.Trip) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTripRepository) UpdateWhereStatus(
	ctx context.Context, aggregate *trip.Trip, expected trip.Status,
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

type MockAccountRepository struct {
	mock.Mock
}

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

type MockOfferableDrivers struct {
	mock.Mock
}

func (m *MockOfferableDrivers) GetAllOfferable(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

// MockUnitOfWork satisfies ports.UnitOfWork and the narrower per-handler
// unit-of-work interfaces, so one mock serves the engine and the command
// handlers invoked by the flows.
type MockUnitOfWork struct {
	mock.Mock

	conversations *MockConversationRepository
	trips         *MockTripRepository
	accounts      *MockAccountRepository
}

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
	return m.trips
}

func (m *MockUnitOfWork) ConversationRepository() ports.ConversationRepository {
	return m.conversations
}

func (m *MockUnitOfWork) DriverRepository() ports.DriverRepository {
	return nil
}

func (m *MockUnitOfWork) AccountRepository() ports.AccountRepository {
	return m.accounts
}

type MockUoWFactory struct {
	uow *MockUnitOfWork
}

func (f MockUoWFactory) Create() ports.UnitOfWork {
	return f.uow
}

type MockTripUoWFactory struct {
	uow *MockUnitOfWork
}

func (f MockTripUoWFactory) Create() commands.TripUoW {
	return f.uow
}

type MockAccountUoWFactory struct {
	uow *MockUnitOfWork
}

func (f MockAccountUoWFactory) Create() commands.AccountUoW {
	return f.uow
}

// newTxMock creates a unit of work whose transaction lifecycle always
// succeeds. Repository expectations are set per test.
func newTxMock() *MockUnitOfWork {
	uow := &MockUnitOfWork{
		conversations: &MockConversationRepository{},
		trips:         &MockTripRepository{},
		accounts:      &MockAccountRepository{},
	}
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	return uow
}

func mustPhone(t *testing.T, raw string) kernel.Phone {
	t.Helper()
	phone, err := kernel.NewPhone(raw)
	require.NoError(t, err)
	return phone
}

func ptr[T any](v T) *T {
	return &v
}
