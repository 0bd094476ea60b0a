package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tripdesk/internal/adapters/out/postgres"
	"tripdesk/internal/adapters/out/postgres/conversationrepo"
	"tripdesk/internal/adapters/out/postgres/driverrepo"
	"tripdesk/internal/adapters/out/postgres/triprepo"
	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/domain/model/driver"
	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/pkg/errs"
)

// UnitOfWorkIntegrationTestSuite verifies transaction semantics across the
// trip, driver and conversation repositories.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&triprepo.TripDTO{},
		&triprepo.TripAddressDTO{},
		&driverrepo.DriverDTO{},
		&driverrepo.VehicleDTO{},
		&conversationrepo.StateDTO{},
	))

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE trips, trip_addresses, drivers, vehicles, conversation_states RESTART IDENTITY",
	).Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newTrip() *trip.Trip {
	pickup, err := trip.NewWaypoint("Av. Mcal. Lopez 1000", nil, nil, trip.RolePickup, 1)
	suite.Require().NoError(err)
	drop, err := trip.NewWaypoint("Av. Espana 200", nil, nil, trip.RoleDelivery, 2)
	suite.Require().NoError(err)

	aggregate, err := trip.NewOneWayTrip(trip.NewTripParams{
		Waypoints: []trip.Waypoint{pickup, drop},
		Price:     ptr(25000.0),
	}, trip.OneWayDetails{})
	suite.Require().NoError(err)
	return aggregate
}

func ptr[T any](v T) *T { return &v }

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	// Begin is idempotent on an open unit of work.
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))

	// Commit without an open transaction fails.
	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	aggregate := suite.newTrip()
	suite.Require().NoError(uow.TripRepository().Add(ctx, aggregate))

	fleetDriver, err := driver.NewDriver("Carlos Benitez", "LIC-1234", "595981111111")
	suite.Require().NoError(err)
	suite.Require().NoError(uow.DriverRepository().Add(ctx, fleetDriver))

	suite.Require().NoError(uow.Commit(ctx))

	verify := suite.factory.Create()
	loadedTrip, err := verify.TripRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(trip.Available, loadedTrip.Status())

	loadedDriver, err := verify.DriverRepository().Get(ctx, fleetDriver.ID())
	suite.Require().NoError(err)
	suite.Equal("Carlos Benitez", loadedDriver.FullName())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllWrites() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	aggregate := suite.newTrip()
	suite.Require().NoError(uow.TripRepository().Add(ctx, aggregate))

	phone, err := kernel.NewPhone("595981222333")
	suite.Require().NoError(err)
	state, err := conversation.NewState(phone, conversation.FlowMenu, "")
	suite.Require().NoError(err)
	suite.Require().NoError(uow.ConversationRepository().Add(ctx, state))

	suite.Require().NoError(uow.Rollback(ctx))

	verify := suite.factory.Create()
	_, err = verify.TripRepository().Get(ctx, aggregate.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)

	_, err = verify.ConversationRepository().GetByPhone(ctx, phone)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWithoutTransaction_WritesDirectly() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Repositories obtained before Begin work against the base connection.
	aggregate := suite.newTrip()
	suite.Require().NoError(uow.TripRepository().Add(ctx, aggregate))

	verify := suite.factory.Create()
	loaded, err := verify.TripRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(aggregate.ID(), loaded.ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestIsolation_UncommittedWritesInvisible() {
	ctx := context.Background()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	aggregate := suite.newTrip()
	suite.Require().NoError(uow.TripRepository().Add(ctx, aggregate))

	// A second unit of work must not see the uncommitted trip.
	other := suite.factory.Create()
	_, err := other.TripRepository().Get(ctx, aggregate.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)

	suite.Require().NoError(uow.Commit(ctx))

	_, err = other.TripRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
