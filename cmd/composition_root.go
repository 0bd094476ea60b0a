package cmd

import (
	"log/slog"
	"time"

	"tripdesk/internal/adapters/in/http"
	"tripdesk/internal/adapters/out/postgres"
	"tripdesk/internal/adapters/out/whatsapp"
	"tripdesk/internal/core/application/usecases/commands"
	"tripdesk/internal/core/application/usecases/queries"
	"tripdesk/internal/core/domain/model/conversation"
	"tripdesk/internal/core/flows"
	"tripdesk/internal/jobs"

	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
	}
}

func (c *CompositionRoot) CreateCreateTripCommandHandler() commands.CreateTripCommandHandler {
	var f commands.TripUoWFactory = FuncTripUoWFactory(func() commands.TripUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateTripCommandHandler(f)
}

func (c *CompositionRoot) CreateAcceptTripCommandHandler() commands.AcceptTripCommandHandler {
	var f commands.TripUoWFactory = FuncTripUoWFactory(func() commands.TripUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptTripCommandHandler(f)
}

func (c *CompositionRoot) CreateReleaseTripCommandHandler() commands.ReleaseTripCommandHandler {
	var f commands.TripUoWFactory = FuncTripUoWFactory(func() commands.TripUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReleaseTripCommandHandler(f)
}

func (c *CompositionRoot) CreateStartTripCommandHandler() commands.StartTripCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewStartTripCommandHandler(f)
}

func (c *CompositionRoot) CreateFinishTripCommandHandler() commands.FinishTripCommandHandler {
	var f commands.TripUoWFactory = FuncTripUoWFactory(func() commands.TripUoW {
		return c.uowFactory.Create()
	})
	return commands.NewFinishTripCommandHandler(f)
}

func (c *CompositionRoot) CreateCancelTripCommandHandler() commands.CancelTripCommandHandler {
	var f commands.TripUoWFactory = FuncTripUoWFactory(func() commands.TripUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelTripCommandHandler(f)
}

func (c *CompositionRoot) CreateVerifyDriverCommandHandler() commands.VerifyDriverCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewVerifyDriverCommandHandler(f)
}

func (c *CompositionRoot) CreateReportDriverStatusCommandHandler() commands.ReportDriverStatusCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportDriverStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateRegisterTravelerCommandHandler() commands.RegisterTravelerCommandHandler {
	var f commands.AccountUoWFactory = FuncAccountUoWFactory(func() commands.AccountUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterTravelerCommandHandler(f)
}

func (c *CompositionRoot) CreateGetAvailableTripsQueryHandler() queries.GetAvailableTripsQueryHandler {
	return queries.NewGetAvailableTripsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverTripsQueryHandler() queries.GetDriverTripsQueryHandler {
	return queries.NewGetDriverTripsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateNotifier() *whatsapp.Notifier {
	return whatsapp.NewNotifier(c.config.WhatsAppAPIURL, c.config.WhatsAppAccessToken)
}

func (c *CompositionRoot) CreateFlowEngine(notifier *whatsapp.Notifier, logger *slog.Logger) *flows.Engine {
	engine := flows.NewEngine(&c.uowFactory, notifier, logger)
	createTrip := c.CreateCreateTripCommandHandler()

	engine.Register(conversation.FlowRegistration, flows.NewRegistrationFlow(c.CreateRegisterTravelerCommandHandler()))
	engine.Register(conversation.FlowMenu, flows.NewMenuFlow())
	engine.Register(conversation.FlowTripRequest, flows.NewTripRequestFlow(createTrip))
	engine.Register(conversation.FlowRoundTrip, flows.NewRoundTripFlow(createTrip))
	engine.Register(conversation.FlowParcel, flows.NewParcelFlow(createTrip))
	engine.Register(conversation.FlowLocation, flows.NewLocationFlow())
	engine.Register(conversation.FlowMultilocation, flows.NewMultilocationFlow())
	engine.Register(conversation.FlowDriverSelection, flows.NewDriverSelectionFlow(c.uowFactory.Create().DriverRepository()))
	return engine
}

func (c *CompositionRoot) CreateWebServer() *http.Server {
	return http.NewServer(http.ServerParams{
		Tokens:   http.NewTokenIssuer(c.config.JWTSecret, tokenTTL),
		Accounts: c.uowFactory.Create().AccountRepository(),

		CreateTrip:         c.CreateCreateTripCommandHandler(),
		AcceptTrip:         c.CreateAcceptTripCommandHandler(),
		ReleaseTrip:        c.CreateReleaseTripCommandHandler(),
		StartTrip:          c.CreateStartTripCommandHandler(),
		FinishTrip:         c.CreateFinishTripCommandHandler(),
		CancelTrip:         c.CreateCancelTripCommandHandler(),
		VerifyDriver:       c.CreateVerifyDriverCommandHandler(),
		ReportDriverStatus: c.CreateReportDriverStatusCommandHandler(),

		AvailableTrips: c.CreateGetAvailableTripsQueryHandler(),
		DriverTrips:    c.CreateGetDriverTripsQueryHandler(),
	})
}

func (c *CompositionRoot) CreateWebhook(engine *flows.Engine, logger *slog.Logger) *http.Webhook {
	return http.NewWebhook(engine, c.config.WhatsAppVerifyToken, logger)
}

func (c *CompositionRoot) CreateJobManager(notifier *whatsapp.Notifier, logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(&c.uowFactory, notifier, logger)
}

type FuncTripUoWFactory func() commands.TripUoW

func (f FuncTripUoWFactory) Create() commands.TripUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncAccountUoWFactory func() commands.AccountUoW

func (f FuncAccountUoWFactory) Create() commands.AccountUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
