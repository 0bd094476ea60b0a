// Package http is the inbound REST adapter: authentication, the trip and
// driver API for the mobile clients, and the messaging-channel webhook.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"tripdesk/internal/core/application/usecases/commands"
	"tripdesk/internal/core/application/usecases/queries"
	"tripdesk/internal/core/domain/model/account"
	"tripdesk/internal/core/ports"
	"tripdesk/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	tokens   TokenIssuer
	accounts ports.AccountRepository

	createTripHandler         commands.CreateTripCommandHandler
	acceptTripHandler         commands.AcceptTripCommandHandler
	releaseTripHandler        commands.ReleaseTripCommandHandler
	startTripHandler          commands.StartTripCommandHandler
	finishTripHandler         commands.FinishTripCommandHandler
	cancelTripHandler         commands.CancelTripCommandHandler
	verifyDriverHandler       commands.VerifyDriverCommandHandler
	reportDriverStatusHandler commands.ReportDriverStatusCommandHandler

	availableTripsHandler queries.GetAvailableTripsQueryHandler
	driverTripsHandler    queries.GetDriverTripsQueryHandler
}

// ServerParams bundles everything the REST adapter needs.
type ServerParams struct {
	Tokens   TokenIssuer
	Accounts ports.AccountRepository

	CreateTrip         commands.CreateTripCommandHandler
	AcceptTrip         commands.AcceptTripCommandHandler
	ReleaseTrip        commands.ReleaseTripCommandHandler
	StartTrip          commands.StartTripCommandHandler
	FinishTrip         commands.FinishTripCommandHandler
	CancelTrip         commands.CancelTripCommandHandler
	VerifyDriver       commands.VerifyDriverCommandHandler
	ReportDriverStatus commands.ReportDriverStatusCommandHandler

	AvailableTrips queries.GetAvailableTripsQueryHandler
	DriverTrips    queries.GetDriverTripsQueryHandler
}

// NewServer creates the REST adapter.
func NewServer(params ServerParams) *Server {
	return &Server{
		tokens:                    params.Tokens,
		accounts:                  params.Accounts,
		createTripHandler:         params.CreateTrip,
		acceptTripHandler:         params.AcceptTrip,
		releaseTripHandler:        params.ReleaseTrip,
		startTripHandler:          params.StartTrip,
		finishTripHandler:         params.FinishTrip,
		cancelTripHandler:         params.CancelTrip,
		verifyDriverHandler:       params.VerifyDriver,
		reportDriverStatusHandler: params.ReportDriverStatus,
		availableTripsHandler:     params.AvailableTrips,
		driverTripsHandler:        params.DriverTrips,
	}
}

// RegisterRoutes mounts the API on an echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "Healthy")
	})
	e.POST("/api/v1/auth/login", s.Login)

	api := e.Group("/api/v1", s.requireAuth)

	api.GET("/trips/available", s.GetAvailableTrips)
	api.POST("/trips", s.CreateTrip)
	api.POST("/trips/:id/cancel", s.CancelTrip)

	drivers := api.Group("", requireRoles(account.RoleDriver))
	drivers.POST("/trips/:id/accept", s.AcceptTrip)
	drivers.POST("/trips/:id/release", s.ReleaseTrip)
	drivers.POST("/trips/:id/start", s.StartTrip)
	drivers.POST("/trips/:id/finish", s.FinishTrip)
	drivers.GET("/drivers/me/trips", s.GetDriverTrips)
	drivers.POST("/drivers/me/status", s.ReportDriverStatus)

	operators := api.Group("", requireRoles(account.RoleAdmin, account.RoleSuperuser))
	operators.POST("/drivers/:id/verify", s.VerifyDriver)
}

// Login handles POST /api/v1/auth/login.
func (s *Server) Login(ctx echo.Context) error {
	var request loginRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	user, err := s.accounts.GetUserByEmail(ctx.Request().Context(), request.Email)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return unauthorized(ctx)
		}
		return internalError(ctx, "Failed to authenticate")
	}
	if !user.IsActive {
		return unauthorized(ctx)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)) != nil {
		return unauthorized(ctx)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return internalError(ctx, "Failed to issue token")
	}
	return ctx.JSON(http.StatusOK, loginResponse{Token: token, Role: string(user.Role)})
}

// GetAvailableTrips handles GET /api/v1/trips/available.
func (s *Server) GetAvailableTrips(ctx echo.Context) error {
	query := queries.NewGetAvailableTripsQuery()

	trips, err := s.availableTripsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve trips")
	}
	return ctx.JSON(http.StatusOK, trips)
}

// CreateTrip handles POST /api/v1/trips.
func (s *Server) CreateTrip(ctx echo.Context) error {
	var request createTripRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	params := commands.CreateTripParams{
		Kind:                   request.Kind,
		CustomKind:             request.CustomKind,
		DriverID:               request.DriverID,
		VehicleID:              request.VehicleID,
		PassengerCount:         request.PassengerCount,
		Price:                  request.Price,
		Notes:                  request.Notes,
		DepartureTime:          request.DepartureTime,
		ArrivalTime:            request.ArrivalTime,
		AllowSharedRide:        request.AllowSharedRide,
		IsReserved:             request.IsReserved,
		RequiresWait:           request.RequiresWait,
		WaitTimeMinutes:        request.WaitTimeMinutes,
		IncludesDriverExpenses: request.IncludesDriverExpenses,
		RentalDays:             request.RentalDays,
		DailyRate:              request.DailyRate,
		Title:                  request.Title,
		Description:            request.Description,
		WeightKg:               request.WeightKg,
		Dimensions:             request.Dimensions,
		PickupIndex:            request.PickupIndex,
		DeliveryIndex:          request.DeliveryIndex,
	}
	for _, address := range request.Addresses {
		params.Addresses = append(params.Addresses, commands.AddressInput{
			AddressText: address.AddressText,
			Latitude:    address.Latitude,
			Longitude:   address.Longitude,
			Role:        address.Role,
			Order:       address.Order,
		})
	}

	// A traveler always creates trips for themselves.
	claims := callerClaims(ctx)
	if claims.Role == string(account.RoleTraveler) {
		params.TravelerID = &claims.UserID
	}

	createCommand, err := commands.NewCreateTripCommand(params)
	if err != nil {
		return badRequest(ctx, "Invalid trip data: "+err.Error())
	}
	if _, err := s.createTripHandler.Handle(ctx.Request().Context(), createCommand); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusCreated)
}

// AcceptTrip handles POST /api/v1/trips/:id/accept.
func (s *Server) AcceptTrip(ctx echo.Context) error {
	tripID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid trip id")
	}
	var request acceptTripRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	acceptCommand, err := commands.NewAcceptTripCommand(tripID, callerClaims(ctx).UserID, request.VehicleID)
	if err != nil {
		return badRequest(ctx, "Invalid accept data: "+err.Error())
	}
	if err := s.acceptTripHandler.Handle(ctx.Request().Context(), acceptCommand); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusOK)
}

// ReleaseTrip handles POST /api/v1/trips/:id/release.
func (s *Server) ReleaseTrip(ctx echo.Context) error {
	tripID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid trip id")
	}

	releaseCommand, err := commands.NewReleaseTripCommand(tripID, callerClaims(ctx).UserID)
	if err != nil {
		return badRequest(ctx, "Invalid release data: "+err.Error())
	}
	if err := s.releaseTripHandler.Handle(ctx.Request().Context(), releaseCommand); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusOK)
}

// StartTrip handles POST /api/v1/trips/:id/start.
func (s *Server) StartTrip(ctx echo.Context) error {
	tripID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid trip id")
	}

	startCommand, err := commands.NewStartTripCommand(tripID, callerClaims(ctx).UserID)
	if err != nil {
		return badRequest(ctx, "Invalid start data: "+err.Error())
	}
	if err := s.startTripHandler.Handle(ctx.Request().Context(), startCommand); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusOK)
}

// FinishTrip handles POST /api/v1/trips/:id/finish.
func (s *Server) FinishTrip(ctx echo.Context) error {
	tripID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid trip id")
	}

	finishCommand, err := commands.NewFinishTripCommand(tripID, callerClaims(ctx).UserID)
	if err != nil {
		return badRequest(ctx, "Invalid finish data: "+err.Error())
	}
	if err := s.finishTripHandler.Handle(ctx.Request().Context(), finishCommand); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusOK)
}

// CancelTrip handles POST /api/v1/trips/:id/cancel.
func (s *Server) CancelTrip(ctx echo.Context) error {
	tripID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid trip id")
	}

	claims := callerClaims(ctx)
	cancelCommand, err := commands.NewCancelTripCommand(tripID, claims.UserID, account.Role(claims.Role))
	if err != nil {
		return badRequest(ctx, "Invalid cancel data: "+err.Error())
	}
	if err := s.cancelTripHandler.Handle(ctx.Request().Context(), cancelCommand); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusOK)
}

// VerifyDriver handles POST /api/v1/drivers/:id/verify.
func (s *Server) VerifyDriver(ctx echo.Context) error {
	driverID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	claims := callerClaims(ctx)
	verifyCommand, err := commands.NewVerifyDriverCommand(driverID, claims.UserID, account.Role(claims.Role))
	if err != nil {
		return badRequest(ctx, "Invalid verify data: "+err.Error())
	}
	if err := s.verifyDriverHandler.Handle(ctx.Request().Context(), verifyCommand); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusOK)
}

// ReportDriverStatus handles POST /api/v1/drivers/me/status.
func (s *Server) ReportDriverStatus(ctx echo.Context) error {
	var request driverStatusRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	statusCommand, err := commands.NewReportDriverStatusCommand(
		callerClaims(ctx).UserID, request.Duty, request.Latitude, request.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid status data: "+err.Error())
	}
	if err := s.reportDriverStatusHandler.Handle(ctx.Request().Context(), statusCommand); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusOK)
}

// GetDriverTrips handles GET /api/v1/drivers/me/trips.
func (s *Server) GetDriverTrips(ctx echo.Context) error {
	query, err := queries.NewGetDriverTripsQuery(callerClaims(ctx).UserID)
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	trips, err := s.driverTripsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve trips")
	}
	return ctx.JSON(http.StatusOK, trips)
}

func pathID(ctx echo.Context) (int64, error) {
	return strconv.ParseInt(ctx.Param("id"), 10, 64)
}

func writeError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, errorResponse{
			Code: http.StatusNotFound, Message: err.Error(),
		})
	case errors.Is(err, errs.ErrPermissionDenied):
		return ctx.JSON(http.StatusForbidden, errorResponse{
			Code: http.StatusForbidden, Message: err.Error(),
		})
	case errors.Is(err, errs.ErrAlreadyHandled):
		return ctx.JSON(http.StatusConflict, errorResponse{
			Code: http.StatusConflict, Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrDriverLocationUnknown):
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code: http.StatusBadRequest, Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code: http.StatusInternalServerError, Message: "Internal error",
		})
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{Code: http.StatusBadRequest, Message: message})
}

func unauthorized(ctx echo.Context) error {
	return ctx.JSON(http.StatusUnauthorized, errorResponse{
		Code: http.StatusUnauthorized, Message: "Invalid credentials",
	})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, errorResponse{
		Code: http.StatusInternalServerError, Message: message,
	})
}
