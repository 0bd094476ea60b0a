package http

import "time"

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type addressRequest struct {
	AddressText string   `json:"address_text"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Role        string   `json:"role"`
	Order       int      `json:"order"`
}

type createTripRequest struct {
	Kind           string           `json:"kind"`
	CustomKind     string           `json:"custom_kind,omitempty"`
	DriverID       *int64           `json:"driver_id,omitempty"`
	VehicleID      *int64           `json:"vehicle_id,omitempty"`
	PassengerCount int              `json:"passenger_count,omitempty"`
	Price          *float64         `json:"price,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	DepartureTime  *time.Time       `json:"departure_time,omitempty"`
	ArrivalTime    *time.Time       `json:"arrival_time,omitempty"`
	Addresses      []addressRequest `json:"addresses"`

	AllowSharedRide bool `json:"allow_shared_ride,omitempty"`
	IsReserved      bool `json:"is_reserved,omitempty"`

	RequiresWait    bool `json:"requires_wait,omitempty"`
	WaitTimeMinutes *int `json:"wait_time_minutes,omitempty"`

	IncludesDriverExpenses bool     `json:"includes_driver_expenses,omitempty"`
	RentalDays             int      `json:"rental_days,omitempty"`
	DailyRate              *float64 `json:"daily_rate,omitempty"`

	Title         string   `json:"title,omitempty"`
	Description   string   `json:"package_description,omitempty"`
	WeightKg      *float64 `json:"weight,omitempty"`
	Dimensions    string   `json:"dimensions,omitempty"`
	PickupIndex   int      `json:"pickup_index,omitempty"`
	DeliveryIndex int      `json:"delivery_index,omitempty"`
}

type acceptTripRequest struct {
	VehicleID *int64 `json:"vehicle_id,omitempty"`
}

type driverStatusRequest struct {
	Duty      string   `json:"duty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
