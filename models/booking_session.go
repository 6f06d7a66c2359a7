package models

import "time"

// SessionState is the booking workflow state machine position.
type SessionState string

const (
	StateDraft            SessionState = "draft"
	StateIDReserved       SessionState = "idReserved"
	StateDetailsComplete  SessionState = "detailsComplete"
	StatePaymentPending   SessionState = "paymentPending"
	StatePaymentConfirmed SessionState = "paymentConfirmed"
	StatePaymentFailed    SessionState = "paymentFailed"
	StatePaymentAbandoned SessionState = "paymentAbandoned"
	StateClosed           SessionState = "closed"
)

// Terminal reports whether the payment sub-flow has resolved.
func (s SessionState) Terminal() bool {
	switch s {
	case StatePaymentConfirmed, StatePaymentFailed, StatePaymentAbandoned, StateClosed:
		return true
	}
	return false
}

// PaymentPath selects how the booking is paid. Chosen once, before the
// details submission, and never switched mid-flow.
type PaymentPath string

const (
	PathGateway       PaymentPath = "gateway"
	PathPayOnDelivery PaymentPath = "payOnDelivery"
)

// VehicleInfo identifies the customer's vehicle for the booking.
type VehicleInfo struct {
	ManufacturerID string `json:"manufacturerId"`
	ModelID        string `json:"modelId"`
	FuelTypeID     string `json:"fuelTypeId"`
}

// ScheduleInfo is the requested service date and time of day.
type ScheduleInfo struct {
	Date string `json:"date"` // "2006-01-02"
	Time string `json:"time"` // "15:04", must fall inside the operating window
}

// AddressInfo is the normalized service location.
type AddressInfo struct {
	Text string  `json:"text"`
	Lat  float64 `json:"lat,omitempty"`
	Lng  float64 `json:"lng,omitempty"`
}

// BookingSession holds one checkout attempt from reservation through the
// terminal payment outcome. Owned exclusively by the session controller
// and destroyed when the flow closes.
type BookingSession struct {
	BookingID   string          `json:"bookingId"`
	AttemptID   string          `json:"attemptId"` // client correlation id, one per checkout attempt
	Offering    ServiceOffering `json:"offering"`
	CustomerID  string          `json:"customerId"`
	KycVerified bool            `json:"kycVerified"`
	Vehicle     VehicleInfo     `json:"vehicle"`
	Schedule    ScheduleInfo    `json:"schedule"`
	Address     AddressInfo     `json:"address"`
	PaymentPath PaymentPath     `json:"paymentPath,omitempty"`
	PaymentRef  string          `json:"paymentReference,omitempty"`
	ServerTotal float64         `json:"serverComputedTotal,omitempty"`
	State       SessionState    `json:"state"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// PaymentOutcome is the terminal shape both payment paths converge on,
// so downstream presentation never branches on the path taken.
type PaymentOutcome struct {
	BookingID   string      `json:"bookingId"`
	PaymentPath PaymentPath `json:"paymentPath"`
	PaymentRef  *string     `json:"paymentReference"` // nil for pay-on-delivery
}
