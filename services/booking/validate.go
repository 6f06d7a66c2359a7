package booking

import (
	"strings"
	"time"

	"garagio/config"
	"garagio/models"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04"
)

// OperatingWindow bounds the time of day a service can be scheduled.
type OperatingWindow struct {
	Open  string // "15:04"
	Close string
}

// WindowFromConfig reads the operating window, falling back to standard
// garage hours when config has not been loaded.
func WindowFromConfig() OperatingWindow {
	w := OperatingWindow{
		Open:  config.AppConfig.OperatingOpen,
		Close: config.AppConfig.OperatingClose,
	}
	if w.Open == "" || w.Close == "" {
		w = OperatingWindow{Open: "09:00", Close: "19:00"}
	}
	return w
}

// contains reports whether t ("15:04") falls inside the window, bounds
// inclusive.
func (w OperatingWindow) contains(t time.Time) bool {
	open, err := time.Parse(timeFormat, w.Open)
	if err != nil {
		return false
	}
	close, err := time.Parse(timeFormat, w.Close)
	if err != nil {
		return false
	}
	return !t.Before(open) && !t.After(close)
}

// BuyerInfo is the contact prefilled into the hosted checkout.
type BuyerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CheckoutDetails is everything collected between reservation and payment.
type CheckoutDetails struct {
	Vehicle     models.VehicleInfo  `json:"vehicle"`
	Schedule    models.ScheduleInfo `json:"schedule"`
	Address     models.AddressInfo  `json:"address"`
	PaymentPath models.PaymentPath  `json:"paymentPath"`
	Contact     BuyerInfo           `json:"contact"`
}

// validateDetails checks every precondition together and reports all
// violations at once rather than stopping at the first.
func validateDetails(d CheckoutDetails, window OperatingWindow) error {
	fields := map[string]string{}

	if d.Schedule.Date == "" {
		fields["schedule.date"] = "service date is required"
	} else if _, err := time.Parse(dateFormat, d.Schedule.Date); err != nil {
		fields["schedule.date"] = "service date must be YYYY-MM-DD"
	}

	if d.Schedule.Time == "" {
		fields["schedule.time"] = "service time is required"
	} else if t, err := time.Parse(timeFormat, d.Schedule.Time); err != nil {
		fields["schedule.time"] = "service time must be HH:MM"
	} else if !window.contains(t) {
		fields["schedule.time"] = "service time must be between " + window.Open + " and " + window.Close
	}

	if d.Vehicle.ManufacturerID == "" || d.Vehicle.ModelID == "" {
		fields["vehicle"] = "vehicle manufacturer and model are required"
	}
	if d.Vehicle.FuelTypeID == "" {
		fields["vehicle.fuelType"] = "fuel type is required"
	}

	if strings.TrimSpace(d.Address.Text) == "" {
		fields["address"] = "service address is required"
	}

	switch d.PaymentPath {
	case models.PathGateway, models.PathPayOnDelivery:
	default:
		fields["paymentPath"] = "payment path must be gateway or payOnDelivery"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
