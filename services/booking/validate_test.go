package booking

import (
	"errors"
	"testing"

	"garagio/models"
)

func validDetails() CheckoutDetails {
	return CheckoutDetails{
		Vehicle:     models.VehicleInfo{ManufacturerID: "m1", ModelID: "mod1", FuelTypeID: "petrol"},
		Schedule:    models.ScheduleInfo{Date: "2026-09-15", Time: "10:30"},
		Address:     models.AddressInfo{Text: "12 Workshop Lane"},
		PaymentPath: models.PathPayOnDelivery,
	}
}

func TestValidateDetails(t *testing.T) {
	window := OperatingWindow{Open: "09:00", Close: "19:00"}

	tests := []struct {
		name       string
		mutate     func(*CheckoutDetails)
		wantFields []string
	}{
		{
			name:   "valid details",
			mutate: func(d *CheckoutDetails) {},
		},
		{
			name:       "missing date",
			mutate:     func(d *CheckoutDetails) { d.Schedule.Date = "" },
			wantFields: []string{"schedule.date"},
		},
		{
			name:       "malformed date",
			mutate:     func(d *CheckoutDetails) { d.Schedule.Date = "15/09/2026" },
			wantFields: []string{"schedule.date"},
		},
		{
			name:       "time before opening",
			mutate:     func(d *CheckoutDetails) { d.Schedule.Time = "08:59" },
			wantFields: []string{"schedule.time"},
		},
		{
			name:       "time after closing",
			mutate:     func(d *CheckoutDetails) { d.Schedule.Time = "19:01" },
			wantFields: []string{"schedule.time"},
		},
		{
			name:   "time at boundaries accepted",
			mutate: func(d *CheckoutDetails) { d.Schedule.Time = "09:00" },
		},
		{
			name:       "missing vehicle model",
			mutate:     func(d *CheckoutDetails) { d.Vehicle.ModelID = "" },
			wantFields: []string{"vehicle"},
		},
		{
			name:       "missing fuel type",
			mutate:     func(d *CheckoutDetails) { d.Vehicle.FuelTypeID = "" },
			wantFields: []string{"vehicle.fuelType"},
		},
		{
			name:       "blank address",
			mutate:     func(d *CheckoutDetails) { d.Address.Text = "   " },
			wantFields: []string{"address"},
		},
		{
			name:       "unknown payment path",
			mutate:     func(d *CheckoutDetails) { d.PaymentPath = "crypto" },
			wantFields: []string{"paymentPath"},
		},
		{
			name: "all violations reported together",
			mutate: func(d *CheckoutDetails) {
				d.Schedule.Date = ""
				d.Schedule.Time = "23:00"
				d.Vehicle = models.VehicleInfo{}
				d.Address.Text = ""
			},
			wantFields: []string{"schedule.date", "schedule.time", "vehicle", "vehicle.fuelType", "address"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)

			err := validateDetails(d, window)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(validation.Fields) != len(tt.wantFields) {
				t.Errorf("expected %d violations, got %d: %v", len(tt.wantFields), len(validation.Fields), validation.Fields)
			}
			for _, f := range tt.wantFields {
				if _, ok := validation.Fields[f]; !ok {
					t.Errorf("missing violation for %s in %v", f, validation.Fields)
				}
			}
		})
	}
}
