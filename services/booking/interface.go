package booking

import (
	"context"

	"garagio/models"
	"garagio/remote"

	"go.uber.org/zap"
)

// BookingSessionService drives one checkout attempt through the workflow:
// identifier reservation, KYC gate, detail collection, payment path
// execution and terminal resolution.
type BookingSessionService interface {
	// StartCheckout reserves a booking identifier for the chosen offering.
	// When the customer has not completed identity verification the session
	// is still created and a KycRequiredError redirect signal is returned
	// alongside it.
	StartCheckout(ctx context.Context, offering models.ServiceOffering, customerID string) (models.BookingSession, error)

	// ConfirmKyc re-enters the gate check after the verification detour.
	ConfirmKyc(ctx context.Context, bookingID string) (models.BookingSession, error)

	// SubmitDetails validates and submits the collected details under the
	// reserved booking id, then runs the chosen payment path. A non-nil
	// CheckoutIntent means the hosted checkout must open before the flow
	// can resolve.
	SubmitDetails(ctx context.Context, bookingID string, details CheckoutDetails) (models.BookingSession, *CheckoutIntent, error)

	// ResolveGateway applies the hosted checkout's asynchronous result.
	ResolveGateway(ctx context.Context, bookingID string, result GatewayResult) (models.PaymentOutcome, error)

	// ResolveAddress normalizes a free-text location for the booking.
	ResolveAddress(ctx context.Context, query string) (models.AddressInfo, error)

	GetSession(ctx context.Context, bookingID string) (models.BookingSession, error)
	Close(ctx context.Context, bookingID string) error
}

// DefaultBookingSessionService implements BookingSessionService.
type DefaultBookingSessionService struct {
	Reservation remote.ReservationClient
	Identity    remote.IdentityClient
	Geocode     remote.GeocodeClient
	Resolver    PaymentResolver
	Store       SessionStore
	Logger      *zap.Logger
	Window      OperatingWindow
}
