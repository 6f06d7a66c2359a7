package booking

import (
	"context"
	"fmt"
	"time"

	"garagio/models"
	"garagio/remote"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewBookingSessionService wires the controller with its collaborators.
func NewBookingSessionService(
	reservation remote.ReservationClient,
	identity remote.IdentityClient,
	geocode remote.GeocodeClient,
	resolver PaymentResolver,
	store SessionStore,
	logger *zap.Logger,
) *DefaultBookingSessionService {
	return &DefaultBookingSessionService{
		Reservation: reservation,
		Identity:    identity,
		Geocode:     geocode,
		Resolver:    resolver,
		Store:       store,
		Logger:      logger,
		Window:      WindowFromConfig(),
	}
}

// StartCheckout fires Draft -> IdReserved as soon as an offering is chosen.
// Reservation failure is terminal for the session and surfaces as a
// distinct ReservationError.
func (s *DefaultBookingSessionService) StartCheckout(ctx context.Context, offering models.ServiceOffering, customerID string) (models.BookingSession, error) {
	idempotencyKey := fmt.Sprintf("%s_%d", offering.ID, offering.SelectedSize.Ordinal())
	attemptID := uuid.New().String()

	bookingID, err := s.Reservation.ReserveBookingID(ctx, idempotencyKey)
	if err != nil {
		s.Logger.Warn("booking id reservation failed",
			zap.String("attemptId", attemptID),
			zap.String("offeringId", offering.ID),
			zap.Error(err))
		return models.BookingSession{}, &ReservationError{Err: err}
	}

	now := time.Now()
	session := models.BookingSession{
		BookingID:  bookingID,
		AttemptID:  attemptID,
		Offering:   offering,
		CustomerID: customerID,
		State:      models.StateIDReserved,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Best-effort gate probe; the hard check happens again before details.
	verified, kycErr := s.Identity.KycStatus(ctx, customerID)
	if kycErr == nil {
		session.KycVerified = verified
	}

	if err := s.Store.Save(ctx, session); err != nil {
		return models.BookingSession{}, err
	}

	s.Logger.Info("booking id reserved",
		zap.String("bookingId", bookingID),
		zap.String("attemptId", attemptID),
		zap.String("offeringId", offering.ID))

	if !session.KycVerified {
		return session, &KycRequiredError{CustomerID: customerID}
	}
	return session, nil
}

// ConfirmKyc re-runs the gate check after the verification detour and
// records the result on the session.
func (s *DefaultBookingSessionService) ConfirmKyc(ctx context.Context, bookingID string) (models.BookingSession, error) {
	session, err := s.Store.Get(ctx, bookingID)
	if err != nil {
		return models.BookingSession{}, err
	}

	verified, err := s.Identity.KycStatus(ctx, session.CustomerID)
	if err != nil {
		return session, translateCollabErr("kyc status", err)
	}
	session.KycVerified = verified
	session.UpdatedAt = time.Now()
	if err := s.Store.Save(ctx, session); err != nil {
		return models.BookingSession{}, err
	}
	if !verified {
		return session, &KycRequiredError{CustomerID: session.CustomerID}
	}
	return session, nil
}

// SubmitDetails is the IdReserved -> DetailsComplete -> PaymentPending leg.
// The KYC gate is a hard precondition; validation reports every violation
// at once; the submission targets the bookingID reserved in step one.
func (s *DefaultBookingSessionService) SubmitDetails(ctx context.Context, bookingID string, details CheckoutDetails) (models.BookingSession, *CheckoutIntent, error) {
	session, err := s.Store.Get(ctx, bookingID)
	if err != nil {
		return models.BookingSession{}, nil, err
	}
	if session.State != models.StateIDReserved && session.State != models.StateDetailsComplete {
		return session, nil, &StateError{Op: "submit details", State: session.State}
	}

	if !session.KycVerified {
		verified, kycErr := s.Identity.KycStatus(ctx, session.CustomerID)
		if kycErr != nil {
			return session, nil, translateCollabErr("kyc status", kycErr)
		}
		if !verified {
			return session, nil, &KycRequiredError{CustomerID: session.CustomerID}
		}
		session.KycVerified = true
	}

	if err := validateDetails(details, s.Window); err != nil {
		return session, nil, err
	}

	session.Vehicle = details.Vehicle
	session.Schedule = details.Schedule
	session.Address = details.Address
	session.PaymentPath = details.PaymentPath
	session.State = models.StateDetailsComplete
	session.UpdatedAt = time.Now()
	if err := s.Store.Save(ctx, session); err != nil {
		return models.BookingSession{}, nil, err
	}

	result, err := s.Reservation.SubmitBookingDetails(ctx, session.BookingID, remote.BookingDetailsPayload{
		OfferingID:  session.Offering.ID,
		CarSize:     session.Offering.SelectedSize,
		CustomerID:  session.CustomerID,
		Vehicle:     session.Vehicle,
		Schedule:    session.Schedule,
		Address:     session.Address,
		PaymentPath: session.PaymentPath,
	})
	if err != nil {
		return session, nil, translateCollabErr("submit booking details", err)
	}

	session.ServerTotal = result.ServerComputedTotal
	session.State = models.StatePaymentPending

	resolution, err := s.Resolver.Begin(ctx, session, details.Contact)
	if err != nil {
		session.State = models.StatePaymentFailed
		session.UpdatedAt = time.Now()
		if saveErr := s.Store.Save(ctx, session); saveErr != nil {
			s.Logger.Error("failed to persist payment failure", zap.Error(saveErr))
		}
		return session, nil, fmt.Errorf("payment path failed to start: %w", err)
	}

	session.State = resolution.State
	session.PaymentRef = resolution.PaymentRef
	session.UpdatedAt = time.Now()
	if err := s.Store.Save(ctx, session); err != nil {
		return models.BookingSession{}, nil, err
	}

	s.Logger.Info("booking details submitted",
		zap.String("bookingId", session.BookingID),
		zap.String("paymentPath", string(session.PaymentPath)),
		zap.String("state", string(session.State)))
	return session, resolution.Checkout, nil
}

// ResolveGateway applies the hosted checkout callback. The reserved
// bookingID is never released or retried here; a fresh attempt starts its
// own reservation.
func (s *DefaultBookingSessionService) ResolveGateway(ctx context.Context, bookingID string, result GatewayResult) (models.PaymentOutcome, error) {
	session, err := s.Store.Get(ctx, bookingID)
	if err != nil {
		return models.PaymentOutcome{}, err
	}
	if session.State != models.StatePaymentPending || session.PaymentPath != models.PathGateway {
		return models.PaymentOutcome{}, &StateError{Op: "resolve gateway result", State: session.State}
	}

	resolution := s.Resolver.Reconcile(session, result)
	session.State = resolution.State
	session.PaymentRef = resolution.PaymentRef
	session.UpdatedAt = time.Now()
	if err := s.Store.Save(ctx, session); err != nil {
		return models.PaymentOutcome{}, err
	}

	s.Logger.Info("gateway result reconciled",
		zap.String("bookingId", session.BookingID),
		zap.String("state", string(session.State)))
	return outcomeOf(session), nil
}

// ResolveAddress normalizes a free-text location via the geocoding
// collaborator.
func (s *DefaultBookingSessionService) ResolveAddress(ctx context.Context, query string) (models.AddressInfo, error) {
	addr, err := s.Geocode.Resolve(ctx, query)
	if err != nil {
		return models.AddressInfo{}, translateCollabErr("geocode", err)
	}
	return addr, nil
}

// GetSession returns the current session state.
func (s *DefaultBookingSessionService) GetSession(ctx context.Context, bookingID string) (models.BookingSession, error) {
	return s.Store.Get(ctx, bookingID)
}

// Close follows navigation away from the flow: the session is destroyed
// whatever state it reached.
func (s *DefaultBookingSessionService) Close(ctx context.Context, bookingID string) error {
	session, err := s.Store.Get(ctx, bookingID)
	if err != nil {
		if _, notFound := err.(*SessionNotFoundError); notFound {
			return nil
		}
		return err
	}
	session.State = models.StateClosed
	s.Logger.Info("booking session closed", zap.String("bookingId", bookingID))
	return s.Store.Delete(ctx, bookingID)
}

// outcomeOf reduces a resolved session to the single terminal shape both
// payment paths share.
func outcomeOf(session models.BookingSession) models.PaymentOutcome {
	out := models.PaymentOutcome{
		BookingID:   session.BookingID,
		PaymentPath: session.PaymentPath,
	}
	if session.PaymentRef != "" {
		ref := session.PaymentRef
		out.PaymentRef = &ref
	}
	return out
}

// translateCollabErr keeps the taxonomy closed at the controller boundary:
// transport errors never leak upward unclassified.
func translateCollabErr(op string, err error) error {
	if remote.IsNetworkError(err) || remote.IsServerRejection(err) {
		return err
	}
	return &remote.NetworkError{Op: op, Err: err}
}
