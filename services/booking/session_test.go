package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"garagio/models"
	"garagio/remote"

	"go.uber.org/zap"
)

// Mock collaborators for testing

type mockReservationClient struct {
	reserveFunc func(ctx context.Context, idempotencyKey string) (string, error)
	submitFunc  func(ctx context.Context, bookingID string, payload remote.BookingDetailsPayload) (remote.SubmitResult, error)
	submitted   []string
}

func (m *mockReservationClient) ReserveBookingID(ctx context.Context, idempotencyKey string) (string, error) {
	if m.reserveFunc != nil {
		return m.reserveFunc(ctx, idempotencyKey)
	}
	return "bk-100", nil
}

func (m *mockReservationClient) SubmitBookingDetails(ctx context.Context, bookingID string, payload remote.BookingDetailsPayload) (remote.SubmitResult, error) {
	m.submitted = append(m.submitted, bookingID)
	if m.submitFunc != nil {
		return m.submitFunc(ctx, bookingID, payload)
	}
	return remote.SubmitResult{Status: "accepted", ServerComputedTotal: 999}, nil
}

type mockIdentityClient struct {
	kycFunc func(ctx context.Context, customerID string) (bool, error)
}

func (m *mockIdentityClient) KycStatus(ctx context.Context, customerID string) (bool, error) {
	if m.kycFunc != nil {
		return m.kycFunc(ctx, customerID)
	}
	return true, nil
}

type mockGeocodeClient struct {
	resolveFunc func(ctx context.Context, query string) (models.AddressInfo, error)
}

func (m *mockGeocodeClient) Resolve(ctx context.Context, query string) (models.AddressInfo, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, query)
	}
	return models.AddressInfo{Text: query}, nil
}

// memStore is an in-memory SessionStore.
type memStore struct {
	sessions map[string]models.BookingSession
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]models.BookingSession{}}
}

func (m *memStore) Save(ctx context.Context, session models.BookingSession) error {
	m.sessions[session.BookingID] = session
	return nil
}

func (m *memStore) Get(ctx context.Context, bookingID string) (models.BookingSession, error) {
	s, ok := m.sessions[bookingID]
	if !ok {
		return models.BookingSession{}, &SessionNotFoundError{BookingID: bookingID}
	}
	return s, nil
}

func (m *memStore) Delete(ctx context.Context, bookingID string) error {
	delete(m.sessions, bookingID)
	return nil
}

// mockResolver lets tests steer the gateway path without the real gateway.
type mockResolver struct {
	beginFunc func(ctx context.Context, session models.BookingSession, buyer BuyerInfo) (PaymentResolution, error)
}

func (m *mockResolver) Begin(ctx context.Context, session models.BookingSession, buyer BuyerInfo) (PaymentResolution, error) {
	if m.beginFunc != nil {
		return m.beginFunc(ctx, session, buyer)
	}
	if session.PaymentPath == models.PathPayOnDelivery {
		return PaymentResolution{State: models.StatePaymentConfirmed}, nil
	}
	return PaymentResolution{
		State:    models.StatePaymentPending,
		Checkout: &CheckoutIntent{GatewaySessionID: "cs_test", CheckoutURL: "https://checkout.test/cs_test"},
	}, nil
}

func (m *mockResolver) Reconcile(session models.BookingSession, result GatewayResult) PaymentResolution {
	// Same reconciliation rules as the real resolver.
	return (&StripeResolver{Logger: zap.NewNop(), Currency: "inr"}).Reconcile(session, result)
}

func testOffering() models.ServiceOffering {
	return models.ServiceOffering{
		ID:   "off-1",
		Name: "Full Detailing",
		PricingBySize: map[models.CarSize]models.PriceTag{
			models.SizeSedan: {MRP: 1200, Offer: 1000},
		},
		AvailableSizes: []models.CarSize{models.SizeSedan},
		SelectedSize:   models.SizeSedan,
		DisplayPrice:   1000,
	}
}

func newTestService(reservation *mockReservationClient, identity *mockIdentityClient, store *memStore) *DefaultBookingSessionService {
	return &DefaultBookingSessionService{
		Reservation: reservation,
		Identity:    identity,
		Geocode:     &mockGeocodeClient{},
		Resolver:    &mockResolver{},
		Store:       store,
		Logger:      zap.NewNop(),
		Window:      OperatingWindow{Open: "09:00", Close: "19:00"},
	}
}

func TestStartCheckout_ReservesWithCompositeKey(t *testing.T) {
	var capturedKey string
	reservation := &mockReservationClient{
		reserveFunc: func(ctx context.Context, key string) (string, error) {
			capturedKey = key
			return "bk-7", nil
		},
	}
	store := newMemStore()
	svc := newTestService(reservation, &mockIdentityClient{}, store)

	session, err := svc.StartCheckout(context.Background(), testOffering(), "cust-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKey := fmt.Sprintf("off-1_%d", models.SizeSedan.Ordinal())
	if capturedKey != wantKey {
		t.Errorf("idempotency key = %q, want %q", capturedKey, wantKey)
	}
	if session.State != models.StateIDReserved {
		t.Errorf("state = %s, want idReserved", session.State)
	}
	if session.BookingID != "bk-7" {
		t.Errorf("bookingId = %s, want bk-7", session.BookingID)
	}
	if _, ok := store.sessions["bk-7"]; !ok {
		t.Error("session not persisted")
	}
}

func TestStartCheckout_ReservationFailureIsDistinct(t *testing.T) {
	reservation := &mockReservationClient{
		reserveFunc: func(ctx context.Context, key string) (string, error) {
			return "", &remote.NetworkError{Op: "reserve booking id", Err: context.DeadlineExceeded}
		},
	}
	svc := newTestService(reservation, &mockIdentityClient{}, newMemStore())

	_, err := svc.StartCheckout(context.Background(), testOffering(), "cust-1")
	var resErr *ReservationError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ReservationError, got %v", err)
	}
}

func TestKycGate_BlocksDetailSubmission(t *testing.T) {
	identity := &mockIdentityClient{
		kycFunc: func(ctx context.Context, customerID string) (bool, error) { return false, nil },
	}
	store := newMemStore()
	svc := newTestService(&mockReservationClient{}, identity, store)

	session, err := svc.StartCheckout(context.Background(), testOffering(), "cust-1")
	var kyc *KycRequiredError
	if !errors.As(err, &kyc) {
		t.Fatalf("expected KycRequiredError redirect signal, got %v", err)
	}
	if session.State != models.StateIDReserved {
		t.Errorf("redirect must not advance state, got %s", session.State)
	}

	// The gate holds at submission too.
	_, _, err = svc.SubmitDetails(context.Background(), session.BookingID, validDetails())
	if !errors.As(err, &kyc) {
		t.Fatalf("expected KycRequiredError at submission, got %v", err)
	}
	stored := store.sessions[session.BookingID]
	if stored.State != models.StateIDReserved {
		t.Errorf("gate violation advanced state to %s", stored.State)
	}
}

func TestConfirmKyc_ReentersGate(t *testing.T) {
	verified := false
	identity := &mockIdentityClient{
		kycFunc: func(ctx context.Context, customerID string) (bool, error) { return verified, nil },
	}
	store := newMemStore()
	svc := newTestService(&mockReservationClient{}, identity, store)

	session, _ := svc.StartCheckout(context.Background(), testOffering(), "cust-1")

	if _, err := svc.ConfirmKyc(context.Background(), session.BookingID); err == nil {
		t.Fatal("expected redirect signal while unverified")
	}

	verified = true
	updated, err := svc.ConfirmKyc(context.Background(), session.BookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.KycVerified {
		t.Error("kycVerified not recorded")
	}
}

func TestSubmitDetails_PayOnDeliveryConfirmsDirectly(t *testing.T) {
	reservation := &mockReservationClient{}
	store := newMemStore()
	svc := newTestService(reservation, &mockIdentityClient{}, store)

	session, err := svc.StartCheckout(context.Background(), testOffering(), "cust-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, checkout, err := svc.SubmitDetails(context.Background(), session.BookingID, validDetails())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout != nil {
		t.Error("pay-on-delivery must not open a hosted checkout")
	}
	if updated.State != models.StatePaymentConfirmed {
		t.Errorf("state = %s, want paymentConfirmed", updated.State)
	}
	if updated.PaymentRef != "" {
		t.Errorf("pay-on-delivery must have no gateway reference, got %q", updated.PaymentRef)
	}
	if updated.ServerTotal != 999 {
		t.Errorf("server-computed total not trusted, got %.0f", updated.ServerTotal)
	}
	// Submission targets the reserved booking id, not a new one.
	if len(reservation.submitted) != 1 || reservation.submitted[0] != session.BookingID {
		t.Errorf("details submitted under %v, want [%s]", reservation.submitted, session.BookingID)
	}
}

func TestSubmitDetails_ValidationReportsAllViolations(t *testing.T) {
	reservation := &mockReservationClient{}
	svc := newTestService(reservation, &mockIdentityClient{}, newMemStore())
	session, _ := svc.StartCheckout(context.Background(), testOffering(), "cust-1")

	bad := validDetails()
	bad.Schedule.Time = "22:00"
	bad.Address.Text = ""

	_, _, err := svc.SubmitDetails(context.Background(), session.BookingID, bad)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validation.Fields) != 2 {
		t.Errorf("expected both violations reported, got %v", validation.Fields)
	}
	if len(reservation.submitted) != 0 {
		t.Error("validation failures must never reach the network")
	}
}

func TestGatewayPath_CancellationAbandonsWithoutRef(t *testing.T) {
	store := newMemStore()
	svc := newTestService(&mockReservationClient{}, &mockIdentityClient{}, store)
	session, _ := svc.StartCheckout(context.Background(), testOffering(), "cust-1")

	details := validDetails()
	details.PaymentPath = models.PathGateway
	updated, checkout, err := svc.SubmitDetails(context.Background(), session.BookingID, details)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout == nil {
		t.Fatal("gateway path must open a hosted checkout")
	}
	if updated.State != models.StatePaymentPending {
		t.Fatalf("state = %s, want paymentPending", updated.State)
	}

	outcome, err := svc.ResolveGateway(context.Background(), session.BookingID, GatewayResult{Outcome: "cancelled"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.PaymentRef != nil {
		t.Errorf("abandoned payment must carry a nil reference, got %v", *outcome.PaymentRef)
	}
	if outcome.BookingID != session.BookingID {
		t.Errorf("bookingId changed from %s to %s", session.BookingID, outcome.BookingID)
	}
	if store.sessions[session.BookingID].State != models.StatePaymentAbandoned {
		t.Errorf("state = %s, want paymentAbandoned", store.sessions[session.BookingID].State)
	}
}

func TestGatewayPath_SuccessPersistsGatewayReference(t *testing.T) {
	store := newMemStore()
	svc := newTestService(&mockReservationClient{}, &mockIdentityClient{}, store)
	session, _ := svc.StartCheckout(context.Background(), testOffering(), "cust-1")

	details := validDetails()
	details.PaymentPath = models.PathGateway
	if _, _, err := svc.SubmitDetails(context.Background(), session.BookingID, details); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := svc.ResolveGateway(context.Background(), session.BookingID, GatewayResult{
		Outcome:    "success",
		PaymentRef: "pay_abc123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.PaymentRef == nil || *outcome.PaymentRef != "pay_abc123" {
		t.Errorf("gateway reference not persisted, got %v", outcome.PaymentRef)
	}
	if store.sessions[session.BookingID].State != models.StatePaymentConfirmed {
		t.Errorf("state = %s, want paymentConfirmed", store.sessions[session.BookingID].State)
	}
}

func TestResolveGateway_WrongStateRejected(t *testing.T) {
	store := newMemStore()
	svc := newTestService(&mockReservationClient{}, &mockIdentityClient{}, store)
	session, _ := svc.StartCheckout(context.Background(), testOffering(), "cust-1")

	_, err := svc.ResolveGateway(context.Background(), session.BookingID, GatewayResult{Outcome: "success"})
	var state *StateError
	if !errors.As(err, &state) {
		t.Fatalf("expected StateError before payment is pending, got %v", err)
	}
}

func TestClose_DestroysSession(t *testing.T) {
	store := newMemStore()
	svc := newTestService(&mockReservationClient{}, &mockIdentityClient{}, store)
	session, _ := svc.StartCheckout(context.Background(), testOffering(), "cust-1")

	if err := svc.Close(context.Background(), session.BookingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.sessions[session.BookingID]; ok {
		t.Error("session survived close")
	}

	// Closing an already-gone session is a no-op.
	if err := svc.Close(context.Background(), session.BookingID); err != nil {
		t.Errorf("closing a missing session should be silent, got %v", err)
	}
}
