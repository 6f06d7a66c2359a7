package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"garagio/config"
	"garagio/models"
)

// BookingDetailsPayload is the full detail submission keyed by the
// previously reserved booking identifier.
type BookingDetailsPayload struct {
	OfferingID string              `json:"offeringId"`
	CarSize    models.CarSize      `json:"carSize"`
	CustomerID string              `json:"customerId"`
	Vehicle    models.VehicleInfo  `json:"vehicle"`
	Schedule   models.ScheduleInfo `json:"schedule"`
	Address    models.AddressInfo  `json:"address"`
	PaymentPath models.PaymentPath `json:"paymentPath"`
}

// SubmitResult is the collaborator's acknowledgment. The server-computed
// total is authoritative over any client-cached price.
type SubmitResult struct {
	Status              string  `json:"status"`
	ServerComputedTotal float64 `json:"serverComputedTotal"`
}

// ReservationClient is the booking reservation collaborator.
type ReservationClient interface {
	ReserveBookingID(ctx context.Context, idempotencyKey string) (string, error)
	SubmitBookingDetails(ctx context.Context, bookingID string, payload BookingDetailsPayload) (SubmitResult, error)
}

// HTTPReservationClient implements ReservationClient over HTTP.
type HTTPReservationClient struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPReservationClient() *HTTPReservationClient {
	return &HTTPReservationClient{
		BaseURL: config.AppConfig.ReservationAPIBase,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ReserveBookingID obtains a server-issued booking identifier before any
// other booking detail is known.
func (c *HTTPReservationClient) ReserveBookingID(ctx context.Context, idempotencyKey string) (string, error) {
	const op = "reserve booking id"
	payload, err := json.Marshal(map[string]string{"idempotencyKey": idempotencyKey})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/bookings/reserve", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &ServerRejection{Op: op, Status: resp.StatusCode, Message: decodeRemoteMessage(resp)}
	}

	var body struct {
		BookingID string `json:"bookingId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", op, err)
	}
	if body.BookingID == "" {
		return "", &ServerRejection{Op: op, Status: resp.StatusCode, Message: "empty booking id in response"}
	}
	return body.BookingID, nil
}

// SubmitBookingDetails updates the reserved record with the collected
// details. It must target the bookingID from the original reservation.
func (c *HTTPReservationClient) SubmitBookingDetails(ctx context.Context, bookingID string, payload BookingDetailsPayload) (SubmitResult, error) {
	const op = "submit booking details"
	data, err := json.Marshal(payload)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%s: marshal request: %w", op, err)
	}
	endpoint := c.BaseURL + "/v1/bookings/" + url.PathEscape(bookingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return SubmitResult{}, transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SubmitResult{}, &ServerRejection{Op: op, Status: resp.StatusCode, Message: decodeRemoteMessage(resp)}
	}

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SubmitResult{}, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return result, nil
}
