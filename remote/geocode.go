package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"garagio/config"
	"garagio/models"
)

// GeocodeClient resolves free-text or coordinate input into a normalized
// address for the booking's service location.
type GeocodeClient interface {
	Resolve(ctx context.Context, query string) (models.AddressInfo, error)
}

// HTTPGeocodeClient implements GeocodeClient over HTTP.
type HTTPGeocodeClient struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPGeocodeClient() *HTTPGeocodeClient {
	return &HTTPGeocodeClient{
		BaseURL: config.AppConfig.GeocodeAPIBase,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Resolve normalizes the given location query.
func (c *HTTPGeocodeClient) Resolve(ctx context.Context, query string) (models.AddressInfo, error) {
	const op = "geocode"
	endpoint := c.BaseURL + "/v1/geocode?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.AddressInfo{}, fmt.Errorf("%s: build request: %w", op, err)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return models.AddressInfo{}, transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.AddressInfo{}, &ServerRejection{Op: op, Status: resp.StatusCode, Message: decodeRemoteMessage(resp)}
	}

	var addr models.AddressInfo
	if err := json.NewDecoder(resp.Body).Decode(&addr); err != nil {
		return models.AddressInfo{}, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return addr, nil
}
