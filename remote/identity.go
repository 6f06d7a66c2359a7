package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"garagio/config"
)

// IdentityClient is the identity collaborator. Credential checks live in
// the auth middleware; this client answers whether the customer has
// completed identity verification.
type IdentityClient interface {
	KycStatus(ctx context.Context, customerID string) (bool, error)
}

// HTTPIdentityClient implements IdentityClient over HTTP.
type HTTPIdentityClient struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPIdentityClient() *HTTPIdentityClient {
	return &HTTPIdentityClient{
		BaseURL: config.AppConfig.IdentityAPIBase,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// KycStatus returns whether the customer has completed identity verification.
func (c *HTTPIdentityClient) KycStatus(ctx context.Context, customerID string) (bool, error) {
	const op = "kyc status"
	endpoint := c.BaseURL + "/v1/kyc/" + url.PathEscape(customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("%s: build request: %w", op, err)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return false, transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, &ServerRejection{Op: op, Status: resp.StatusCode, Message: decodeRemoteMessage(resp)}
	}

	var body struct {
		Verified bool `json:"verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return body.Verified, nil
}
