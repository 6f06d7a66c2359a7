package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"garagio/config"
	"garagio/models"
)

// VariantQuery carries the catalog narrowing parameters for a fetch.
type VariantQuery struct {
	CityID      string
	PriceMin    float64
	PriceMax    float64
	CarSizes    []models.CarSize
	DistanceKm  int
	CategoryIDs []string
}

// CatalogClient is the remote catalog collaborator.
type CatalogClient interface {
	FetchVariants(ctx context.Context, q VariantQuery) ([]models.VariantRecord, error)
	FetchCategoryTree(ctx context.Context) ([]models.CategoryNode, error)
	FetchCities(ctx context.Context) ([]models.City, error)
}

// HTTPCatalogClient talks to the catalog service over HTTP with a bounded
// per-request deadline.
type HTTPCatalogClient struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPCatalogClient builds a catalog client from the loaded config.
func NewHTTPCatalogClient() *HTTPCatalogClient {
	timeout := time.Duration(config.AppConfig.CatalogTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPCatalogClient{
		BaseURL: config.AppConfig.CatalogAPIBase,
		Client:  &http.Client{Timeout: timeout},
	}
}

// FetchVariants returns the flat per-variant price records matching the query.
func (c *HTTPCatalogClient) FetchVariants(ctx context.Context, q VariantQuery) ([]models.VariantRecord, error) {
	params := url.Values{}
	params.Set("cityId", q.CityID)
	params.Set("priceMin", strconv.FormatFloat(q.PriceMin, 'f', -1, 64))
	params.Set("priceMax", strconv.FormatFloat(q.PriceMax, 'f', -1, 64))
	params.Set("distanceKm", strconv.Itoa(q.DistanceKm))
	for _, s := range q.CarSizes {
		params.Add("carSize", string(s))
	}
	for _, id := range q.CategoryIDs {
		params.Add("categoryId", id)
	}

	var records []models.VariantRecord
	if err := c.getJSON(ctx, "fetch variants", "/v1/variants?"+params.Encode(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchCategoryTree returns the two-level category hierarchy.
func (c *HTTPCatalogClient) FetchCategoryTree(ctx context.Context) ([]models.CategoryNode, error) {
	var tree []models.CategoryNode
	if err := c.getJSON(ctx, "fetch category tree", "/v1/categories", &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// FetchCities returns the serviceable city list.
func (c *HTTPCatalogClient) FetchCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := c.getJSON(ctx, "fetch cities", "/v1/cities", &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

func (c *HTTPCatalogClient) getJSON(ctx context.Context, op, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ServerRejection{Op: op, Status: resp.StatusCode, Message: decodeRemoteMessage(resp)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// decodeRemoteMessage pulls the collaborator's error message out of a
// non-success body, if it sent one.
func decodeRemoteMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
