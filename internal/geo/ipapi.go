package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"
)

// APILocator resolves locations against an ip-api style JSON endpoint
// (GET <base>/<ip> returning {"status","city","regionName","country"}).
type APILocator struct {
	baseURL string
	client  *http.Client
}

// NewAPILocator builds a locator for the given base URL, e.g.
// "http://ip-api.com/json".
func NewAPILocator(baseURL string) *APILocator {
	return &APILocator{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 3 * time.Second,
		},
	}
}

type ipAPIResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	City       string `json:"city"`
	RegionName string `json:"regionName"`
	Country    string `json:"country"`
}

func (a *APILocator) Lookup(ctx context.Context, ip string) (*Location, error) {
	if net.ParseIP(ip) == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidIP, ip)
	}
	if IsPrivateIP(ip) {
		return nil, ErrPrivateAddress
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/"+ip, nil)
	if err != nil {
		return nil, fmt.Errorf("geo: build request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo: lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo: lookup returned status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geo: decode response: %w", err)
	}

	if body.Status != "success" {
		return nil, fmt.Errorf("geo: lookup rejected: %s", body.Message)
	}

	return &Location{
		City:    body.City,
		Region:  body.RegionName,
		Country: body.Country,
	}, nil
}
