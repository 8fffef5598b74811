package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"eventhorizon/internal/domain"
)

const baseURL = "https://restcountries.com/v3.1"

type restCountriesClient struct {
	client *http.Client
}

// NewRESTClient returns a CountryLookup backed by the REST Countries API.
func NewRESTClient(client *http.Client) domain.CountryLookup {
	if client == nil {
		client = http.DefaultClient
	}
	return &restCountriesClient{client: client}
}

type countryResponse struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2  string `json:"cca2"`
	Flags struct {
		PNG string `json:"png"`
	} `json:"flags"`
}

func (c *restCountriesClient) ByCode(ctx context.Context, code string) (*domain.Country, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	url := fmt.Sprintf("%s/alpha/%s?fields=name,cca2,flags", baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch country: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("countries api returned status: %d", resp.StatusCode)
	}

	var data countryResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode countries response: %w", err)
	}
	return &domain.Country{
		Name: data.Name.Common,
		Code: data.CCA2,
		Flag: data.Flags.PNG,
	}, nil
}
