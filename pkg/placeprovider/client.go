package placeprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://places.googleapis.com/v1"
	searchFieldMask            = "places.id,places.displayName,places.formattedAddress,places.location,places.addressComponents,places.businessStatus,places.userRatingCount"
	detailsFieldMask           = "id,displayName,formattedAddress,location,addressComponents,businessStatus,userRatingCount"
	errorBodyReadLimit   int64 = 1024
	businessStatusOpen         = "OPERATIONAL"
)

var (
	errAPIKeyRequired = errors.New("places api key is required")
)

// Client wraps the Google Places APIs used to import and refresh place records.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Places base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the provider client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// PlaceRecord is the normalized provider payload for a single place.
type PlaceRecord struct {
	ProviderID    string
	Name          string
	Address       string
	City          string
	State         string
	Zip           string
	Lat           float64
	Lng           float64
	IsOperational bool
	RatingsCount  int64
}

// SearchText finds places matching a free-form query, e.g. "coffee in austin tx".
func (c *Client) SearchText(ctx context.Context, query string) ([]PlaceRecord, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "place provider client not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}

	payload, err := json.Marshal(map[string]string{"textQuery": query})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal search request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("places:searchText"), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build search request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", searchFieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute search request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "search request failed")
	}

	var apiResp struct {
		Places []placePayload `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode search response")
	}

	records := make([]PlaceRecord, 0, len(apiResp.Places))
	for _, p := range apiResp.Places {
		records = append(records, p.toRecord())
	}

	return records, nil
}

// ResolvePlace fetches the canonical place data for the provided provider place ID.
func (c *Client) ResolvePlace(ctx context.Context, placeID string) (*PlaceRecord, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "place provider client not configured")
	}
	trimmed := strings.TrimSpace(placeID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "place ID is required")
	}

	endpoint := fmt.Sprintf("%s/places/%s", strings.TrimRight(c.baseURL, "/"), url.PathEscape(trimmed))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build place resolve request")
	}

	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", detailsFieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute place resolve request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "place resolve request failed")
	}

	var p placePayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode place resolve response")
	}

	record := p.toRecord()
	return &record, nil
}

type placePayload struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	Location         struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	AddressComponents []struct {
		LongName  string   `json:"longText"`
		ShortName string   `json:"shortText"`
		Types     []string `json:"types"`
	} `json:"addressComponents"`
	BusinessStatus  string `json:"businessStatus"`
	UserRatingCount int64  `json:"userRatingCount"`
}

func (p placePayload) toRecord() PlaceRecord {
	record := PlaceRecord{
		ProviderID:    p.ID,
		Name:          p.DisplayName.Text,
		Address:       p.FormattedAddress,
		Lat:           p.Location.Latitude,
		Lng:           p.Location.Longitude,
		IsOperational: p.BusinessStatus == "" || p.BusinessStatus == businessStatusOpen,
		RatingsCount:  p.UserRatingCount,
	}

	for _, comp := range p.AddressComponents {
		for _, typ := range comp.Types {
			switch typ {
			case "locality":
				record.City = comp.LongName
			case "administrative_area_level_1":
				record.State = comp.ShortName
			case "postal_code":
				record.Zip = comp.LongName
			}
		}
	}

	return record
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
