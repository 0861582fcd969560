package barcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound means the upstream API has no product for the barcode.
var ErrNotFound = errors.New("barcode not found in external API")

// StatusError is a non-2xx answer from the lookup API. The upstream status
// code is kept for diagnostics.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lookup API returned status %d", e.Code)
}

// Config holds the external lookup API endpoint and key.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client calls the third-party barcode data API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Product is one match from the lookup API.
type Product struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Brand       string         `json:"brand"`
	Size        string         `json:"size"`
	Images      []string       `json:"images"`
	Stores      []ProductStore `json:"stores"`
}

// ProductStore is one store's observed price for a product. Price comes back
// as a string and may be empty or malformed.
type ProductStore struct {
	Name       string `json:"name"`
	Price      string `json:"price"`
	LastUpdate string `json:"last_update"`
}

type lookupResponse struct {
	Products []Product `json:"products"`
}

// Lookup fetches product data for a barcode. A non-2xx answer is returned as
// *StatusError; transport failures (including the 10s timeout) come back as
// wrapped errors.
func (c *Client) Lookup(ctx context.Context, barcode string) ([]Product, error) {
	fullURL := fmt.Sprintf("%s?barcode=%s&formatted=y&key=%s",
		c.cfg.BaseURL, url.QueryEscape(barcode), url.QueryEscape(c.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var lr lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	return lr.Products, nil
}
