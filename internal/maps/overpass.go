package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"
const DefaultTimeout = QueryTimeoutSeconds * time.Second

const userAgent = "arogyapath/1.0 (+nearby accessible places)"

// OverpassClient sends one query per call. It neither caches nor retries;
// callers decide what a failure means.
type OverpassClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func (c *OverpassClient) Query(ctx context.Context, query string) ([]Element, error) {
	ctx, cancel := context.WithTimeout(ctx, c.effectiveTimeout())
	defer cancel()

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	for _, el := range decoded.Elements {
		if el.Type == ElementNode && (el.Lat == nil || el.Lon == nil) {
			return nil, fmt.Errorf("decode overpass response: node %d has no coordinates", el.ID)
		}
	}

	return decoded.Elements, nil
}

func (c *OverpassClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.effectiveTimeout()}
}

func (c *OverpassClient) effectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c *OverpassClient) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultOverpassURL
}

type overpassResponse struct {
	Elements []Element `json:"elements"`
}
