// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry resolves company legal names from CNPJs through the
// BrasilAPI public registry, with a persistent cache and rate limiting.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/GabrielG71/nf-automate/internal/httputil"
	"github.com/GabrielG71/nf-automate/internal/parse"
	"github.com/GabrielG71/nf-automate/pkg/types"
)

// DefaultBaseURL is the BrasilAPI CNPJ endpoint.
const DefaultBaseURL = "https://brasilapi.com.br/api/cnpj/v1/"

// Cache stores registry answers between runs. The store package provides
// the SQLite-backed implementation.
type Cache interface {
	// CompanyName returns the cached name for a CNPJ (digits only);
	// ok is false on a miss or expired entry.
	CompanyName(ctx context.Context, cnpj string) (name string, ok bool, err error)

	// PutCompanyName records an answer; empty name caches a failed lookup.
	PutCompanyName(ctx context.Context, cnpj, name string) error
}

// Client looks up CNPJ registration data.
type Client struct {
	httpClient *http.Client
	cache      Cache
	baseURL    string
	userAgent  string
	token      string
	delay      time.Duration
}

// NewClient builds a registry client. cache may be nil, in which case every
// lookup goes to the API.
func NewClient(cfg types.RegistryConfig, cache Cache) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	delay := cfg.LookupDelay
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		token:      cfg.Token,
		delay:      delay,
	}
}

// registryResponse is the subset of the BrasilAPI CNPJ payload we use.
type registryResponse struct {
	RazaoSocial string `json:"razao_social"`
}

// CompanyName resolves the registered company name for a CNPJ, accepting
// formatted or bare input. Invalid CNPJs are an error before any network
// traffic. Cache hits (including cached negative answers) skip the API
// call and the rate-limit delay.
func (c *Client) CompanyName(ctx context.Context, cnpj string) (string, error) {
	clean := parse.CleanCNPJ(cnpj)
	if !parse.ValidCNPJ(clean) {
		return "", fmt.Errorf("invalid CNPJ %q", cnpj)
	}

	if c.cache != nil {
		name, ok, err := c.cache.CompanyName(ctx, clean)
		if err != nil {
			return "", err
		}
		if ok {
			return name, nil
		}
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(c.delay):
	}

	name, err := c.fetch(ctx, clean)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		if err := c.cache.PutCompanyName(ctx, clean, name); err != nil {
			return "", err
		}
	}
	return name, nil
}

func (c *Client) fetch(ctx context.Context, cnpj string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+cnpj, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return "", fmt.Errorf("registry request for %s: %w", cnpj, err)
	}
	defer resp.Body.Close()

	// 404 means the CNPJ is not in the registry; cache it as a negative
	// answer rather than retrying every run.
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("registry returned HTTP %d for %s", resp.StatusCode, cnpj)
	}

	var payload registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("parsing registry response for %s: %w", cnpj, err)
	}

	return strings.ToUpper(strings.TrimSpace(payload.RazaoSocial)), nil
}
