package simswap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/simbank/logger"
	"github.com/kbukum/simbank/observability"
)

// Client calls the CAMARA SIM Swap API on behalf of a logged-in user.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a SIM Swap client.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simswap config: %w", err)
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.WithComponent("simswap"),
	}, nil
}

type retrieveDateRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type retrieveDateResponse struct {
	LatestSimChange string `json:"latestSimChange"`
}

// RetrieveDate returns when the SIM behind phoneNumber was last changed.
// Returns the zero time when the provider reports no swap date. The access
// token must carry the sim-swap scope.
func (c *Client) RetrieveDate(ctx context.Context, accessToken, phoneNumber string) (time.Time, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSimSwapCheck)
	defer span.End()

	body, err := json.Marshal(retrieveDateRequest{PhoneNumber: phoneNumber})
	if err != nil {
		return time.Time{}, fmt.Errorf("simswap request marshal: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/retrieve-date"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return time.Time{}, fmt.Errorf("simswap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("simswap call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Error("SIM swap API returned non-success status", logger.Fields(
			"status", resp.StatusCode,
			"body", string(raw),
		))
		return time.Time{}, fmt.Errorf("simswap status %d", resp.StatusCode)
	}

	var out retrieveDateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return time.Time{}, fmt.Errorf("simswap response decode: %w", err)
	}
	if out.LatestSimChange == "" {
		return time.Time{}, nil
	}

	swapped, err := time.Parse(time.RFC3339, out.LatestSimChange)
	if err != nil {
		return time.Time{}, fmt.Errorf("simswap date parse %q: %w", out.LatestSimChange, err)
	}
	return swapped, nil
}
