package fingerprint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the fingerprint middleware that owns the physical reader.
// It implements both the Device session used by the Sensor and the Matcher
// used by the identification scan.
type Client struct {
	baseURL   string
	http      *http.Client
	logger    zerolog.Logger
	connected atomic.Bool
}

// ClientConfig groups middleware client options.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

type middlewareResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Template  string `json:"template"`
	ImageData string `json:"imageData"`
	Quality   int    `json:"quality"`
	Error     string `json:"error"`
}

// NewClient builds a middleware client.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("fingerprint middleware base url must not be empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		logger:  cfg.Logger.With().Str("component", "fingerprint_client").Logger(),
	}, nil
}

type deviceInfoResponse struct {
	Success     bool   `json:"success"`
	Description string `json:"description"`
	Serial      string `json:"serialNumber"`
	Error       string `json:"error"`
}

// Open probes the middleware's device-info endpoint and records reachability.
func (c *Client) Open(ctx context.Context) error {
	var resp deviceInfoResponse
	if err := c.get(ctx, "/api/fingerprint/device-info", &resp); err != nil {
		c.connected.Store(false)
		return err
	}
	if !resp.Success {
		c.connected.Store(false)
		return fmt.Errorf("reader not initialized: %s", resp.Error)
	}

	c.connected.Store(true)
	return nil
}

// Close marks the session closed. The middleware owns the physical handle,
// so there is nothing to tear down on this side.
func (c *Client) Close() error {
	c.connected.Store(false)
	return nil
}

// Connected reports the result of the last device probe.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// CaptureOnce performs a single capture attempt. A middleware timeout or a
// low-quality read reports ok=false so the sensor loop polls again.
func (c *Client) CaptureOnce(ctx context.Context) (Sample, bool, error) {
	var resp middlewareResponse
	if err := c.post(ctx, "/api/fingerprint/capture", nil, &resp); err != nil {
		return Sample{}, false, err
	}

	if !resp.Success {
		switch resp.Error {
		case "Timeout", "LowQuality":
			return Sample{}, false, nil
		}
		if strings.Contains(resp.Error, "No reader") {
			c.connected.Store(false)
			return Sample{}, false, fmt.Errorf("%w: %s", ErrDeviceUnavailable, resp.Error)
		}
		return Sample{}, false, fmt.Errorf("capture failed: %s", resp.Message)
	}

	return Sample{Template: resp.Template, Image: resp.ImageData, Quality: resp.Quality}, true, nil
}

// Match compares two serialized templates. The FAR threshold is applied by
// the middleware; a non-match is success=false with no error field.
func (c *Client) Match(ctx context.Context, probe, candidate string) (bool, error) {
	payload := map[string]string{"Template1": probe, "Template2": candidate}

	var resp middlewareResponse
	if err := c.post(ctx, "/api/fingerprint/compare", payload, &resp); err != nil {
		return false, err
	}
	if resp.Error != "" {
		return false, fmt.Errorf("compare failed: %s", resp.Error)
	}

	return resp.Success, nil
}

// GetSettings reads the matcher configuration from the middleware.
func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var raw struct {
		FARDivisor int `json:"farDivisor"`
		MinQuality int `json:"minAcceptableQuality"`
	}
	if err := c.get(ctx, "/api/fingerprint/settings", &raw); err != nil {
		return Settings{}, err
	}

	return Settings{FARDivisor: raw.FARDivisor, MinQuality: raw.MinQuality}, nil
}

// UpdateSettings pushes matcher configuration to the middleware and returns
// the applied values.
func (c *Client) UpdateSettings(ctx context.Context, settings Settings) (Settings, error) {
	payload := map[string]int{
		"farDivisor":           settings.FARDivisor,
		"minAcceptableQuality": settings.MinQuality,
	}

	var raw struct {
		FARDivisor int `json:"farDivisor"`
		MinQuality int `json:"minAcceptableQuality"`
	}
	if err := c.post(ctx, "/api/fingerprint/settings", payload, &raw); err != nil {
		return Settings{}, err
	}

	return Settings{FARDivisor: raw.FARDivisor, MinQuality: raw.MinQuality}, nil
}

// Info returns a description of the attached reader.
func (c *Client) Info(ctx context.Context) (DeviceInfo, error) {
	var resp deviceInfoResponse
	if err := c.get(ctx, "/api/fingerprint/device-info", &resp); err != nil {
		return DeviceInfo{}, err
	}

	return DeviceInfo{
		Description:  resp.Description,
		SerialNumber: resp.Serial,
		Connected:    resp.Success,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("middleware request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("middleware returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
