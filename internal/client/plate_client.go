package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"plate-service/internal/config"
	"plate-service/internal/service"
)

var (
	ErrNotConfigured = errors.New("plate service URL is not configured")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
)

// APIError is a non-2xx answer of the plate service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("plate service returned status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrInvalidInput:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}

type PlateClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

func NewPlateClient(cfg *config.Config) *PlateClient {
	return &PlateClient{
		baseURL: strings.TrimRight(cfg.Remote.PlateServiceURL, "/"),
		token:   cfg.Remote.PlateServiceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
	}
}

type plateRequest struct {
	Plate        string `json:"plate"`
	Country      string `json:"country"`
	IgnoreDashes bool   `json:"ignore_dashes"`
}

func (c *PlateClient) IsValidPlate(ctx context.Context, plate, country string, ignoreDashes bool) (bool, error) {
	var result service.ValidateResult
	err := c.do(ctx, http.MethodPost, "/plates/validate", plateRequest{plate, country, ignoreDashes}, &result)
	if err != nil {
		return false, err
	}
	return result.Valid, nil
}

func (c *PlateClient) FormatPlate(ctx context.Context, plate, country string, ignoreDashes bool) (*service.FormatResult, error) {
	var result service.FormatResult
	err := c.do(ctx, http.MethodPost, "/plates/format", plateRequest{plate, country, ignoreDashes}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *PlateClient) FindSideCode(ctx context.Context, plate, country string, ignoreDashes bool) (string, error) {
	var result service.SideCodeResult
	err := c.do(ctx, http.MethodPost, "/plates/sidecode", plateRequest{plate, country, ignoreDashes}, &result)
	if err != nil {
		return "", err
	}
	return result.SideCode, nil
}

func (c *PlateClient) Countries(ctx context.Context) ([]string, error) {
	var countries []string
	if err := c.do(ctx, http.MethodGet, "/plates/countries", nil, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// do sends the request and retries on transport errors only. Error statuses
// are final.
func (c *PlateClient) do(ctx context.Context, method, path string, body any, out any) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := c.newRequest(ctx, method, path, payload)
		if err != nil {
			return err
		}

		resp, lastErr = c.httpClient.Do(req)
		if lastErr == nil {
			break
		}
		if attempt == c.maxRetries-1 {
			return fmt.Errorf("failed to execute request after %d attempts: %w", c.maxRetries, lastErr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * c.backoff):
		}
	}
	if resp == nil {
		return fmt.Errorf("failed to execute request: %w", lastErr)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error string `json:"error"`
		}
		msg := string(raw)
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}
	return nil
}

func (c *PlateClient) newRequest(ctx context.Context, method, path string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}
