package client

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

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/internal/geocoding"
)

// HTTPClient is the subset of *http.Client the API client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx answer from the address API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// APIClient talks to the address book server.
type APIClient struct {
	baseURL string
	http    HTTPClient
}

func NewAPIClient(baseURL string, httpClient HTTPClient) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type addressEnvelope struct {
	Message string         `json:"message"`
	Address *model.Address `json:"address"`
}

type listEnvelope struct {
	Message   string          `json:"message"`
	Addresses []model.Address `json:"addresses"`
	Count     int             `json:"count"`
}

type geocodeEnvelope struct {
	Address     string            `json:"address"`
	Coordinates model.Coordinates `json:"coordinates"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e errorEnvelope
		if json.Unmarshal(data, &e) == nil && e.Message != "" {
			apiErr.Code = e.Error
			apiErr.Message = e.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// List fetches every stored address.
func (c *APIClient) List(ctx context.Context) ([]model.Address, error) {
	var env listEnvelope
	if err := c.do(ctx, http.MethodGet, "/get", nil, &env); err != nil {
		return nil, err
	}
	if env.Addresses == nil {
		env.Addresses = []model.Address{}
	}
	return env.Addresses, nil
}

func (c *APIClient) Create(ctx context.Context, address model.Address) (*model.Address, error) {
	var env addressEnvelope
	if err := c.do(ctx, http.MethodPost, "/add", address, &env); err != nil {
		return nil, err
	}
	return env.Address, nil
}

func (c *APIClient) Update(ctx context.Context, id string, patch model.AddressPatch) (*model.Address, error) {
	var env addressEnvelope
	if err := c.do(ctx, http.MethodPut, "/update/"+url.PathEscape(id), patch, &env); err != nil {
		return nil, err
	}
	return env.Address, nil
}

// Delete removes id. A nil address means the server had no such record.
func (c *APIClient) Delete(ctx context.Context, id string) (*model.Address, error) {
	var env addressEnvelope
	if err := c.do(ctx, http.MethodDelete, "/delete/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, err
	}
	return env.Address, nil
}

// Geocode resolves address through the server's geocoding proxy.
func (c *APIClient) Geocode(ctx context.Context, address string) (*model.Coordinates, error) {
	if strings.TrimSpace(address) == "" {
		return nil, geocoding.ErrEmptyAddress
	}

	var env geocodeEnvelope
	err := c.do(ctx, http.MethodGet, "/geocode?address="+url.QueryEscape(address), nil, &env)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return nil, geocoding.ErrNotFound
		case http.StatusBadRequest:
			return nil, geocoding.ErrEmptyAddress
		}
	}
	if err != nil {
		return nil, err
	}
	return &env.Coordinates, nil
}
