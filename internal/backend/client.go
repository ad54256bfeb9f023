package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"intentguard/internal/config"
	"intentguard/internal/models"
)

// Backend paths, relative to the configured base URL.
const (
	pathLatestSensors = "/api/sensor-data/latest"
	pathAlerts        = "/api/alerts"
	pathTrains        = "/api/trains"
	pathAnalyzeIntent = "/api/analyze-intent"
	pathHaltTrain     = "/api/trains/halt/"
	pathDroneDispatch = "/api/drone/dispatch"
	pathTracks        = "/api/digital-twin/tracks"
	pathStats         = "/api/dashboard/stats"
)

// maxErrorBody caps how much of a failed response body is kept for logs.
const maxErrorBody = 512

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: %s returned status %d: %s", e.Op, e.Code, e.Body)
}

// Client talks to the sensor/alert backend. The base URL is fixed at construction.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for cfg.BaseURL.
func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// NewClientWithHTTP is used by tests to inject an httptest client.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: hc}
}

// BaseURL returns the immutable backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// LatestSensors fetches the current sensor snapshot.
func (c *Client) LatestSensors(ctx context.Context) (models.SensorSnapshot, error) {
	var out models.SensorSnapshot
	err := c.do(ctx, "latest sensors", http.MethodGet, pathLatestSensors, nil, nil, &out)
	return out, err
}

// Alerts fetches alerts filtered server-side by status and limit.
func (c *Client) Alerts(ctx context.Context, f models.AlertFilter) ([]models.Alert, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	out := []models.Alert{}
	if err := c.do(ctx, "alerts", http.MethodGet, pathAlerts, q, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// Trains fetches the fleet list.
func (c *Client) Trains(ctx context.Context) ([]models.TrainStatus, error) {
	out := []models.TrainStatus{}
	if err := c.do(ctx, "trains", http.MethodGet, pathTrains, nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// Tracks fetches the digital-twin track segments.
func (c *Client) Tracks(ctx context.Context) ([]models.Track, error) {
	out := []models.Track{}
	if err := c.do(ctx, "tracks", http.MethodGet, pathTracks, nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// Stats fetches the summary counters.
func (c *Client) Stats(ctx context.Context) (models.DashboardStats, error) {
	var out models.DashboardStats
	err := c.do(ctx, "stats", http.MethodGet, pathStats, nil, nil, &out)
	return out, err
}

// AnalyzeIntent submits a snapshot for intent/risk scoring.
func (c *Client) AnalyzeIntent(ctx context.Context, req models.IntentRequest) (models.IntentResult, error) {
	var out models.IntentResult
	err := c.do(ctx, "analyze intent", http.MethodPost, pathAnalyzeIntent, nil, req, &out)
	return out, err
}

// HaltTrain issues an emergency stop for trainID.
func (c *Client) HaltTrain(ctx context.Context, trainID string) (models.HaltAck, error) {
	var out models.HaltAck
	err := c.do(ctx, "halt train", http.MethodPost, pathHaltTrain+url.PathEscape(trainID), nil, nil, &out)
	return out, err
}

// DispatchDrone sends a drone to location for alertID.
func (c *Client) DispatchDrone(ctx context.Context, req models.DroneDispatchRequest) (models.DroneDispatch, error) {
	var out models.DroneDispatch
	err := c.do(ctx, "dispatch drone", http.MethodPost, pathDroneDispatch, nil, req, &out)
	return out, err
}

// do performs one JSON request/response round trip.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: %s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("backend: %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, Code: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			// empty ack bodies are valid for commands
			return nil
		}
		return fmt.Errorf("backend: %s: decode response after %s: %w", op, time.Since(start).Round(time.Millisecond), err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
