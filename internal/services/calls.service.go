package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/platformbuilds/mirador-httptop/internal/config"
	"github.com/platformbuilds/mirador-httptop/internal/models"
	"github.com/platformbuilds/mirador-httptop/pkg/logger"
)

// apiTimeLayout is the timestamp format the httpcalls API accepts for the
// from/to window. Always rendered in UTC.
const apiTimeLayout = "2006-01-02 15:04:05"

// APIError is a non-2xx response from MIRADOR-CORE, carrying the status code
// and a snippet of the response body so callers can decide how to surface it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mirador-core returned status %d: %s", e.StatusCode, e.Body)
}

// CallsService queries the MIRADOR-CORE HTTP call analysis endpoints.
type CallsService struct {
	baseURL  string
	client   *http.Client
	logger   logger.Logger
	username string
	password string
}

func NewCallsService(cfg config.APIConfig, logger logger.Logger) *CallsService {
	return &CallsService{
		baseURL: cfg.URL,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		},
		logger:   logger,
		username: cfg.Username,
		password: cfg.Password,
	}
}

// GetHTTPCalls fetches aggregated call rows for the requested window. Optional
// request fields are omitted from the query string when unset so the backend
// applies its own defaults.
func (s *CallsService) GetHTTPCalls(ctx context.Context, req *models.CallsRequest) (*models.CallsResult, error) {
	requestID := uuid.New().String()

	params := url.Values{}
	params.Set("from", req.From.UTC().Format(apiTimeLayout))
	params.Set("to", req.To.UTC().Format(apiTimeLayout))
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("offset", strconv.Itoa(req.Offset))
	if req.Service != "" {
		params.Set("service", req.Service)
	}
	if req.Filter != "" {
		params.Set("filter", req.Filter)
	}
	if req.Sort != "" {
		params.Set("sort", req.Sort)
		params.Set("order", req.Order)
	}

	endpoint := fmt.Sprintf("%s/api/v1/httpcalls?%s", s.baseURL, params.Encode())
	start := time.Now()

	resp, err := s.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, fmt.Errorf("httpcalls request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: readBodySnippet(resp.Body)}
		s.logger.Warn("httpcalls request rejected",
			"requestId", requestID,
			"status", resp.StatusCode,
			"offset", req.Offset,
		)
		return nil, apiErr
	}

	var result models.CallsResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse httpcalls response: %w", err)
	}

	s.logger.Debug("httpcalls query executed",
		"requestId", requestID,
		"rows", len(result.HTTPCalls),
		"total", result.Total,
		"duration", time.Since(start),
	)
	return &result, nil
}

// GetServices fetches the known service names for the selector.
func (s *CallsService) GetServices(ctx context.Context) (*models.ServicesResult, error) {
	endpoint := fmt.Sprintf("%s/api/v1/httpcalls/services", s.baseURL)

	resp, err := s.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, fmt.Errorf("services request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: readBodySnippet(resp.Body)}
	}

	var result models.ServicesResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse services response: %w", err)
	}
	return &result, nil
}

// HealthCheck verifies the backend is reachable before the dashboard starts.
func (s *CallsService) HealthCheck(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/health", s.baseURL)

	resp, err := s.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return fmt.Errorf("mirador-core unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: readBodySnippet(resp.Body)}
	}
	return nil
}

func (s *CallsService) doRequest(ctx context.Context, method, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	return s.client.Do(req)
}

func readBodySnippet(r io.Reader) string {
	const max = 8 << 10 // 8KB
	b, _ := io.ReadAll(io.LimitReader(r, max))
	return string(b)
}
