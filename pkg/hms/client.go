package hms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer credential for outgoing requests.
// An empty string means no Authorization header is sent.
type TokenSource interface {
	AccessToken() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// AccessToken implements TokenSource.
func (t StaticToken) AccessToken() string { return string(t) }

// Client is the single egress point for all backend calls.
type Client struct {
	httpClient *http.Client
	config     Config
	tokens     TokenSource
	logger     *slog.Logger

	Auth          *AuthService
	Patients      *PatientService
	Visits        *VisitService
	Appointments  *AppointmentService
	Pharmacy      *PharmacyService
	Lab           *LabService
	Imaging       *ImagingService
	Billing       *BillingService
	Insurance     *InsuranceService
	Wards         *WardService
	Users         *UserService
	Dashboard     *DashboardService
	Reports       *ReportService
	Notifications *NotificationService
}

// NewClient creates an HMS API client. tokens may be nil for anonymous use.
func NewClient(config Config, tokens TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	c := &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		tokens:     tokens,
		logger:     logger.With("component", "hms-client"),
	}
	c.Auth = &AuthService{c}
	c.Patients = &PatientService{c}
	c.Visits = &VisitService{c}
	c.Appointments = &AppointmentService{c}
	c.Pharmacy = &PharmacyService{c}
	c.Lab = &LabService{c}
	c.Imaging = &ImagingService{c}
	c.Billing = &BillingService{c}
	c.Insurance = &InsuranceService{c}
	c.Wards = &WardService{c}
	c.Users = &UserService{c}
	c.Dashboard = &DashboardService{c}
	c.Reports = &ReportService{c}
	c.Notifications = &NotificationService{c}
	return c
}

// SetTokenSource replaces the credential supplier.
func (c *Client) SetTokenSource(ts TokenSource) {
	if ts == nil {
		ts = StaticToken("")
	}
	c.tokens = ts
}

// SetHTTPClient replaces the underlying HTTP client (tests, custom transports).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// BaseURL returns the configured base address.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Envelope is the uniform wrapper every backend response carries.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// do performs a request and returns the raw response body of a 2xx reply.
// GET requests are re-sent up to MaxRetries times on retryable failures.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	op := method + " " + path

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, WrapError(op, fmt.Errorf("marshal request: %w", err))
		}
		payload = data
	}

	u := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	attempts := 1
	if method == http.MethodGet && c.config.MaxRetries > 0 {
		attempts += c.config.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request", "op", op, "attempt", attempt, "error", lastErr)
		}
		respBody, err := c.send(ctx, method, u, payload)
		if err == nil {
			return respBody, nil
		}
		lastErr = err
		if ctx.Err() != nil || !IsRetryable(err) {
			break
		}
	}
	return nil, WrapError(op, lastErr)
}

// send performs a single HTTP exchange.
func (c *Client) send(ctx context.Context, method, u string, payload []byte) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("HTTP request", "method", method, "url", u, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("HTTP response", "status", resp.StatusCode, "request_id", requestID, "bytes", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// call performs a request and decodes the envelope payload into T.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	env, err := callEnvelope[T](ctx, c, method, path, query, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// callEnvelope performs a request and returns the whole decoded envelope.
func callEnvelope[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (*Envelope[T], error) {
	raw, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	var env Envelope[T]
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, WrapError(method+" "+path, fmt.Errorf("parse response: %w", err))
		}
	}
	if c.config.StrictEnvelope && !env.Success {
		return &env, WrapError(method+" "+path, &EnvelopeError{Message: env.Message})
	}
	return &env, nil
}

// pageQuery builds the page/size query for listing operations.
func pageQuery(page, size int) url.Values {
	q := url.Values{}
	if page < 0 {
		page = 0
	}
	q.Set("page", fmt.Sprint(page))
	if size > 0 {
		q.Set("size", fmt.Sprint(size))
	}
	return q
}

// pathf formats a resource path, escaping each argument as a path segment.
func pathf(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(fmt.Sprint(a))
	}
	return fmt.Sprintf(format, escaped...)
}
