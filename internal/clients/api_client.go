package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Options configures an APIClient.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 disables limiting
	RateBurst  int
	Token      string // static bearer used when the context carries none
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// APIClient talks to the e-commerce backend. Every JSON success payload is
// expected under "data"; errors under "error" or "message".
type APIClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	token       string
	logger      *logrus.Entry
}

// NewAPIClient creates a new backend client
func NewAPIClient(opts Options) *APIClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &APIClient{
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient:  httpClient,
		rateLimiter: limiter,
		token:       opts.Token,
		logger:      logger.WithField("component", "api-client"),
	}
}

// BaseURL returns the backend root the client targets.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

type bearerKey struct{}

// WithBearerToken attaches a per-session backend token to ctx.
func WithBearerToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, bearerKey{}, token)
}

// BearerToken returns the per-session token attached to ctx, if any.
func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(bearerKey{}).(string)
	return token
}

func (c *APIClient) bearer(ctx context.Context) string {
	if token := BearerToken(ctx); token != "" {
		return token
	}
	return c.token
}

// GetJSON issues a GET and decodes the data payload into out.
func (c *APIClient) GetJSON(ctx context.Context, path string, out interface{}) error {
	data, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return decodeData(path, data, out)
}

// SendJSON issues method with a JSON body and decodes the data payload
// into out when out is non-nil.
func (c *APIClient) SendJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s body: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}
	data, err := c.do(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}
	return decodeData(path, data, out)
}

// SendMultipart issues method with a multipart body.
func (c *APIClient) SendMultipart(ctx context.Context, method, path string, form *MultipartBody, out interface{}) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode %s form: %w", path, err)
	}
	data, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return decodeData(path, data, out)
}

// Delete issues a DELETE.
func (c *APIClient) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, "")
	return err
}

// GetRaw issues a GET and returns the body without unwrapping.
func (c *APIClient) GetRaw(ctx context.Context, path string) ([]byte, error) {
	return c.request(ctx, http.MethodGet, path, nil, "")
}

func (c *APIClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	raw, err := c.request(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *APIClient) request(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, &TransportError{Method: method, Path: path, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.bearer(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Warn("backend request failed")
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start).String(),
	}).Debug("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(method, path, resp.StatusCode, respBody)
	}
	return respBody, nil
}

// unwrapData returns the "data" member of a JSON object envelope, or the
// whole body when there is none.
func unwrapData(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return trimmed
	}
	if data, ok := envelope["data"]; ok {
		return data
	}
	return trimmed
}

func decodeData(path string, data json.RawMessage, out interface{}) error {
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func parseAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       string(body),
	}

	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	if len(envelope.Error) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Error, &text); err == nil && text != "" {
			apiErr.Message, apiErr.Parsed = text, true
			return apiErr
		}
		var detail struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &detail); err == nil && detail.Message != "" {
			apiErr.Message, apiErr.Parsed = detail.Message, true
			return apiErr
		}
	}
	if envelope.Message != "" {
		apiErr.Message, apiErr.Parsed = envelope.Message, true
	}
	return apiErr
}
