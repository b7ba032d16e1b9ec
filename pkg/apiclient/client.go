package apiclient

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
	"time"

	pkgerrors "github.com/angelmondragon/delivery-admin/pkg/errors"
	"github.com/angelmondragon/delivery-admin/pkg/logger"
	"github.com/angelmondragon/delivery-admin/pkg/metrics"
	"github.com/angelmondragon/delivery-admin/pkg/types"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is attached to every outbound call.
	RequestIDHeader = "X-Request-Id"

	defaultUserAgent                 = "delivery-admin"
	defaultMaxIdleConnsPerHost       = 4
	errorBodyReadLimit         int64 = 1024
	successBodyReadLimit       int64 = 16 << 20
)

var errBaseURLRequired = errors.New("api base url is required")

// CredentialSource supplies the bearer token for authenticated calls.
type CredentialSource interface {
	AccessToken() string
}

// Envelope selects which wrapper the response body is unpacked from.
type Envelope int

const (
	EnvelopeData Envelope = iota
	EnvelopeUser
	EnvelopeNone
)

// Request describes one call against the marketplace API.
type Request struct {
	// Resource labels logs and metrics, e.g. "areas".
	Resource      string
	Method        string
	Path          string
	Query         url.Values
	JSON          any
	Multipart     *Multipart
	Authenticated bool
	Envelope      Envelope
}

// Client talks to the marketplace REST API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	credentials CredentialSource
	logg        *logger.Logger
	metrics     *metrics.ClientMetrics
	now         func() time.Time
	newID       func() string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithCredentials sets the token source used for authenticated requests.
func WithCredentials(src CredentialSource) Option {
	return func(c *Client) {
		c.credentials = src
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(ua); trimmed != "" {
			c.userAgent = trimmed
		}
	}
}

// New builds a client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:   trimmed,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		}},
		logg:  logger.Nop(),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a read. Reads are public unless req.Authenticated is set.
func (c *Client) Get(ctx context.Context, req Request, out any) error {
	req.Method = http.MethodGet
	return c.Do(ctx, req, out)
}

// Send issues a mutation. Mutations always carry the bearer token.
func (c *Client) Send(ctx context.Context, req Request, out any) error {
	if req.Method == "" {
		req.Method = http.MethodPost
	}
	req.Authenticated = true
	return c.Do(ctx, req, out)
}

// Do executes req and decodes the unwrapped payload into out when out is non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "api client not configured")
	}
	if req.JSON != nil && req.Multipart != nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "request cannot carry both json and multipart bodies")
	}

	requestID := c.newID()
	ctx = c.logg.WithRequestID(ctx, requestID)
	if req.Resource != "" {
		ctx = c.logg.WithResource(ctx, req.Resource)
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.buildURL(req.Path, req.Query), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(RequestIDHeader, requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Authenticated && c.credentials != nil {
		if token := c.credentials.AccessToken(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := c.now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.Observe(req.Resource, req.Method, 0, c.now().Sub(started))
		c.logg.Warn(ctx, fmt.Sprintf("%s %s transport failure: %v", req.Method, req.Path, err))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.Observe(req.Resource, req.Method, resp.StatusCode, c.now().Sub(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(ctx, req, resp)
	}
	c.logg.Debug(ctx, fmt.Sprintf("%s %s -> %d", req.Method, req.Path, resp.StatusCode))

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, successBodyReadLimit))
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, successBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response")
	}
	if err := decode(raw, req.Envelope, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

func (c *Client) statusError(ctx context.Context, req Request, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	text := strings.TrimSpace(string(msg))

	var apiErr types.APIError
	_ = json.Unmarshal(msg, &apiErr)

	err := pkgerrors.Wrap(
		pkgerrors.FromStatus(resp.StatusCode),
		fmt.Errorf("status %d: %s", resp.StatusCode, text),
		fmt.Sprintf("%s %s failed", req.Method, req.Path),
	).WithDetails(map[string]any{
		"status": resp.StatusCode,
		"body":   text,
	}).WithPublicMessage(apiErr.Text())

	c.logg.Warn(ctx, err.Error())
	return err
}

func (c *Client) buildURL(path string, query url.Values) string {
	path = strings.TrimLeft(path, "/")
	target := fmt.Sprintf("%s/%s", c.baseURL, path)
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}

func encodeBody(req Request) (io.Reader, string, error) {
	switch {
	case req.Multipart != nil:
		return req.Multipart.Encode()
	case req.JSON != nil:
		payload, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(payload), "application/json", nil
	default:
		return nil, "", nil
	}
}

func decode(raw []byte, envelope Envelope, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var inner json.RawMessage
	switch envelope {
	case EnvelopeNone:
		inner = raw
	case EnvelopeUser:
		var env types.UserEnvelope[json.RawMessage]
		if err := json.Unmarshal(raw, &env); err != nil {
			return err
		}
		inner = env.User
	default:
		var env types.DataEnvelope[json.RawMessage]
		if err := json.Unmarshal(raw, &env); err != nil {
			return err
		}
		inner = env.Data
	}
	if len(inner) == 0 || string(inner) == "null" {
		return nil
	}
	return json.Unmarshal(inner, out)
}
