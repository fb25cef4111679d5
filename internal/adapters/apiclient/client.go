// Package apiclient is the shared HTTP client for the EduEvents REST API.
//
// Every outbound call goes through Client.do, which attaches the calling
// browser's bearer token, unwraps the {success, message, data, errors}
// envelope, maps failures to AppErrors and reports 401 responses to the
// Authenticator so the browser's session is torn down.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"

	apperrors "github.com/eduevents/eduevents-hub/internal/errors"
	"github.com/eduevents/eduevents-hub/internal/observability/metrics"
	"github.com/eduevents/eduevents-hub/internal/observability/statsd"
	"github.com/eduevents/eduevents-hub/internal/ports"
)

// DefaultBaseURL is used when no API base URL is configured.
const DefaultBaseURL = "https://vierry-api.ishimwe.rw/api/v1"

const maxBodyBytes = 4 << 20

// invalidResponse is the message surfaced for unparseable API responses.
const invalidResponse = "invalid server response"

// Options configures a Client.
type Options struct {
	BaseURL string
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
	// Timeout bounds each request; 0 means no client-side timeout.
	Timeout time.Duration
	// Authenticator may also be bound later with SetAuthenticator.
	Authenticator ports.Authenticator
	// MessagePath is a JMESPath expression selecting the error message.
	MessagePath string
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// Client implements ports.AuthAPI and ports.DashboardAPI.
type Client struct {
	baseURL  string
	http     *http.Client
	auth     atomic.Pointer[authenticatorBox]
	messages messageExtractor
	metrics  statsd.Sink
	logger   *slog.Logger
}

type authenticatorBox struct{ ports.Authenticator }

var (
	_ ports.AuthAPI      = (*Client)(nil)
	_ ports.DashboardAPI = (*Client)(nil)
)

// New builds a Client. Callers should pass a validated config.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", base)
	}

	messages, err := newMessageExtractor(opts.MessagePath)
	if err != nil {
		return nil, err
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:  base,
		http:     hc,
		messages: messages,
		metrics:  opts.Metrics,
		logger:   logger.With("component", "api_client"),
	}
	c.SetAuthenticator(opts.Authenticator)
	return c, nil
}

// SetAuthenticator binds the token source and 401 hook. The session registry
// implementing it is built on this client, so binding happens after New.
func (c *Client) SetAuthenticator(a ports.Authenticator) {
	if a == nil {
		c.auth.Store(nil)
		return
	}
	c.auth.Store(&authenticatorBox{a})
}

func (c *Client) authenticator() ports.Authenticator {
	if box := c.auth.Load(); box != nil {
		return box.Authenticator
	}
	return nil
}

// call describes one API request. route is the templated path used for
// metrics and logs so ids do not explode tag cardinality.
type call struct {
	method string
	path   string
	route  string
	body   any
	out    any
	// optionalData lets a successful envelope omit data.
	optionalData bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	start := time.Now()
	status, err := c.roundTrip(ctx, cl)
	metrics.EmitAPICall(c.metrics, metrics.APICallMetric{
		Method:   cl.method,
		Route:    cl.route,
		Status:   status,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		c.logger.DebugContext(ctx, "api call failed",
			"method", cl.method, "route", cl.route, "status", status, "error", err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, cl call) (int, error) {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, apperrors.MapTransportError(err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close api response body", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, apperrors.MapTransportError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.InfoContext(ctx, "api rejected credentials", "method", cl.method, "route", cl.route)
		if a := c.authenticator(); a != nil {
			a.Unauthorized(ctx)
		}
		return resp.StatusCode, apperrors.Unauthorized(c.messages.Extract(raw))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, apperrors.Upstream(resp.StatusCode, c.messages.Extract(raw))
	}

	return resp.StatusCode, decodeEnvelope(resp.StatusCode, raw, cl)
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode api request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build api request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if a := c.authenticator(); a != nil {
		if tok := a.Token(ctx); tok != "" {
			(&oauth2.Token{AccessToken: tok}).SetAuthHeader(req)
		}
	}
	return req, nil
}

func decodeEnvelope(status int, raw []byte, cl call) error {
	var env rawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDecode, invalidResponse)
	}
	if !env.Success {
		appErr := apperrors.Upstream(status, strings.TrimSpace(env.Message))
		if fields := env.FieldErrors(); len(fields) > 0 {
			appErr.Field = slices.Sorted(maps.Keys(fields))[0]
		}
		return appErr
	}
	if cl.out == nil {
		return nil
	}
	if env.Data == nil || string(*env.Data) == "null" {
		if cl.optionalData {
			return nil
		}
		return apperrors.Decode(invalidResponse)
	}
	if err := json.Unmarshal(*env.Data, cl.out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDecode, invalidResponse)
	}
	return nil
}
