package stripekit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// APIVersion is the Stripe API version every request is pinned to. The
	// runtime sends it on every call, changing it is a deliberate upgrade.
	APIVersion = "2024-06-20"

	// APIURL is the live Stripe endpoint. Override it with WithBaseURL to
	// point the client at a test fake.
	APIURL = "https://api.stripe.com"

	// DefaultTimeout bounds a complete send, receive, and decode cycle.
	DefaultTimeout = 80 * time.Second

	maxBackoff     = 10 * time.Second
	snippetLen     = 200
	maxResponseLen = 4 << 20
)

// RetryPolicy controls how idempotent requests are retried on transport
// failures, timeouts, rate limits, and 5xx responses. POST requests without
// an idempotency key are never retried.
type RetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	Jitter      bool
}

// DefaultRetryPolicy is three attempts with 500ms base backoff, full jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseBackoff: 500 * time.Millisecond,
		Jitter:      true,
	}
}

// Client is an HTTP client for the Stripe API. Each request made via this
// client will be automatically configured to talk to the Stripe API with the
// necessary headers. The zero value is not usable, construct it with
// NewClient.
type Client struct {
	http     *http.Client
	secret   string
	endpoint string
	version  string
	account  string
	timeout  time.Duration
	retry    RetryPolicy
	logger   *zap.Logger

	// sleep is swapped out under test so retry tests need not wait out the
	// real backoff.
	sleep func(time.Duration)
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying http.Client, which owns the connection
// pool shared across calls.
func WithHTTPClient(h *http.Client) ClientOption { return func(c *Client) { c.http = h } }

// WithBaseURL overrides the Stripe endpoint, typically with a test fake.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.endpoint = strings.TrimSuffix(u, "/") }
}

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) ClientOption { return func(c *Client) { c.timeout = d } }

// WithStripeAccount sets a connected-account override sent as Stripe-Account
// on every call made by this client.
func WithStripeAccount(acct string) ClientOption { return func(c *Client) { c.account = acct } }

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p RetryPolicy) ClientOption { return func(c *Client) { c.retry = p } }

// WithLogger attaches a zap logger. The client logs at debug level only.
func WithLogger(l *zap.Logger) ClientOption { return func(c *Client) { c.logger = l } }

// NewClient configures a new Client for interfacing with the Stripe API using
// the given secret for authentication.
func NewClient(secret string, opts ...ClientOption) *Client {
	c := &Client{
		http:     &http.Client{},
		secret:   secret,
		endpoint: APIURL,
		version:  APIVersion,
		timeout:  DefaultTimeout,
		retry:    DefaultRetryPolicy(),
		logger:   zap.NewNop(),
		sleep:    time.Sleep,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint describes one operation of the API surface: a method and a path
// template. Path parameters appear as {name} placeholders and are bound, and
// URL-escaped once, per call.
type Endpoint struct {
	Method string
	Path   string
}

// bind substitutes the {name} placeholders in the path template.
func (e Endpoint) bind(vars map[string]string) (string, error) {
	path := e.Path

	for k, v := range vars {
		if v == "" {
			return "", &ParamError{Param: k, Msg: "empty path parameter"}
		}
		path = strings.ReplaceAll(path, "{"+k+"}", url.PathEscape(v))
	}

	if i := strings.IndexByte(path, '{'); i >= 0 {
		end := strings.IndexByte(path[i:], '}')

		if end < 0 {
			end = len(path) - i
		}
		return "", &ParamError{Param: path[i : i+end+1], Msg: "unbound path parameter"}
	}
	return path, nil
}

type callOptions struct {
	idempotencyKey string
	account        string
}

// CallOption configures a single call.
type CallOption func(*callOptions)

// WithIdempotencyKey sets the Idempotency-Key header for this call. Setting
// one also makes a POST eligible for automatic retry.
func WithIdempotencyKey(key string) CallOption {
	return func(o *callOptions) { o.idempotencyKey = key }
}

// WithAccount overrides the connected account for this call only.
func WithAccount(acct string) CallOption {
	return func(o *callOptions) { o.account = acct }
}

// Call sends one API request described by ep, encoding params as the request
// query for GET and DELETE or as a form body for POST, and decodes the
// response into v when v is non-nil. Idempotent requests are retried under
// the client's retry policy. The context cancels the request at its next
// suspension point, partial bodies are never decoded.
func (c *Client) Call(ctx context.Context, ep Endpoint, vars map[string]string, params interface{}, v interface{}, opts ...CallOption) error {
	var o callOptions

	for _, opt := range opts {
		opt(&o)
	}

	path, err := ep.bind(vars)

	if err != nil {
		return err
	}

	encoded, err := EncodeParams(params)

	if err != nil {
		return err
	}

	body, err := c.send(ctx, ep.Method, path, encoded, o)

	if err != nil {
		return err
	}

	if v == nil {
		return nil
	}

	if err := json.Unmarshal(body, v); err != nil {
		var de *DecodeError

		if errors.As(err, &de) {
			return de
		}
		return errType("body", "valid JSON")
	}
	return nil
}

// send runs the retry loop. The encoded parameter string is rendered once so
// every attempt puts identical bytes on the wire.
func (c *Client) send(ctx context.Context, method, path, encoded string, o callOptions) ([]byte, error) {
	retryable := method == "GET" || method == "DELETE" || o.idempotencyKey != ""
	attempts := c.retry.MaxAttempts

	if !retryable || attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt-1, lastErr)

			c.logger.Debug("retrying request",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", wait),
			)
			c.sleep(wait)

			if err := ctx.Err(); err != nil {
				return nil, ErrCancelled
			}
		}

		body, err := c.attempt(ctx, method, path, encoded, o)

		if err == nil {
			return body, nil
		}

		if !retriableError(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, method, path, encoded string, o callOptions) ([]byte, error) {
	uri := c.endpoint + path

	var reqBody io.Reader

	switch method {
	case "POST":
		reqBody = strings.NewReader(encoded)
	default:
		if encoded != "" {
			uri += "?" + encoded
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, uri, reqBody)

	if err != nil {
		return nil, &TransportError{Err: err}
	}

	c.setHeaders(req, o)

	resp, err := c.http.Do(req)

	if err != nil {
		return nil, c.transportErr(ctx, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseLen))

	if err != nil {
		return nil, c.transportErr(ctx, err)
	}

	c.logger.Debug("stripe request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if respCode2xx(resp.StatusCode) {
		return body, nil
	}
	return nil, c.errorFromResponse(resp, body)
}

func (c *Client) setHeaders(req *http.Request, o callOptions) {
	contentType := map[string]string{
		"POST":   "application/x-www-form-urlencoded",
		"GET":    "application/json; charset=utf-8",
		"DELETE": "application/json; charset=utf-8",
	}

	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Content-Type", contentType[req.Method])
	req.Header.Set("Stripe-Version", c.version)

	account := c.account

	if o.account != "" {
		account = o.account
	}

	if account != "" {
		req.Header.Set("Stripe-Account", account)
	}

	if o.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", o.idempotencyKey)
	}
}

func (c *Client) transportErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled), errors.Is(ctx.Err(), context.Canceled):
		return ErrCancelled
	}
	return &TransportError{Err: err}
}

// errorFromResponse decodes Stripe's error envelope, falling back to a
// TransportError with a body snippet when the body is not the envelope.
func (c *Client) errorFromResponse(resp *http.Response, body []byte) error {
	e := &Error{
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
	}

	if err := json.Unmarshal(body, e); err != nil || e.Err.Type == "" && e.Err.Message == "" {
		snippet := string(body)

		if len(snippet) > snippetLen {
			snippet = snippet[:snippetLen]
		}
		return &TransportError{StatusCode: resp.StatusCode, Snippet: snippet}
	}

	if resp.StatusCode == 429 {
		if secs, err := strconv.ParseInt(resp.Header.Get("Retry-After"), 10, 64); err == nil {
			e.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return e
}

// backoff computes the wait before the next attempt: capped exponential on
// the base, replaced by the server's Retry-After when one was given, with
// full jitter applied on top.
func (c *Client) backoff(retry int, lastErr error) time.Duration {
	d := c.retry.BaseBackoff << uint(retry)

	if d > maxBackoff || d <= 0 {
		d = maxBackoff
	}

	var apiErr *Error

	if errors.As(lastErr, &apiErr) && apiErr.RetryAfter > 0 {
		// Honor the server's word exactly, no jitter on top.
		return apiErr.RetryAfter
	}

	if c.retry.Jitter {
		d = time.Duration(rand.Int63n(int64(d) + 1))
	}
	return d
}

func retriableError(err error) bool {
	switch {
	case errors.Is(err, ErrTimeout):
		return true
	case errors.Is(err, ErrCancelled):
		return false
	}

	var te *TransportError

	if errors.As(err, &te) {
		return te.Err != nil || te.StatusCode >= 500
	}

	var apiErr *Error

	if errors.As(err, &apiErr) {
		return apiErr.RateLimited() || apiErr.StatusCode >= 500
	}
	return false
}

func respCode2xx(code int) bool { return code >= 200 && code < 300 }

// Get will send a GET request to the given URI of the Stripe API. This is the
// raw escape hatch, no retries and no response decoding, the caller owns the
// returned body.
func (c *Client) Get(ctx context.Context, uri string) (*http.Response, error) {
	return c.do(ctx, "GET", uri, nil)
}

// Post will send a POST request to the given URI of the Stripe API, along
// with the given Params encoded as the request body.
func (c *Client) Post(ctx context.Context, uri string, params Params) (*http.Response, error) {
	r, err := params.Reader()

	if err != nil {
		return nil, err
	}
	return c.do(ctx, "POST", uri, r)
}

// Delete will send a DELETE request to the given URI of the Stripe API.
func (c *Client) Delete(ctx context.Context, uri string) (*http.Response, error) {
	return c.do(ctx, "DELETE", uri, nil)
}

func (c *Client) do(ctx context.Context, method, uri string, r io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+uri, r)

	if err != nil {
		return nil, err
	}

	c.setHeaders(req, callOptions{})
	return c.http.Do(req)
}

// Error decodes an error from the Stripe API from the given http.Response and
// returns it as a pointer to Error. Used together with the raw Get, Post, and
// Delete helpers.
func (c *Client) Error(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseLen))

	if err != nil {
		return &TransportError{Err: err}
	}
	return c.errorFromResponse(resp, body)
}
