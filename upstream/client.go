// Package upstream talks to the external order backend. Every call returns
// either a decoded result or one of the errs taxonomy errors.
package upstream

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

	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"go.uber.org/zap"
)

// rawExcerptLimit caps how much of a non-JSON body is echoed back for debugging.
const rawExcerptLimit = 500

type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
	logger   *zap.Logger
}

// New builds a client for baseURL. An empty baseURL is allowed; every call then
// fails with errs.ErrBackendNotConfigured.
func New(baseURL, apiToken string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// HasAPIToken reports whether server-to-server calls are authorized.
func (c *Client) HasAPIToken() bool { return c.apiToken != "" }

// Response is a raw backend answer.
type Response struct {
	Status int
	Body   []byte
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// JSON reports whether the body parses as JSON.
func (r *Response) JSON() bool {
	return json.Valid(bytes.TrimSpace(r.Body))
}

// Excerpt returns at most the first 500 bytes of the body.
func (r *Response) Excerpt() string {
	return Excerpt(r.Body)
}

func Excerpt(body []byte) string {
	if len(body) > rawExcerptLimit {
		return string(body[:rawExcerptLimit])
	}
	return string(body)
}

// URL joins path onto the backend base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// Do sends one request. auth is an Authorization header value forwarded as-is;
// body is marshalled to JSON unless it is already a []byte.
func (c *Client) Do(ctx context.Context, op, method, path, auth string, body interface{}) (*Response, error) {
	if c.baseURL == "" {
		return nil, errs.ErrBackendNotConfigured
	}

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("op", op),
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return nil, &errs.UpstreamUnavailableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.UpstreamUnavailableError{Op: op, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug("Backend request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return &Response{Status: resp.StatusCode, Body: data}, nil
}

// Bearer formats a token as an Authorization header value. A value that
// already carries a scheme is returned unchanged.
func Bearer(token string) string {
	token = strings.TrimSpace(token)
	if token == "" || strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return token
	}
	return "Bearer " + token
}

func (c *Client) serviceAuth() string {
	return Bearer(c.apiToken)
}

// Envelope is the backend's usual {success, message, data} wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// DecodeEnvelope parses resp as an Envelope. A body that is not JSON becomes
// an UpstreamUnavailableError carrying a raw excerpt.
func DecodeEnvelope(op string, resp *Response) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &errs.UpstreamUnavailableError{
			Op:     op,
			Status: resp.Status,
			Raw:    resp.Excerpt(),
			Err:    errors.New(errs.MsgInvalidResponse),
		}
	}
	return &env, nil
}

func rejected(op string, resp *Response, message string) *errs.UpstreamRejectedError {
	return &errs.UpstreamRejectedError{Op: op, Status: resp.Status, Message: message, Body: resp.Body}
}
