package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/InfinitechAdCorp/izakayaadmin/errs"
)

// Credentials are forwarded to the backend login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login forwards credentials and returns the backend answer untouched so the
// caller can pass status and body through.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Response, error) {
	return c.Do(ctx, "login", http.MethodPost, "/api/auth/login", "", creds)
}

// DashboardAnalytics fetches the analytics block of the admin dashboard.
func (c *Client) DashboardAnalytics(ctx context.Context) (map[string]interface{}, error) {
	const op = "dashboard analytics"

	resp, err := c.Do(ctx, op, http.MethodGet, "/api/dashboard/analytics", "", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, rejected(op, resp, fmt.Sprintf("Dashboard API error: %d - %s", resp.Status, resp.Excerpt()))
	}
	env, err := DecodeEnvelope(op, resp)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, rejected(op, resp, "backend returned success: false")
	}

	data := map[string]interface{}{}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, &errs.UpstreamUnavailableError{Op: op, Status: resp.Status, Raw: Excerpt(env.Data), Err: err}
		}
	}
	return data, nil
}

// ReservationCount is the length of the reservation list. A non-2xx answer
// counts as zero reservations.
func (c *Client) ReservationCount(ctx context.Context) (int, error) {
	const op = "reservation count"

	resp, err := c.Do(ctx, op, http.MethodGet, "/api/reservations", "", nil)
	if err != nil {
		return 0, err
	}
	if !resp.OK() {
		c.logger.Sugar().Warnf("Reservations API error (%d)", resp.Status)
		return 0, nil
	}

	var body struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return 0, &errs.UpstreamUnavailableError{Op: op, Status: resp.Status, Raw: resp.Excerpt(), Err: err}
	}
	return len(body.Data), nil
}

// ProductCount fetches the catalog size using the server-to-server token.
// It returns the decoded body and the total it carries under total or count.
func (c *Client) ProductCount(ctx context.Context) (map[string]interface{}, int, error) {
	const op = "product count"

	resp, err := c.Do(ctx, op, http.MethodGet, "/api/count", c.serviceAuth(), nil)
	if err != nil {
		return nil, 0, err
	}
	if !resp.OK() {
		return nil, 0, rejected(op, resp, fmt.Sprintf("HTTP %d: %s", resp.Status, resp.Excerpt()))
	}

	data := map[string]interface{}{}
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, 0, &errs.UpstreamUnavailableError{Op: op, Status: resp.Status, Raw: resp.Excerpt(), Err: err}
	}
	return data, countFrom(data), nil
}

func countFrom(data map[string]interface{}) int {
	for _, key := range []string{"total", "count"} {
		if n, ok := data[key].(float64); ok && n != 0 {
			return int(n)
		}
	}
	return 0
}

// Forward relays a request body to path and returns the raw answer. It is used
// by the passthrough routes (reservations, testimonials, orders).
func (c *Client) Forward(ctx context.Context, method, path, auth string, body []byte) (*Response, error) {
	if len(body) == 0 {
		return c.Do(ctx, "forward "+path, method, path, auth, nil)
	}
	return c.Do(ctx, "forward "+path, method, path, auth, body)
}
