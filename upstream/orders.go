package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/models"
)

// CreateOrder places an order on behalf of the user holding token. It only
// succeeds for a 2xx answer with success:true and a data.order object.
func (c *Client) CreateOrder(ctx context.Context, token string, payload models.OrderPayload) (*models.PlacedOrder, error) {
	const op = "create order"

	resp, err := c.Do(ctx, op, http.MethodPost, "/api/orders", Bearer(token), payload)
	if err != nil {
		return nil, err
	}
	env, err := DecodeEnvelope(op, resp)
	if err != nil {
		return nil, err
	}
	if !resp.OK() || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = errs.MsgOrderFailed
		}
		return nil, rejected(op, resp, msg)
	}

	var data struct {
		Order *models.PlacedOrder `json:"order"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Order == nil {
		return nil, rejected(op, resp, errs.MsgOrderFailed)
	}
	return data.Order, nil
}

// ListOrders returns the user's orders as raw objects, whatever shape the
// backend wrapped them in.
func (c *Client) ListOrders(ctx context.Context, token string, query url.Values) ([]json.RawMessage, error) {
	const op = "list orders"

	path := "/api/orders"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	resp, err := c.Do(ctx, op, http.MethodGet, path, Bearer(token), nil)
	if err != nil {
		return nil, err
	}
	env, err := DecodeEnvelope(op, resp)
	if err != nil {
		// A bare array does not fit the envelope but is still a valid list.
		if resp.JSON() {
			return NormalizeList(resp.Body), nil
		}
		return nil, err
	}
	if !resp.OK() {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.Status)
		}
		return nil, rejected(op, resp, msg)
	}
	return NormalizeList(resp.Body), nil
}

// DeliveryFee asks the backend for the fee to deliver to city.
func (c *Client) DeliveryFee(ctx context.Context, city, token string) (float64, error) {
	const op = "delivery fee"

	resp, err := c.Do(ctx, op, http.MethodPost, "/api/delivery-fee", Bearer(token), map[string]string{"city": city})
	if err != nil {
		return 0, err
	}
	env, err := DecodeEnvelope(op, resp)
	if err != nil {
		return 0, err
	}
	if !resp.OK() || !env.Success {
		return 0, rejected(op, resp, env.Message)
	}

	var data struct {
		DeliveryFee *models.Price `json:"delivery_fee"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.DeliveryFee == nil {
		return 0, errors.New("delivery fee: response has no delivery_fee")
	}
	return data.DeliveryFee.Value(), nil
}
