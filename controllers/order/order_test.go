package orderControllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/upstream"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOrders struct {
	orders []json.RawMessage
	err    error
	token  string
	query  url.Values
}

func (f *fakeOrders) ListOrders(_ context.Context, token string, query url.Values) ([]json.RawMessage, error) {
	f.token, f.query = token, query
	return f.orders, f.err
}

type fakeForwarder struct {
	resp *upstream.Response
	err  error
	auth string
	body string
}

func (f *fakeForwarder) Forward(_ context.Context, _, _, auth string, body []byte) (*upstream.Response, error) {
	f.auth, f.body = auth, string(body)
	return f.resp, f.err
}

func raw(s ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(s))
	for _, v := range s {
		out = append(out, json.RawMessage(v))
	}
	return out
}

func list(t *testing.T, orders OrderLister, target, bearer string) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/orders", ListOrders(orders, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestListOrders(t *testing.T) {
	orders := &fakeOrders{orders: raw(
		`{"order_number":"A","order_status":"delivered"}`,
		`{"order_number":"B","order_status":"pending"}`,
		`{"order_number":"C"}`,
	)}

	status, body := list(t, orders, "/api/orders?page=2&per_page=5", "user-token")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user-token", orders.token)
	assert.Equal(t, "2", orders.query.Get("page"))
	assert.Equal(t, "5", orders.query.Get("per_page"))
	assert.Len(t, body["data"], 3)

	counts := body["counts"].(map[string]interface{})
	assert.Equal(t, 3.0, counts["all"])
	assert.Equal(t, 2.0, counts["pending"])
	assert.Equal(t, 1.0, counts["delivered"])

	status, body = list(t, orders, "/api/orders?status=Pending", "user-token")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending", body["status"])
	assert.Len(t, body["data"], 2)
}

func TestListOrdersErrors(t *testing.T) {
	status, body := list(t, &fakeOrders{}, "/api/orders", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/login", body["redirect_to"])

	status, _ = list(t, &fakeOrders{}, "/api/orders?status=lost", "user-token")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = list(t, &fakeOrders{err: &errs.UpstreamRejectedError{Status: 401, Message: "Unauthenticated."}}, "/api/orders", "stale")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthenticated.", body["error"])

	status, _ = list(t, &fakeOrders{err: &errs.UpstreamUnavailableError{Err: errors.New("refused")}}, "/api/orders", "user-token")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestCreateOrderPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	forwarder := &fakeForwarder{resp: &upstream.Response{Status: http.StatusCreated, Body: []byte(`{"success":true}`)}}
	r := gin.New()
	r.POST("/api/orders", CreateOrder(forwarder, zap.NewNop()))

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, "Bearer user-token", forwarder.auth)
	assert.Equal(t, `{"items":[]}`, forwarder.body)

	forwarder.resp = &upstream.Response{Status: http.StatusOK, Body: []byte("<html>oops</html>")}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
