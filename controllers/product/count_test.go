package productcontroller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCount struct {
	data  map[string]interface{}
	total int
	err   error
}

func (f fakeCount) ProductCount(context.Context) (map[string]interface{}, int, error) {
	return f.data, f.total, f.err
}
func (fakeCount) BaseURL() string { return "http://backend.test" }
func (fakeCount) HasAPIToken() bool { return true }

func count(t *testing.T, source CountSource) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/product/count", ProductCount(source, zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/product/count", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestProductCount(t *testing.T) {
	status, body := count(t, fakeCount{data: map[string]interface{}{"count": 42.0}, total: 42})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 42.0, body["totalProducts"])
}

func TestProductCountFailure(t *testing.T) {
	status, body := count(t, fakeCount{err: &errs.UpstreamRejectedError{Status: 401, Message: "HTTP 401: Unauthenticated"}})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, 0.0, body["totalProducts"])

	debug := body["debug"].(map[string]interface{})
	assert.Equal(t, "http://backend.test", debug["apiUrl"])
	assert.Equal(t, true, debug["hasToken"])
}
