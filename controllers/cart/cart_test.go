package cartControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/InfinitechAdCorp/izakayaadmin/auth"
	"github.com/InfinitechAdCorp/izakayaadmin/cart"
	"github.com/InfinitechAdCorp/izakayaadmin/middleware"
	"github.com/InfinitechAdCorp/izakayaadmin/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	issuer := auth.NewIssuer("secret", time.Hour)
	_, token, err := issuer.Issue()
	require.NoError(t, err)

	h := &Handlers{
		Carts:        cart.NewRegistry(storage.NewMemory(), time.Hour, zap.NewNop()),
		ImageBaseURL: "https://api.example.com",
		Logger:       zap.NewNop(),
	}

	r := gin.New()
	g := r.Group("/api/cart", middleware.RequireSession(issuer))
	g.GET("", h.GetCart)
	g.DELETE("", h.ClearCart)
	g.POST("/items", h.AddItem)
	g.PUT("/items/:id", h.UpdateQuantity)
	g.DELETE("/items/:id", h.RemoveItem)
	return r, token
}

func do(r *gin.Engine, token, method, path, body string) (*httptest.ResponseRecorder, cartView) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(auth.SessionHeader, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var view cartView
	_ = json.Unmarshal(w.Body.Bytes(), &view)
	return w, view
}

func TestCartRequiresSession(t *testing.T) {
	r, _ := setupRouter(t)
	w, _ := do(r, "", http.MethodGet, "/api/cart", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartLifecycle(t *testing.T) {
	r, token := setupRouter(t)

	w, view := do(r, token, http.MethodPost, "/api/cart/items",
		`{"product":{"id":1,"name":"Ramen","price":"120.00","image":"ramen.jpg"},"quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "1", view.Items[0].ID.String())
	assert.Equal(t, "https://api.example.com/images/products/ramen.jpg", view.Items[0].ImageURL)
	assert.Equal(t, 240.0, view.Items[0].LineTotal)

	w, view = do(r, token, http.MethodPost, "/api/cart/items",
		`{"product":{"id":2,"name":"Gyoza","price":140}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 3, view.ItemCount)
	assert.Equal(t, 2, view.LineCount)
	assert.Equal(t, 380.0, view.Subtotal)

	w, view = do(r, token, http.MethodPut, "/api/cart/items/1", `{"quantity":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, view.ItemCount)

	w, view = do(r, token, http.MethodDelete, "/api/cart/items/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, view.ItemCount)
	assert.Equal(t, 600.0, view.Subtotal)

	w, view = do(r, token, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, view.Items, 1)

	w, view = do(r, token, http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.ItemCount)
}

func TestCartSessionsAreIsolated(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	_, first, err := issuer.Issue()
	require.NoError(t, err)
	_, second, err := issuer.Issue()
	require.NoError(t, err)

	h := &Handlers{Carts: cart.NewRegistry(storage.NewMemory(), time.Hour, zap.NewNop()), Logger: zap.NewNop()}
	r := gin.New()
	g := r.Group("/api/cart", middleware.RequireSession(issuer))
	g.GET("", h.GetCart)
	g.POST("/items", h.AddItem)

	w, _ := do(r, first, http.MethodPost, "/api/cart/items", `{"product":{"id":"a","name":"Tea","price":50}}`)
	require.Equal(t, http.StatusCreated, w.Code)

	_, view := do(r, second, http.MethodGet, "/api/cart", "")
	assert.Empty(t, view.Items)
}

func TestCartRejectsInvalidInput(t *testing.T) {
	r, token := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"not json", http.MethodPost, "/api/cart/items", `nope`},
		{"missing product id", http.MethodPost, "/api/cart/items", `{"product":{"name":"Ramen"}}`},
		{"missing quantity", http.MethodPut, "/api/cart/items/1", `{}`},
		{"add above line cap", http.MethodPost, "/api/cart/items", `{"product":{"id":1,"name":"Ramen","price":120},"quantity":1000}`},
		{"update above line cap", http.MethodPut, "/api/cart/items/1", `{"quantity":9223372036854775807}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(r, token, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
