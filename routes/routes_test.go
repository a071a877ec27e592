package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/auth"
	"github.com/junaidrashid-git/farmfresh-api/database/dbtest"
	"github.com/junaidrashid-git/farmfresh-api/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]*auth.Identity

func (s stubVerifier) Verify(_ context.Context, idToken string) (*auth.Identity, error) {
	if id, ok := s[idToken]; ok {
		return id, nil
	}
	return nil, auth.ErrIdentityRejected
}

type harness struct {
	t      *testing.T
	router *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := app.NewTestEnv(dbtest.New(t))
	env.Metrics = metrics.New()
	r := NewRouter(Deps{
		Env:    env,
		Tokens: auth.NewTokenIssuer("test-secret", time.Hour),
		Verifier: stubVerifier{
			"buyer-id-token":  {UID: "buyer", Email: "buyer@example.com", Name: "Asha Patil"},
			"farmer-id-token": {UID: "grower", Email: "grower@example.com", Name: "Ravi"},
		},
		AdminAPIKey: "admin-key",
	})
	return &harness{t: t, router: r}
}

func (h *harness) do(method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) login(idToken string) string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/auth/login", "", `{"idToken":"`+idToken+`"}`)
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	var resp auth.LoginResponse
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(h.t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "farmfresh_http_requests_total")
}

func TestProtectedGroups(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/user/cart", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/farmer/dashboard", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/admin/orders", "", "").Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/admin/orders", "", "", "X-API-KEY", "admin-key").Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/auth/login", "", `{"idToken":"forged"}`).Code)

	buyer := h.login("buyer-id-token")
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/farmer/dashboard", buyer, "").Code)
}

func TestMarketplaceFlow(t *testing.T) {
	h := newHarness(t)
	grower := h.login("farmer-id-token")
	buyer := h.login("buyer-id-token")

	// Farmer signs up and lists two products.
	w := h.do(http.MethodPost, "/farmer/register", grower, `{"name":"Green Valley","location":"Nashik","contact_phone":"9876543210"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	productIDs := map[string]string{}
	for _, body := range []string{
		`{"name":"Tomatoes","price":3.99,"unit":"kg","category":"Vegetables","inventory":20}`,
		`{"name":"Eggs","price":4.99,"unit":"dozen","category":"Dairy & Eggs","inventory":10}`,
	} {
		w = h.do(http.MethodPost, "/farmer/products", grower, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var p struct{ ID, Name string }
		decode(t, w, &p)
		productIDs[p.Name] = p.ID
	}

	// Buyer browses and fills the cart.
	w = h.do(http.MethodGet, "/products?sort=price-low", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))

	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/user/cart", buyer, `{"product_id":"`+productIDs["Tomatoes"]+`"}`).Code)
	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/user/cart", buyer, `{"product_id":"`+productIDs["Tomatoes"]+`"}`).Code)
	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/user/cart", buyer, `{"product_id":"`+productIDs["Eggs"]+`","quantity":1}`).Code)

	w = h.do(http.MethodGet, "/user/cart", buyer, "")
	var cart struct {
		ItemCount int     `json:"item_count"`
		CartTotal float64 `json:"cart_total"`
	}
	decode(t, w, &cart)
	assert.Equal(t, 3, cart.ItemCount)
	assert.InDelta(t, 12.97, cart.CartTotal, 0.0001)

	// Checkout, then retry with the same key.
	w = h.do(http.MethodPost, "/user/checkout", buyer, `{"shipping_address":"12 MG Road, Pune"}`, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed struct {
		Order struct {
			ID          string  `json:"id"`
			TotalAmount float64 `json:"total_amount"`
			Status      string  `json:"status"`
		} `json:"order"`
	}
	decode(t, w, &placed)
	assert.InDelta(t, 12.97, placed.Order.TotalAmount, 0.0001)
	assert.Equal(t, "pending", placed.Order.Status)

	w = h.do(http.MethodPost, "/user/checkout", buyer, `{"shipping_address":"12 MG Road, Pune"}`, "Idempotency-Key", "k-1")
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/user/cart", buyer, "")
	decode(t, w, &cart)
	assert.Zero(t, cart.ItemCount)

	// Orders are private to their owner.
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/user/orders/"+placed.Order.ID, buyer, "").Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/user/orders/"+placed.Order.ID, grower, "").Code)

	// The farmer sees the sale.
	w = h.do(http.MethodGet, "/farmer/dashboard", grower, "")
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		Stats struct {
			UnitsSold int     `json:"units_sold"`
			Revenue   float64 `json:"revenue"`
		} `json:"stats"`
	}
	decode(t, w, &dash)
	assert.Equal(t, 3, dash.Stats.UnitsSold)
	assert.InDelta(t, 12.97, dash.Stats.Revenue, 0.0001)

	// Profile created at login from the display name.
	w = h.do(http.MethodGet, "/user/profile", buyer, "")
	assert.Contains(t, w.Body.String(), `"first_name":"Asha"`)
}
