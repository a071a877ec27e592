package orderControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/database/dbtest"
	"github.com/junaidrashid-git/farmfresh-api/metrics"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/junaidrashid-git/farmfresh-api/realtime"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fillCart puts the two-line example cart (3.99 x 2, 4.99 x 1) in userID's cart.
func fillCart(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()
	lines := []models.CartItem{
		{UserID: userID, ProductID: "p-tomato", ProductName: "Tomatoes", Quantity: 2, Price: 3.99},
		{UserID: userID, ProductID: "p-eggs", ProductName: "Eggs", Quantity: 1, Price: 4.99},
	}
	require.NoError(t, db.Create(&lines).Error)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestPlaceOrderExample(t *testing.T) {
	db := dbtest.New(t)
	fillCart(t, db, "u1")

	order, replayed, err := PlaceOrder(context.Background(), db, "u1", "12 MG Road, Pune", "")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.InDelta(t, 12.97, order.TotalAmount, 0.0001)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "12 MG Road, Pune", order.ShippingAddress)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Eggs", order.Items[0].ProductName)
	assert.Equal(t, order.TotalAmount, models.OrderTotal(order.Items))

	assert.EqualValues(t, 1, countRows(t, db, &models.Order{}))
	assert.EqualValues(t, 2, countRows(t, db, &models.OrderItem{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.CartItem{}))

	stored, err := GetOrder(context.Background(), db, "u1", order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Tomatoes", stored.Items[1].ProductName)
	assert.Equal(t, 2, stored.Items[1].Quantity)
}

func TestPlaceOrderEmptyCartWritesNothing(t *testing.T) {
	db := dbtest.New(t)

	_, _, err := PlaceOrder(context.Background(), db, "u1", "12 MG Road, Pune", "key-1")
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.EqualValues(t, 0, countRows(t, db, &models.Order{}))
}

func TestPlaceOrderIdempotencyKey(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	fillCart(t, db, "u1")

	first, replayed, err := PlaceOrder(ctx, db, "u1", "12 MG Road, Pune", "retry-1")
	require.NoError(t, err)
	assert.False(t, replayed)

	// The cart is empty now, but the key still resolves to the first order.
	again, replayed, err := PlaceOrder(ctx, db, "u1", "12 MG Road, Pune", "retry-1")
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, again.Items, 2)

	// Keys are scoped per user.
	fillCart(t, db, "u2")
	other, replayed, err := PlaceOrder(ctx, db, "u2", "5 Park Street, Kolkata", "retry-1")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.NotEqual(t, first.ID, other.ID)
	assert.EqualValues(t, 2, countRows(t, db, &models.Order{}))
}

func TestPlaceOrderKeepsLinesAddedByOthers(t *testing.T) {
	db := dbtest.New(t)
	fillCart(t, db, "u1")
	fillCart(t, db, "u2")

	_, _, err := PlaceOrder(context.Background(), db, "u1", "12 MG Road, Pune", "")
	require.NoError(t, err)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", "u2").Count(&remaining).Error)
	assert.EqualValues(t, 2, remaining)
}

func TestGetOrderOwnerOnly(t *testing.T) {
	db := dbtest.New(t)
	fillCart(t, db, "u1")
	order, _, err := PlaceOrder(context.Background(), db, "u1", "12 MG Road, Pune", "")
	require.NoError(t, err)

	_, err = GetOrder(context.Background(), db, "u2", order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestFormatAddress(t *testing.T) {
	cases := []struct {
		name string
		req  CheckoutRequest
		want string
		ok   bool
	}{
		{"full", CheckoutRequest{ShippingAddress: " 12 MG Road, Pune "}, "12 MG Road, Pune", true},
		{"full too short", CheckoutRequest{ShippingAddress: "Pune"}, "", false},
		{"structured", CheckoutRequest{Address: "12 MG Road", City: "Pune", State: "MH", PostalCode: "411001"}, "12 MG Road, Pune, MH 411001", true},
		{"structured short street", CheckoutRequest{Address: "12", City: "Pune", State: "MH", PostalCode: "411001"}, "", false},
		{"structured missing city", CheckoutRequest{Address: "12 MG Road", State: "MH", PostalCode: "411001"}, "", false},
		{"structured missing postal code", CheckoutRequest{Address: "12 MG Road", City: "Pune", State: "MH"}, "", false},
		{"empty", CheckoutRequest{}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.req.FormatAddress()
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func newRouter(env *app.Env, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/user", func(c *gin.Context) { c.Set("user_id", userID) })
	g.POST("/checkout", Checkout(env))
	g.GET("/orders", GetUserOrders(env))
	g.GET("/orders/:id", GetUserOrder(env))
	r.GET("/admin/orders", GetAllOrders(env))
	return r
}

func TestCheckoutHandler(t *testing.T) {
	db := dbtest.New(t)
	events := &realtime.Recorder{}
	m := metrics.New()
	env := app.NewTestEnv(db)
	env.Events = events
	env.Metrics = m
	r := newRouter(env, "u1")

	post := func(body, key string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/user/checkout", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set(IdempotencyHeader, key)
		}
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"shipping_address":"12 MG Road, Pune"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cart is empty")

	w = post(`{"shipping_address":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	fillCart(t, db, "u1")
	w = post(`{"shipping_address":"12 MG Road, Pune"}`, "abc")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Order    models.Order `json:"order"`
		Replayed bool         `json:"replayed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 12.97, resp.Order.TotalAmount, 0.0001)
	assert.Len(t, resp.Order.Items, 2)

	w = post(`{"shipping_address":"12 MG Road, Pune"}`, "abc")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), resp.Order.ID)
	assert.Contains(t, w.Body.String(), `"replayed":true`)

	assert.Equal(t, []string{realtime.EventOrderCreated, realtime.EventCartUpdated}, events.Types())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersPlaced))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutFailures.WithLabelValues("cart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutFailures.WithLabelValues("validate")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/orders", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/orders/"+resp.Order.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/orders/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders?status=pending", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders?status=shipped", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Empty(t, orders)
}
