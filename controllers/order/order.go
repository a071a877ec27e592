package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/junaidrashid-git/farmfresh-api/realtime"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCartEmpty      = errors.New("cart is empty")
	ErrInvalidAddress = errors.New("invalid shipping address")
	ErrOrderNotFound  = errors.New("order not found")
)

const minAddressLen = 5

// IdempotencyHeader lets a client retry checkout without placing a second order.
const IdempotencyHeader = "Idempotency-Key"

// -------- Request Structs --------

// CheckoutRequest accepts either a full address string or the structured
// address form of the checkout page.
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	PostalCode      string `json:"postal_code"`
}

// CheckoutError records which write of the checkout failed.
type CheckoutError struct {
	Stage string
	Err   error
}

func (e *CheckoutError) Error() string { return "checkout " + e.Stage + ": " + e.Err.Error() }
func (e *CheckoutError) Unwrap() error { return e.Err }

// -------- Helpers --------

// FormatAddress returns the single-line shipping address.
func (r CheckoutRequest) FormatAddress() (string, error) {
	if full := strings.TrimSpace(r.ShippingAddress); full != "" {
		if len(full) < minAddressLen {
			return "", fmt.Errorf("%w: must be at least %d characters", ErrInvalidAddress, minAddressLen)
		}
		return full, nil
	}

	street := strings.TrimSpace(r.Address)
	city := strings.TrimSpace(r.City)
	state := strings.TrimSpace(r.State)
	postal := strings.TrimSpace(r.PostalCode)
	switch {
	case len(street) < minAddressLen:
		return "", fmt.Errorf("%w: address must be at least %d characters", ErrInvalidAddress, minAddressLen)
	case city == "":
		return "", fmt.Errorf("%w: city is required", ErrInvalidAddress)
	case state == "":
		return "", fmt.Errorf("%w: state is required", ErrInvalidAddress)
	case postal == "":
		return "", fmt.Errorf("%w: postal code is required", ErrInvalidAddress)
	}
	return fmt.Sprintf("%s, %s, %s %s", street, city, state, postal), nil
}

func stageOf(err error) string {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce.Stage
	}
	if errors.Is(err, ErrCartEmpty) {
		return "cart"
	}
	return "unknown"
}

func itemsByName(db *gorm.DB) *gorm.DB {
	return db.Order("product_name asc, id asc")
}

// -------- Core Logic --------

// PlaceOrder turns the user's cart into a pending order. The order, its items
// and the cart deletion commit together. With a non-empty idemKey a repeat
// call returns the order created by the first one and replayed=true.
func PlaceOrder(ctx context.Context, db *gorm.DB, userID, address, idemKey string) (order *models.Order, replayed bool, err error) {
	db = db.WithContext(ctx)

	var key *string
	if idemKey = strings.TrimSpace(idemKey); idemKey != "" {
		key = &idemKey
		existing, err := findByKey(db, userID, idemKey)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, true, nil
		}
	}

	var cart []models.CartItem
	if err := db.Where("user_id = ?", userID).Order("created_at asc, id asc").Find(&cart).Error; err != nil {
		return nil, false, &CheckoutError{Stage: "cart", Err: err}
	}
	if len(cart) == 0 {
		return nil, false, ErrCartEmpty
	}

	order = &models.Order{
		UserID:          userID,
		TotalAmount:     models.CartTotal(cart),
		ShippingAddress: address,
		Status:          models.OrderStatusPending,
		IdempotencyKey:  key,
	}
	lineIDs := make([]string, 0, len(cart))
	items := make([]models.OrderItem, 0, len(cart))
	for _, line := range cart {
		lineIDs = append(lineIDs, line.ID)
		items = append(items, models.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			ProductImage: line.ProductImage,
			Quantity:     line.Quantity,
			Price:        line.Price,
		})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return &CheckoutError{Stage: "order", Err: err}
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return &CheckoutError{Stage: "items", Err: err}
		}
		// Only the lines that were priced into the order are removed.
		if err := tx.Where("user_id = ? AND id IN ?", userID, lineIDs).Delete(&models.CartItem{}).Error; err != nil {
			return &CheckoutError{Stage: "clear_cart", Err: err}
		}
		return nil
	})
	if err != nil {
		if key != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, findErr := findByKey(db, userID, idemKey)
			if findErr == nil && existing != nil {
				return existing, true, nil
			}
		}
		return nil, false, err
	}

	order.Items = items
	sortItems(order.Items)
	return order, false, nil
}

func findByKey(db *gorm.DB, userID, key string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items", itemsByName).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup idempotency key: %w", err)
	}
	return &order, nil
}

func sortItems(items []models.OrderItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].ProductName < items[j].ProductName })
}

// ListOrders returns the user's orders newest first, with their items.
func ListOrders(ctx context.Context, db *gorm.DB, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := db.WithContext(ctx).
		Preload("Items", itemsByName).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one of the user's orders. Orders of other users are
// reported as not found.
func GetOrder(ctx context.Context, db *gorm.DB, userID, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.WithContext(ctx).
		Preload("Items", itemsByName).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return &order, nil
}

// -------- Handlers --------

// POST /user/checkout
func Checkout(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		address, err := req.FormatAddress()
		if err != nil {
			env.Metrics.CheckoutFailed("validate")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, replayed, err := PlaceOrder(c.Request.Context(), env.DB, userID, address, c.GetHeader(IdempotencyHeader))
		if err != nil {
			env.Metrics.CheckoutFailed(stageOf(err))
			if errors.Is(err, ErrCartEmpty) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
				return
			}
			env.Fail(c, http.StatusInternalServerError, "Failed to place order", err)
			return
		}

		if replayed {
			c.JSON(http.StatusOK, gin.H{"order": order, "replayed": true})
			return
		}

		env.Metrics.OrderPlaced()
		env.Log.Info("order placed",
			zap.String("user_id", userID),
			zap.String("order_id", order.ID),
			zap.Float64("total_amount", order.TotalAmount),
			zap.Int("items", len(order.Items)))
		env.Events.Publish(realtime.Event{Type: realtime.EventOrderCreated, UserID: userID, Payload: order})
		env.Events.Publish(realtime.Event{
			Type:    realtime.EventCartUpdated,
			UserID:  userID,
			Payload: gin.H{"items": []models.CartItem{}, "item_count": 0, "cart_total": 0},
		})
		c.JSON(http.StatusCreated, gin.H{"order": order, "replayed": false})
	}
}

// GET /user/orders
func GetUserOrders(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		orders, err := ListOrders(c.Request.Context(), env.DB, userID)
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch orders", err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:id
func GetUserOrder(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		order, err := GetOrder(c.Request.Context(), env.DB, userID, c.Param("id"))
		switch {
		case errors.Is(err, ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		case err != nil:
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch order", err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders?status=&user_id=
func GetAllOrders(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := env.DB.WithContext(c.Request.Context()).Preload("Items", itemsByName)
		if status := strings.ToLower(strings.TrimSpace(c.Query("status"))); status != "" {
			query = query.Where("status = ?", status)
		}
		if userID := strings.TrimSpace(c.Query("user_id")); userID != "" {
			query = query.Where("user_id = ?", userID)
		}

		var orders []models.Order
		if err := query.Order("created_at desc, id desc").Find(&orders).Error; err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch orders", err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
