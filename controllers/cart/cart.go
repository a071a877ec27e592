package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/realtime"
	"go.uber.org/zap"
)

type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateItemInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GET /user/cart
func GetUserCart(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		items, err := ListCart(c.Request.Context(), env.DB, userID)
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch cart", err)
			return
		}
		c.JSON(http.StatusOK, Summarize(items))
	}
}

// POST /user/cart
func AddCartItem(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		qty := 1
		if input.Quantity != nil {
			qty = *input.Quantity
		}

		item, err := AddToCart(c.Request.Context(), env.DB, userID, input.ProductID, qty)
		switch {
		case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case err != nil:
			env.Fail(c, http.StatusInternalServerError, "Failed to add item to cart", err)
			return
		}

		env.Metrics.CartOp("add")
		env.Log.Info("cart item added",
			zap.String("user_id", userID),
			zap.String("product_id", item.ProductID),
			zap.Int("quantity", item.Quantity))
		c.JSON(http.StatusCreated, gin.H{"item": item, "cart": publishCart(c, env, userID)})
	}
}

// PUT /user/cart/:id
func UpdateCartItem(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, removed, err := UpdateQuantity(c.Request.Context(), env.DB, userID, c.Param("id"), *input.Quantity)
		switch {
		case errors.Is(err, ErrCartItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		case err != nil:
			env.Fail(c, http.StatusInternalServerError, "Failed to update cart item", err)
			return
		}

		op := "update"
		if removed {
			op = "remove"
		}
		env.Metrics.CartOp(op)
		c.JSON(http.StatusOK, gin.H{"item": item, "removed": removed, "cart": publishCart(c, env, userID)})
	}
}

// DELETE /user/cart/:id
func DeleteCartItem(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		err := RemoveItem(c.Request.Context(), env.DB, userID, c.Param("id"))
		switch {
		case errors.Is(err, ErrCartItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		case err != nil:
			env.Fail(c, http.StatusInternalServerError, "Failed to delete item", err)
			return
		}

		env.Metrics.CartOp("remove")
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted", "cart": publishCart(c, env, userID)})
	}
}

// DELETE /user/cart
func ClearUserCart(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if _, err := ClearCart(c.Request.Context(), env.DB, userID); err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to clear cart", err)
			return
		}

		env.Metrics.CartOp("clear")
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared", "cart": publishCart(c, env, userID)})
	}
}

// publishCart reloads the cart and pushes it to the user's sockets. A reload
// failure is logged and an empty summary is returned.
func publishCart(c *gin.Context, env *app.Env, userID string) Summary {
	items, err := ListCart(c.Request.Context(), env.DB, userID)
	if err != nil {
		env.Log.Warn("reload cart after write", zap.String("user_id", userID), zap.Error(err))
		return Summarize(nil)
	}
	summary := Summarize(items)
	env.Events.Publish(realtime.Event{
		Type:    realtime.EventCartUpdated,
		UserID:  userID,
		Payload: summary,
	})
	return summary
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		items, err := ListCart(c.Request.Context(), env.DB, userID)
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch cart", err)
			return
		}
		c.JSON(http.StatusOK, Summarize(items))
	}
}
