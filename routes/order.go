package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/farmfresh-api/controllers/order"
	"github.com/junaidrashid-git/farmfresh-api/middleware"
)

// SetupOrderRoutes registers checkout and order history. Requires JWT middleware.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.Tokens))
	{
		userGroup.POST("/checkout", orderControllers.Checkout(d.Env))      // POST /user/checkout
		userGroup.GET("/orders", orderControllers.GetUserOrders(d.Env))    // GET /user/orders
		userGroup.GET("/orders/:id", orderControllers.GetUserOrder(d.Env)) // GET /user/orders/:id
	}
}
