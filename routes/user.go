package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/farmfresh-api/controllers/cart"
	userControllers "github.com/junaidrashid-git/farmfresh-api/controllers/user"
	"github.com/junaidrashid-git/farmfresh-api/middleware"
)

// SetupUserRoutes registers the "/user/*" profile and cart endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.Tokens))
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/profile", userControllers.GetProfile(d.Env))         // GET /user/profile
		userGroup.PUT("/profile", userControllers.UpdateUserProfile(d.Env)) // PUT /user/profile

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(d.Env))           // GET /user/cart
			cartGroup.POST("", cartControllers.AddCartItem(d.Env))          // POST /user/cart
			cartGroup.PUT("/:id", cartControllers.UpdateCartItem(d.Env))    // PUT /user/cart/:id
			cartGroup.DELETE("/:id", cartControllers.DeleteCartItem(d.Env)) // DELETE /user/cart/:id
			cartGroup.DELETE("", cartControllers.ClearUserCart(d.Env))      // DELETE /user/cart
		}
	}
}
