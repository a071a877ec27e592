package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/farmfresh-api/controllers/admin"
	cartControllers "github.com/junaidrashid-git/farmfresh-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/farmfresh-api/controllers/order"
	userControllers "github.com/junaidrashid-git/farmfresh-api/controllers/user"
	"github.com/junaidrashid-git/farmfresh-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.AdminAPIKey))
	{
		// ─────────── Users & Orders ───────────
		adminGroup.GET("/profiles", userControllers.GetAllProfiles(d.Env))
		adminGroup.GET("/orders", orderControllers.GetAllOrders(d.Env))
		adminGroup.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(d.Env))

		// ─────────── Catalog Curation ───────────
		adminGroup.PUT("/farmers/:id/featured", adminController.SetFarmerFeatured(d.Env))
		adminGroup.PUT("/products/:id/featured", adminController.SetProductFeatured(d.Env))
	}
}
