package routes

import (
	"github.com/gin-gonic/gin"
	farmerController "github.com/junaidrashid-git/farmfresh-api/controllers/farmer"
	productcontroller "github.com/junaidrashid-git/farmfresh-api/controllers/product"
	"github.com/junaidrashid-git/farmfresh-api/middleware"
)

// SetupFarmerRoutes registers the "/farmer/*" dashboard. Everything except
// registration needs the caller to own a farmer record.
func SetupFarmerRoutes(r *gin.Engine, d Deps) {
	farmerGroup := r.Group("/farmer")
	farmerGroup.Use(middleware.ValidateToken(d.Tokens))
	{
		farmerGroup.POST("/register", farmerController.RegisterFarmer(d.Env))

		owned := farmerGroup.Group("")
		owned.Use(farmerController.RequireFarmer(d.Env))
		{
			owned.GET("/dashboard", farmerController.GetDashboard(d.Env))
			owned.GET("/profile", farmerController.GetFarmerProfile(d.Env))
			owned.PUT("/profile", farmerController.UpdateFarmerProfile(d.Env))

			// ──────────────── Products ────────────────
			owned.POST("/products", productcontroller.CreateProduct(d.Env))
			owned.GET("/products/export", productcontroller.ExportProductsToExcel(d.Env))
			owned.POST("/products/import", productcontroller.ImportProductsFromExcel(d.Env))
			owned.PUT("/products/:id", productcontroller.UpdateProduct(d.Env))
			owned.DELETE("/products/:id", productcontroller.DeleteProduct(d.Env))
			owned.POST("/products/:id/image", productcontroller.UploadProductImage(d.Env))
		}
	}
}
