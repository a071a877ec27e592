package routes

import (
	"github.com/gin-gonic/gin"
	farmerController "github.com/junaidrashid-git/farmfresh-api/controllers/farmer"
	productcontroller "github.com/junaidrashid-git/farmfresh-api/controllers/product"
)

// SetupCatalogRoutes registers the public browsing endpoints.
func SetupCatalogRoutes(r *gin.Engine, d Deps) {
	r.GET("/products", productcontroller.GetProducts(d.Env))
	r.GET("/products/featured", productcontroller.GetFeaturedProducts(d.Env))
	r.GET("/products/:id", productcontroller.GetProduct(d.Env))

	r.GET("/farmers", farmerController.GetFarmers(d.Env))
	r.GET("/farmers/:id", farmerController.GetFarmer(d.Env))

	r.GET("/catalog/facets", productcontroller.GetCatalogFacets(d.Env))
}
