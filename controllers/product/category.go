package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/catalog"
)

// GetCatalogFacets lists the categories, locations and specialties present in
// the catalog, for the filter sidebars.
// GET /catalog/facets
func GetCatalogFacets(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		products, err := env.Catalog.Products(ctx, catalog.LoadProducts(env.DB))
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch products", err)
			return
		}
		farmers, err := env.Catalog.Farmers(ctx, catalog.LoadFarmers(env.DB))
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch farmers", err)
			return
		}
		c.JSON(http.StatusOK, catalog.BuildFacets(products, farmers))
	}
}
