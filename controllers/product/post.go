package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
)

// CreateProduct adds a product to the calling farmer's listing.
// POST /farmer/products
func CreateProduct(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmer, ok := currentFarmer(c)
		if !ok {
			return
		}
		input, ok := bindProduct(c)
		if !ok {
			return
		}

		product, err := CreateFarmerProduct(c.Request.Context(), env.DB, farmer, input)
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to create product", err)
			return
		}

		productChanged(c, env, ProductChange{Action: "created", ProductID: product.ID, FarmerID: farmer.ID, Product: product})
		c.JSON(http.StatusCreated, product)
	}
}
