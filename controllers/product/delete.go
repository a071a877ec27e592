package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
)

// DELETE /farmer/products/:id
func DeleteProduct(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmer, ok := currentFarmer(c)
		if !ok {
			return
		}

		product, err := DeleteFarmerProduct(c.Request.Context(), env.DB, farmer, c.Param("id"))
		if err != nil {
			writeError(c, env, "Failed to delete product", err)
			return
		}

		productChanged(c, env, ProductChange{Action: "deleted", ProductID: product.ID, FarmerID: farmer.ID})
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
