package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"gorm.io/gorm"
)

// GET /products/:id
func GetProduct(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		err := env.DB.WithContext(c.Request.Context()).
			Preload("Farmer").
			First(&product, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch product", err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
