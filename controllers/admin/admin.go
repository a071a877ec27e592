package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/junaidrashid-git/farmfresh-api/realtime"
	"go.uber.org/zap"
)

type FeaturedInput struct {
	Featured *bool `json:"featured" binding:"required"`
}

// PUT /admin/farmers/:id/featured
func SetFarmerFeatured(env *app.Env) gin.HandlerFunc {
	return setFeatured(env, func() interface{} { return &models.Farmer{} }, "farmer")
}

// PUT /admin/products/:id/featured
func SetProductFeatured(env *app.Env) gin.HandlerFunc {
	return setFeatured(env, func() interface{} { return &models.Product{} }, "product")
}

func setFeatured(env *app.Env, newModel func() interface{}, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input FeaturedInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		id := c.Param("id")
		res := env.DB.WithContext(c.Request.Context()).
			Model(newModel()).
			Where("id = ?", id).
			Update("featured", *input.Featured)
		if res.Error != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to update "+kind, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		env.Catalog.Invalidate(c.Request.Context())
		env.Events.Publish(realtime.Event{
			Type:    realtime.EventProductChanged,
			Payload: gin.H{"action": kind + "_featured", "id": id, "featured": *input.Featured},
		})
		env.Log.Info(kind+" featured flag set", zap.String("id", id), zap.Bool("featured", *input.Featured))
		c.JSON(http.StatusOK, gin.H{"id": id, "featured": *input.Featured})
	}
}
