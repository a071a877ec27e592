package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/junaidrashid-git/farmfresh-api/realtime"
	"go.uber.org/zap"
)

// ProductChange is the payload of a product.changed event.
type ProductChange struct {
	Action    string          `json:"action"` // created, updated, deleted, imported
	ProductID string          `json:"product_id,omitempty"`
	FarmerID  string          `json:"farmer_id"`
	Product   *models.Product `json:"product,omitempty"`
}

// productChanged drops the cached catalog and tells every subscriber.
func productChanged(c *gin.Context, env *app.Env, change ProductChange) {
	env.Catalog.Invalidate(c.Request.Context())
	env.Events.Publish(realtime.Event{Type: realtime.EventProductChanged, Payload: change})
	env.Log.Info("product "+change.Action,
		zap.String("farmer_id", change.FarmerID),
		zap.String("product_id", change.ProductID))
}

// writeError maps ownership errors to 404/403 and everything else to 500.
func writeError(c *gin.Context, env *app.Env, msg string, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, ErrNotProductOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only manage your own products"})
	default:
		env.Fail(c, http.StatusInternalServerError, msg, err)
	}
}

func currentFarmer(c *gin.Context) (*models.Farmer, bool) {
	f, ok := app.Farmer(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Farmer profile required"})
	}
	return f, ok
}

func bindProduct(c *gin.Context) (ProductInput, bool) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return input, false
	}
	if err := input.Normalize(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return input, false
	}
	return input, true
}
