package farmerController

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/catalog"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"gorm.io/gorm"
)

// GET /farmers?search=&location=&specialty=&organic=&sort=
func GetFarmers(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		organic, _ := strconv.ParseBool(c.Query("organic"))
		query := catalog.FarmerQuery{
			Search:      c.Query("search"),
			Location:    c.Query("location"),
			Specialty:   c.Query("specialty"),
			OrganicOnly: organic,
			Sort:        c.DefaultQuery("sort", catalog.SortFeatured),
		}

		farmers, err := env.Catalog.Farmers(c.Request.Context(), catalog.LoadFarmers(env.DB))
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch farmers", err)
			return
		}

		result := catalog.FilterFarmers(farmers, query)
		c.Header("X-Total-Count", strconv.Itoa(len(result)))
		c.JSON(http.StatusOK, result)
	}
}

// GET /farmers/:id
func GetFarmer(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var farmer models.Farmer
		err := env.DB.WithContext(c.Request.Context()).
			Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc, id asc") }).
			First(&farmer, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Farmer not found"})
			return
		}
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch farmer", err)
			return
		}
		c.JSON(http.StatusOK, farmer)
	}
}
