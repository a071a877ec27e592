package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/catalog"
)

const defaultFeaturedLimit = 8

// GET /products?category=&search=&farmer_id=&organic=&featured=&min_price=&max_price=&sort=
func GetProducts(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1️⃣ Filtering & sorting params
		query := catalog.ProductQuery{
			Category:     c.Query("category"),
			Search:       c.Query("search"),
			FarmerID:     c.Query("farmer_id"),
			OrganicOnly:  queryBool(c, "organic"),
			FeaturedOnly: queryBool(c, "featured"),
			Sort:         c.DefaultQuery("sort", catalog.SortRecommended),
		}
		for _, bound := range []struct {
			name string
			dst  **float64
		}{{"min_price", &query.MinPrice}, {"max_price", &query.MaxPrice}} {
			raw := strings.TrimSpace(c.Query(bound.name))
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + bound.name})
				return
			}
			*bound.dst = &v
		}

		// 2️⃣ Snapshot from cache or database
		products, err := env.Catalog.Products(c.Request.Context(), catalog.LoadProducts(env.DB))
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch products", err)
			return
		}

		// 3️⃣ Filter, sort, return
		result := catalog.FilterProducts(products, query)
		c.Header("X-Total-Count", strconv.Itoa(len(result)))
		c.JSON(http.StatusOK, result)
	}
}

// GET /products/featured?limit=
func GetFeaturedProducts(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultFeaturedLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
			limit = n
		}

		products, err := env.Catalog.Products(c.Request.Context(), catalog.LoadProducts(env.DB))
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch products", err)
			return
		}

		result := catalog.FilterProducts(products, catalog.ProductQuery{FeaturedOnly: true, Sort: catalog.SortRecommended})
		if len(result) > limit {
			result = result[:limit]
		}
		c.JSON(http.StatusOK, result)
	}
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
