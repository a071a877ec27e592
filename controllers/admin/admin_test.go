package adminController

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/database/dbtest"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/junaidrashid-git/farmfresh-api/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFeatured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.New(t)
	events := &realtime.Recorder{}
	env := app.NewTestEnv(db)
	env.Events = events

	farmer := models.Farmer{Name: "Hill Top", Location: "Pune"}
	require.NoError(t, db.Create(&farmer).Error)
	product := models.Product{FarmerID: farmer.ID, Name: "Figs", Price: 6, Unit: "kg", Category: "Fruits"}
	require.NoError(t, db.Create(&product).Error)

	r := gin.New()
	r.PUT("/admin/farmers/:id/featured", SetFarmerFeatured(env))
	r.PUT("/admin/products/:id/featured", SetProductFeatured(env))
	put := func(path, body string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, put("/admin/farmers/"+farmer.ID+"/featured", `{"featured":true}`))
	assert.Equal(t, http.StatusOK, put("/admin/products/"+product.ID+"/featured", `{"featured":true}`))
	assert.Equal(t, http.StatusBadRequest, put("/admin/products/"+product.ID+"/featured", `{}`))
	assert.Equal(t, http.StatusNotFound, put("/admin/products/missing/featured", `{"featured":false}`))

	require.NoError(t, db.First(&farmer, "id = ?", farmer.ID).Error)
	require.NoError(t, db.First(&product, "id = ?", product.ID).Error)
	assert.True(t, farmer.Featured)
	assert.True(t, product.Featured)
	assert.Len(t, events.Events(), 2)
}
