package userControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/database/dbtest"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileKeepsUnsetFields(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&models.Profile{ID: "u1", FirstName: "Asha", LastName: "Patil"}).Error)

	phone := " 9876543210 "
	p, err := UpdateProfile(ctx, db, "u1", UpdateProfileInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Asha", p.FirstName)
	assert.Equal(t, "Patil", p.LastName)
	assert.Equal(t, "9876543210", p.Phone)

	empty := ""
	p, err = UpdateProfile(ctx, db, "u1", UpdateProfileInput{LastName: &empty})
	require.NoError(t, err)
	assert.Equal(t, "", p.LastName)
	assert.Equal(t, "Asha", p.FullName())
}

func TestLoadProfileCreatesMissingRow(t *testing.T) {
	db := dbtest.New(t)
	p, err := LoadProfile(context.Background(), db, "new-user")
	require.NoError(t, err)
	assert.Equal(t, "new-user", p.ID)

	var n int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestProfileHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.New(t)
	env := app.NewTestEnv(db)
	r := gin.New()
	g := r.Group("/user", func(c *gin.Context) { c.Set("user_id", "u1") })
	g.GET("/profile", GetProfile(env))
	g.PUT("/profile", UpdateUserProfile(env))
	r.GET("/admin/profiles", GetAllProfiles(env))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPut, "/user/profile", `{"phone":"12345"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(http.MethodPut, "/user/profile", `{"first_name":"Ravi","address":"12 MG Road, Pune"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(http.MethodGet, "/user/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	var p models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Ravi", p.FirstName)
	assert.Equal(t, "12 MG Road, Pune", p.Address)

	w = do(http.MethodGet, "/admin/profiles", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}
