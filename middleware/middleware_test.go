package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoUser(c *gin.Context) {
	c.String(http.StatusOK, c.GetString("user_id"))
}

func TestValidateToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	token, _, err := tokens.Issue("user-9", "", auth.RoleUser)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", ValidateToken(tokens), echoUser)

	for _, header := range []string{"Bearer " + token, "bearer " + token, token} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-9", w.Body.String())
	}

	for _, header := range []string{"", "Bearer ", "Bearer garbage"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestValidateQueryToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	token, _, err := tokens.Issue("user-3", "", auth.RoleUser)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/ws", ValidateQueryToken(tokens), echoUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	assert.Equal(t, "user-3", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.GET("/admin", ValidateAPIKey("k3y"), ok)
	r.GET("/disabled", ValidateAPIKey(""), ok)

	send := func(path, key string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if key != "" {
			req.Header.Set("X-API-KEY", key)
		}
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusNoContent, send("/admin", "k3y"))
	assert.Equal(t, http.StatusUnauthorized, send("/admin", "nope"))
	assert.Equal(t, http.StatusUnauthorized, send("/admin", ""))
	assert.Equal(t, http.StatusUnauthorized, send("/disabled", ""))
}
