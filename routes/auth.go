package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/auth"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		// ID token from the identity provider in, session JWT out
		authGroup.POST("/login", auth.LoginHandler(d.Env.DB, d.Verifier, d.Tokens, d.Env.Log))
	}
}
