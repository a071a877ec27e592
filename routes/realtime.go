package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/middleware"
)

// SetupRealtimeRoutes registers the websocket feed. Browsers cannot set
// headers on an upgrade, so the JWT travels in ?token=.
func SetupRealtimeRoutes(r *gin.Engine, d Deps) {
	if d.Hub == nil {
		return
	}
	r.GET("/realtime/ws", middleware.ValidateQueryToken(d.Tokens), d.Hub.Handler())
}
