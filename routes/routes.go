package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/auth"
	"github.com/junaidrashid-git/farmfresh-api/logger"
	"github.com/junaidrashid-git/farmfresh-api/realtime"
)

// Deps is everything the route groups need beyond the shared handler Env.
type Deps struct {
	Env         *app.Env
	Tokens      *auth.TokenIssuer
	Verifier    auth.IdentityVerifier // nil disables /auth/login
	AdminAPIKey string
	Hub         *realtime.Hub // nil disables /realtime/ws
	CORSOrigins []string

	// UploadDir is served at PublicUploadPath when images are stored locally.
	UploadDir        string
	PublicUploadPath string
}

// NewRouter builds the engine with the shared middleware and every route group.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(d.Env.Log))
	r.Use(d.Env.Metrics.Middleware())
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Env.Metrics != nil {
		r.GET("/metrics", d.Env.Metrics.Handler())
	}
	if d.UploadDir != "" && d.PublicUploadPath != "" {
		r.Static(d.PublicUploadPath, d.UploadDir)
	}

	SetupRoutes(r, d)
	return r
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// 1️⃣ Public auth + catalog routes
	SetupAuthRoutes(r, d)
	SetupCatalogRoutes(r, d)

	// 2️⃣ User routes (JWT-protected)
	SetupUserRoutes(r, d)
	SetupOrderRoutes(r, d)

	// 3️⃣ Farmer dashboard (JWT + farmer record)
	SetupFarmerRoutes(r, d)

	// 4️⃣ Admin routes (API-key-protected)
	SetupAdminRoutes(r, d)

	// 5️⃣ Realtime feed
	SetupRealtimeRoutes(r, d)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Total-Count"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: true,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
