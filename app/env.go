package app

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/cache"
	"github.com/junaidrashid-git/farmfresh-api/metrics"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/junaidrashid-git/farmfresh-api/realtime"
	"github.com/junaidrashid-git/farmfresh-api/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Env carries the shared dependencies handed to every handler factory.
type Env struct {
	DB      *gorm.DB
	Catalog *cache.Catalog
	Events  realtime.Publisher
	Images  storage.ImageStore
	Metrics *metrics.Collector
	Log     *zap.Logger
}

// NewTestEnv wires db with no-op collaborators.
func NewTestEnv(db *gorm.DB) *Env {
	return &Env{
		DB:     db,
		Events: realtime.Nop{},
		Log:    zap.NewNop(),
	}
}

// Fail logs err and aborts with an {"error": msg} body.
func (e *Env) Fail(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		fields := []zap.Field{
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		}
		if uid := c.GetString("user_id"); uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}
		if status >= 500 {
			e.Log.Error(msg, fields...)
		} else {
			e.Log.Debug(msg, fields...)
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// UserID returns the authenticated caller set by middleware.ValidateToken.
func UserID(c *gin.Context) (string, bool) {
	uid := c.GetString("user_id")
	return uid, uid != ""
}

const farmerKey = "farmer"

// SetFarmer stores the caller's farmer record for the rest of the chain.
func SetFarmer(c *gin.Context, f *models.Farmer) {
	c.Set(farmerKey, f)
}

// Farmer returns the record stored by SetFarmer.
func Farmer(c *gin.Context) (*models.Farmer, bool) {
	v, ok := c.Get(farmerKey)
	if !ok {
		return nil, false
	}
	f, ok := v.(*models.Farmer)
	return f, ok && f != nil
}
