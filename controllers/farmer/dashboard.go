package farmerController

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/junaidrashid-git/farmfresh-api/realtime"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrFarmerExists   = errors.New("user is already registered as a farmer")
	ErrFarmerNotFound = errors.New("farmer profile not found")
)

// Defaults applied to fields the sign-up form does not ask for.
const (
	defaultDescription = "Local farmer"
	defaultDistance    = "Nearby"
	defaultFarmSize    = "Small farm"
)

type RegisterInput struct {
	Name          string   `json:"name" binding:"required,min=3"`
	Location      string   `json:"location" binding:"required,min=3"`
	ContactPhone  string   `json:"contact_phone" binding:"required,min=10"`
	ContactEmail  string   `json:"contact_email" binding:"omitempty,email"`
	Description   string   `json:"description"`
	Specialty     []string `json:"specialty"`
	Organic       bool     `json:"organic"`
	Image         string   `json:"image" binding:"omitempty,url|startswith=/"`
	FarmSize      string   `json:"farm_size"`
	YearsFarming  int      `json:"years_farming" binding:"min=0"`
	Certification []string `json:"certification"`
}

// ProfileInput is a partial update of the farmer's public profile.
type ProfileInput struct {
	Name          *string   `json:"name" binding:"omitempty,min=3"`
	Location      *string   `json:"location" binding:"omitempty,min=3"`
	ContactPhone  *string   `json:"contact_phone" binding:"omitempty,min=10"`
	ContactEmail  *string   `json:"contact_email" binding:"omitempty,email"`
	Description   *string   `json:"description"`
	Specialty     *[]string `json:"specialty"`
	Organic       *bool     `json:"organic"`
	Image         *string   `json:"image" binding:"omitempty,url|startswith=/"`
	Avatar        *string   `json:"avatar" binding:"omitempty,url|startswith=/"`
	FarmSize      *string   `json:"farm_size"`
	YearsFarming  *int      `json:"years_farming" binding:"omitempty,min=0"`
	Certification *[]string `json:"certification"`
}

// Stats summarises a farmer's listing and sales.
type Stats struct {
	ProductCount   int     `json:"product_count"`
	TotalInventory int     `json:"total_inventory"`
	UnitsSold      int     `json:"units_sold"`
	Revenue        float64 `json:"revenue"`
}

type Dashboard struct {
	Farmer   *models.Farmer   `json:"farmer"`
	Products []models.Product `json:"products"`
	Stats    Stats            `json:"stats"`
}

// OwnFarmer returns the farmer record owned by userID.
func OwnFarmer(ctx context.Context, db *gorm.DB, userID string) (*models.Farmer, error) {
	var farmer models.Farmer
	err := db.WithContext(ctx).First(&farmer, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFarmerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load farmer for user %s: %w", userID, err)
	}
	return &farmer, nil
}

// Register creates the farmer record for userID. A user owns at most one.
func Register(ctx context.Context, db *gorm.DB, userID, email string, in RegisterInput) (*models.Farmer, error) {
	_, err := OwnFarmer(ctx, db, userID)
	if err == nil {
		return nil, ErrFarmerExists
	}
	if !errors.Is(err, ErrFarmerNotFound) {
		return nil, err
	}

	farmer := models.Farmer{
		UserID:        &userID,
		Name:          strings.TrimSpace(in.Name),
		Location:      strings.TrimSpace(in.Location),
		ContactPhone:  strings.TrimSpace(in.ContactPhone),
		ContactEmail:  strings.TrimSpace(in.ContactEmail),
		Description:   strings.TrimSpace(in.Description),
		Specialty:     in.Specialty,
		Organic:       in.Organic,
		Image:         in.Image,
		Distance:      defaultDistance,
		FarmSize:      strings.TrimSpace(in.FarmSize),
		YearsFarming:  in.YearsFarming,
		Certification: in.Certification,
	}
	if farmer.ContactEmail == "" {
		farmer.ContactEmail = email
	}
	if farmer.Description == "" {
		farmer.Description = defaultDescription
	}
	if farmer.FarmSize == "" {
		farmer.FarmSize = defaultFarmSize
	}
	if farmer.Specialty == nil {
		farmer.Specialty = []string{}
	}
	if farmer.Certification == nil {
		farmer.Certification = []string{}
	}

	if err := db.WithContext(ctx).Create(&farmer).Error; err != nil {
		// Unique user_id index catches a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrFarmerExists
		}
		return nil, fmt.Errorf("create farmer: %w", err)
	}
	return &farmer, nil
}

// LoadDashboard gathers the farmer's products, newest first, and sales stats.
func LoadDashboard(ctx context.Context, db *gorm.DB, farmer *models.Farmer) (*Dashboard, error) {
	db = db.WithContext(ctx)

	var products []models.Product
	if err := db.Where("farmer_id = ?", farmer.ID).Order("created_at desc, id desc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list farmer products: %w", err)
	}

	stats := Stats{ProductCount: len(products)}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		stats.TotalInventory += p.Inventory
		ids = append(ids, p.ID)
	}

	if len(ids) > 0 {
		var sales struct {
			Units   int
			Revenue float64
		}
		err := db.Model(&models.OrderItem{}).
			Select("COALESCE(SUM(quantity), 0) AS units, COALESCE(SUM(price * quantity), 0) AS revenue").
			Where("product_id IN ?", ids).
			Scan(&sales).Error
		if err != nil {
			return nil, fmt.Errorf("sum farmer sales: %w", err)
		}
		stats.UnitsSold = sales.Units
		stats.Revenue = models.Round2(sales.Revenue)
	}

	return &Dashboard{Farmer: farmer, Products: products, Stats: stats}, nil
}

// UpdateProfile applies the non-nil fields of in.
func UpdateProfile(ctx context.Context, db *gorm.DB, farmer *models.Farmer, in ProfileInput) (*models.Farmer, error) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&farmer.Name, in.Name)
	setString(&farmer.Location, in.Location)
	setString(&farmer.ContactPhone, in.ContactPhone)
	setString(&farmer.ContactEmail, in.ContactEmail)
	setString(&farmer.Description, in.Description)
	setString(&farmer.Image, in.Image)
	setString(&farmer.Avatar, in.Avatar)
	setString(&farmer.FarmSize, in.FarmSize)
	if in.Specialty != nil {
		farmer.Specialty = *in.Specialty
	}
	if in.Certification != nil {
		farmer.Certification = *in.Certification
	}
	if in.Organic != nil {
		farmer.Organic = *in.Organic
	}
	if in.YearsFarming != nil {
		farmer.YearsFarming = *in.YearsFarming
	}

	if err := db.WithContext(ctx).Omit("Products").Save(farmer).Error; err != nil {
		return nil, fmt.Errorf("update farmer %s: %w", farmer.ID, err)
	}
	return farmer, nil
}

// RequireFarmer loads the caller's farmer record into the context, or
// rejects the request with 403 when the caller has none.
func RequireFarmer(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		farmer, err := OwnFarmer(c.Request.Context(), env.DB, userID)
		if errors.Is(err, ErrFarmerNotFound) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Farmer profile required"})
			return
		}
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to load farmer profile", err)
			return
		}
		app.SetFarmer(c, farmer)
		c.Next()
	}
}

// POST /farmer/register
func RegisterFarmer(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		farmer, err := Register(c.Request.Context(), env.DB, userID, c.GetString("email"), input)
		switch {
		case errors.Is(err, ErrFarmerExists):
			c.JSON(http.StatusConflict, gin.H{"error": "You are already registered as a farmer"})
			return
		case err != nil:
			env.Fail(c, http.StatusInternalServerError, "Failed to register farmer", err)
			return
		}

		env.Catalog.Invalidate(c.Request.Context())
		env.Log.Info("farmer registered", zap.String("user_id", userID), zap.String("farmer_id", farmer.ID))
		c.JSON(http.StatusCreated, farmer)
	}
}

// GET /farmer/dashboard
func GetDashboard(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmer, ok := app.Farmer(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Farmer profile required"})
			return
		}

		dashboard, err := LoadDashboard(c.Request.Context(), env.DB, farmer)
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to load dashboard", err)
			return
		}
		c.JSON(http.StatusOK, dashboard)
	}
}

// GET /farmer/profile
func GetFarmerProfile(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmer, ok := app.Farmer(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Farmer profile required"})
			return
		}
		c.JSON(http.StatusOK, farmer)
	}
}

// PUT /farmer/profile
func UpdateFarmerProfile(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmer, ok := app.Farmer(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Farmer profile required"})
			return
		}

		var input ProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updated, err := UpdateProfile(c.Request.Context(), env.DB, farmer, input)
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to update farmer profile", err)
			return
		}

		env.Catalog.Invalidate(c.Request.Context())
		env.Events.Publish(realtime.Event{
			Type:    realtime.EventProductChanged,
			Payload: gin.H{"action": "farmer_updated", "farmer_id": updated.ID},
		})
		c.JSON(http.StatusOK, updated)
	}
}
