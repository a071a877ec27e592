package userControllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/auth"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone" binding:"omitempty,min=10"`
	Address   *string `json:"address"`
}

// LoadProfile returns the user's profile, creating an empty one when the
// user has none yet.
func LoadProfile(ctx context.Context, db *gorm.DB, userID string) (*models.Profile, error) {
	return auth.EnsureProfile(ctx, db, &auth.Identity{UID: userID})
}

// UpdateProfile writes the non-nil fields of in and returns the result.
func UpdateProfile(ctx context.Context, db *gorm.DB, userID string, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := LoadProfile(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		updates["address"] = strings.TrimSpace(*in.Address)
	}
	if len(updates) == 0 {
		return profile, nil
	}

	if err := db.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile %s: %w", userID, err)
	}
	return LoadProfile(ctx, db, userID)
}

// GET /user/profile
func GetProfile(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		profile, err := LoadProfile(c.Request.Context(), env.DB, userID)
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch profile", err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// PUT /user/profile
func UpdateUserProfile(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := app.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		profile, err := UpdateProfile(c.Request.Context(), env.DB, userID, input)
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to update profile", err)
			return
		}
		env.Log.Info("profile updated", zap.String("user_id", userID))
		c.JSON(http.StatusOK, profile)
	}
}

// GET /admin/profiles
func GetAllProfiles(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var profiles []models.Profile
		if err := env.DB.WithContext(c.Request.Context()).
			Order("created_at desc").
			Find(&profiles).Error; err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch profiles", err)
			return
		}
		c.JSON(http.StatusOK, profiles)
	}
}
