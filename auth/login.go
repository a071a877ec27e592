package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *models.Profile `json:"profile"`
	FarmerID  string          `json:"farmer_id,omitempty"`
}

// POST /auth/login
//
// Exchanges an identity-provider ID token for a session token. The first
// login creates the user's profile from the provider's display name.
func LoginHandler(db *gorm.DB, verifier IdentityVerifier, tokens *TokenIssuer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Login is not configured"})
			return
		}

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		id, err := verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			log.Warn("id token verification failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or revoked ID token"})
			return
		}

		profile, err := EnsureProfile(c.Request.Context(), db, id)
		if err != nil {
			log.Error("ensure profile", zap.String("user_id", id.UID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}

		var farmer models.Farmer
		farmerID := ""
		err = db.WithContext(c.Request.Context()).Select("id").Where("user_id = ?", id.UID).First(&farmer).Error
		switch {
		case err == nil:
			farmerID = farmer.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			log.Error("farmer lookup", zap.String("user_id", id.UID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		token, exp, err := tokens.Issue(id.UID, id.Email, RoleUser)
		if err != nil {
			log.Error("issue token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: exp, Profile: profile, FarmerID: farmerID})
	}
}

// EnsureProfile returns the user's profile, creating it on first login.
func EnsureProfile(ctx context.Context, db *gorm.DB, id *Identity) (*models.Profile, error) {
	first, last := splitName(id.Name)
	firstOrCreate := func() (*models.Profile, error) {
		profile := models.Profile{ID: id.UID}
		err := db.WithContext(ctx).
			Where(models.Profile{ID: id.UID}).
			Attrs(models.Profile{FirstName: first, LastName: last}).
			FirstOrCreate(&profile).Error
		return &profile, err
	}

	profile, err := firstOrCreate()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent first login inserted the row between our read and insert.
		profile, err = firstOrCreate()
	}
	if err != nil {
		return nil, fmt.Errorf("ensure profile %s: %w", id.UID, err)
	}
	return profile, nil
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
