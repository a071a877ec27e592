package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/junaidrashid-git/farmfresh-api/database/dbtest"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, exp, err := issuer.Issue("user-1", "a@example.com", RoleUser)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, RoleUser, claims.Role)
}

func TestParseRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, _, err := issuer.Issue("user-1", "", RoleUser)
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue("user-1", "", RoleUser)
	require.NoError(t, err)
	_, err = issuer.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")

	noUser, _, err := issuer.Issue("", "", RoleUser)
	require.NoError(t, err)
	_, err = issuer.Parse(noUser)
	assert.ErrorIs(t, err, ErrInvalidToken, "missing user")
}

func TestSplitName(t *testing.T) {
	cases := map[string][2]string{
		"":                   {"", ""},
		"Asha":               {"Asha", ""},
		"Asha Patil":         {"Asha", "Patil"},
		"  Ravi Kumar Rao  ": {"Ravi", "Kumar Rao"},
	}
	for in, want := range cases {
		first, last := splitName(in)
		assert.Equal(t, want, [2]string{first, last}, in)
	}
}

type fakeVerifier struct {
	identity *Identity
	err      error
}

func (f fakeVerifier) Verify(context.Context, string) (*Identity, error) {
	return f.identity, f.err
}

func postLogin(t *testing.T, h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLoginCreatesProfileOnce(t *testing.T) {
	db := dbtest.New(t)
	issuer := NewTokenIssuer("secret", time.Hour)
	v := fakeVerifier{identity: &Identity{UID: "uid-1", Email: "asha@example.com", Name: "Asha Patil"}}
	h := LoginHandler(db, v, issuer, zap.NewNop())

	w := postLogin(t, h, `{"idToken":"tok"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Asha", resp.Profile.FirstName)
	assert.Equal(t, "Patil", resp.Profile.LastName)
	assert.Empty(t, resp.FarmerID)

	claims, err := issuer.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserID)

	// edits survive the next login
	require.NoError(t, db.Model(&models.Profile{ID: "uid-1"}).Update("first_name", "Ash").Error)
	uid := "uid-1"
	require.NoError(t, db.Create(&models.Farmer{Name: "Asha Farms", Location: "Pune", UserID: &uid}).Error)

	w = postLogin(t, h, `{"idToken":"tok"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ash", resp.Profile.FirstName)
	assert.NotEmpty(t, resp.FarmerID)

	var count int64
	db.Model(&models.Profile{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestLoginFailures(t *testing.T) {
	db := dbtest.New(t)
	issuer := NewTokenIssuer("secret", time.Hour)

	w := postLogin(t, LoginHandler(db, nil, issuer, zap.NewNop()), `{"idToken":"tok"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	rejecting := fakeVerifier{err: errors.New("revoked")}
	w = postLogin(t, LoginHandler(db, rejecting, issuer, zap.NewNop()), `{"idToken":"tok"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postLogin(t, LoginHandler(db, rejecting, issuer, zap.NewNop()), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnsureProfileSurvivesConcurrentFirstLogin(t *testing.T) {
	db := dbtest.New(t).Session(&gorm.Session{SkipDefaultTransaction: true})

	// Another login for the same user inserts the row right before ours does.
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("test:concurrent_login", func(tx *gorm.DB) {
		p, ok := tx.Statement.Dest.(*models.Profile)
		if !ok || raced {
			return
		}
		raced = true
		if err := db.Session(&gorm.Session{NewDB: true}).Create(&models.Profile{ID: p.ID, FirstName: "Winner"}).Error; err != nil {
			t.Errorf("insert competing profile: %v", err)
		}
	})
	require.NoError(t, err)

	profile, err := EnsureProfile(context.Background(), db, &Identity{UID: "uid-7", Name: "Loser Login"})
	require.NoError(t, err)
	assert.True(t, raced)
	assert.Equal(t, "Winner", profile.FirstName)

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
