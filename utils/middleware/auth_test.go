package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yarmel/photoshare/config"
	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/services"
	"github.com/yarmel/photoshare/utils/auth"
)

func newTestAuth(t *testing.T) (*services.AuthService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.BlacklistedToken{}))

	codec := auth.NewTokenCodec(config.JWTConfig{
		Secret:     "test-jwt-secret",
		Algorithm:  "HS256",
		Issuer:     "photoshare-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})

	return services.NewAuthService(db, codec), db
}

func tokenForRole(t *testing.T, svc *services.AuthService, db *gorm.DB, username string, role model.Role) string {
	t.Helper()

	_, err := svc.Signup(context.Background(), username, username+"@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.User{}).
		Where("username = ?", username).
		Update("role", role).Error)

	_, pair, err := svc.Login(context.Background(), username, "password123")
	require.NoError(t, err)
	return pair.AccessToken
}

func gateStatus(t *testing.T, app *fiber.App, path, bearer string) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireRoles_ExactSets(t *testing.T) {
	t.Parallel()

	svc, db := newTestAuth(t)
	m := NewAuthMiddleware(svc)

	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	app := fiber.New()
	app.Get("/admin-only", m.Required(), m.RequireRoles(model.RoleAdmin), ok)
	app.Get("/moderator-only", m.Required(), m.RequireRoles(model.RoleModerator), ok)
	app.Get("/moderation", m.Required(), m.RequireRoles(model.RoleModerator, model.RoleAdmin), ok)

	adminToken := tokenForRole(t, svc, db, "root", model.RoleAdmin)
	modToken := tokenForRole(t, svc, db, "mod", model.RoleModerator)
	userToken := tokenForRole(t, svc, db, "alice", model.RoleUser)

	assert.Equal(t, http.StatusOK, gateStatus(t, app, "/admin-only", adminToken))
	assert.Equal(t, http.StatusForbidden, gateStatus(t, app, "/admin-only", modToken))
	assert.Equal(t, http.StatusForbidden, gateStatus(t, app, "/admin-only", userToken))

	// Role sets are exact: an admin does not pass a moderator-only gate
	assert.Equal(t, http.StatusOK, gateStatus(t, app, "/moderator-only", modToken))
	assert.Equal(t, http.StatusForbidden, gateStatus(t, app, "/moderator-only", adminToken))

	assert.Equal(t, http.StatusOK, gateStatus(t, app, "/moderation", modToken))
	assert.Equal(t, http.StatusOK, gateStatus(t, app, "/moderation", adminToken))
	assert.Equal(t, http.StatusForbidden, gateStatus(t, app, "/moderation", userToken))
}

func TestRequired_RejectsBadTokens(t *testing.T) {
	t.Parallel()

	svc, db := newTestAuth(t)
	m := NewAuthMiddleware(svc)

	app := fiber.New()
	app.Get("/protected", m.Required(), func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"username": user.Username})
	})

	assert.Equal(t, http.StatusUnauthorized, gateStatus(t, app, "/protected", ""))
	assert.Equal(t, http.StatusUnauthorized, gateStatus(t, app, "/protected", "garbage"))

	token := tokenForRole(t, svc, db, "alice", model.RoleUser)
	assert.Equal(t, http.StatusOK, gateStatus(t, app, "/protected", token))

	// Banned users fail resolution even with a live token
	require.NoError(t, db.Model(&model.User{}).
		Where("username = ?", "alice").
		Update("banned", true).Error)
	assert.Equal(t, http.StatusUnauthorized, gateStatus(t, app, "/protected", token))
}
