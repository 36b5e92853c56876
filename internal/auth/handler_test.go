package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"isletme-backend/internal/auth"
	"isletme-backend/internal/config"
	"isletme-backend/internal/models"
	"isletme-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret-that-is-long-enough-0000"}
}

func seedLoginUser(t *testing.T, db *gorm.DB, userName, password string, active bool) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Name:         "Ayşe Yılmaz",
		UserName:     userName,
		PasswordHash: string(hash),
		Role:         models.RoleStaff,
		Active:       true,
	}
	require.NoError(t, db.Create(&user).Error)
	if !active {
		// GORM, Create sırasında zero-value olan Active=false'u atlayıp
		// kolon default'u true'yu uygular; pasif kullanıcı ayrı bir
		// Update ile yazılmalı.
		require.NoError(t, db.Model(&user).Update("active", false).Error)
		user.Active = false
	}
	return user
}

func newAuthApp(cfg *config.Config) *fiber.App {
	app := testutil.NewTestApp()
	app.Post("/api/auth/login", auth.LoginHandler(cfg))
	app.Post("/api/auth/logout", auth.LogoutHandler())
	app.Get("/api/auth/me", auth.JWTMiddleware(cfg), auth.MeHandler())
	return app
}

func login(t *testing.T, app *fiber.App, userName, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(auth.LoginRequest{UserName: userName, Password: password})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestLogin(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testConfig()
	app := newAuthApp(cfg)

	seedLoginUser(t, db, "ayse", "gizli123", true)
	inactive := seedLoginUser(t, db, "pasif", "gizli123", false)

	// Seed gerçekten pasif bir satır üretmiş olmalı
	var check models.User
	require.NoError(t, db.First(&check, inactive.ID).Error)
	require.False(t, check.Active)

	t.Run("başarılı giriş cookie ve token döner", func(t *testing.T) {
		resp := login(t, app, "ayse", "gizli123")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out struct {
			Token string `json:"token"`
			User  struct {
				UserName   string            `json:"user_name"`
				Role       string            `json:"role"`
				PageAccess models.PageAccess `json:"page_access"`
			} `json:"user"`
		}
		testutil.DecodeBody(t, resp, &out)
		assert.NotEmpty(t, out.Token)
		assert.Equal(t, "ayse", out.User.UserName)
		// PageAccess satırı olmayan kullanıcıda tüm flag'ler kapalı
		assert.False(t, out.User.PageAccess.SalesEntry)

		var cookie *http.Cookie
		for _, ck := range resp.Cookies() {
			if ck.Name == auth.TokenCookieName {
				cookie = ck
			}
		}
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, out.Token, cookie.Value)
	})

	t.Run("büyük harf ve boşluk normalize edilir", func(t *testing.T) {
		resp := login(t, app, "  AySe ", "gizli123")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("yanlış şifre 401", func(t *testing.T) {
		resp := login(t, app, "ayse", "yanlis")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bilinmeyen kullanıcı 401", func(t *testing.T) {
		resp := login(t, app, "yok", "gizli123")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("pasif hesap 401", func(t *testing.T) {
		resp := login(t, app, "pasif", "gizli123")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestJWTMiddlewareAndMe(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testConfig()
	app := newAuthApp(cfg)

	user := seedLoginUser(t, db, "ayse", "gizli123", true)
	require.NoError(t, db.Create(&models.PageAccess{UserID: user.ID, SalesEntry: true}).Error)

	resp := login(t, app, "ayse", "gizli123")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Token string `json:"token"`
	}
	testutil.DecodeBody(t, resp, &out)

	t.Run("bearer token ile erişim", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+out.Token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var me struct {
			ID         uint              `json:"id"`
			Name       string            `json:"name"`
			PageAccess models.PageAccess `json:"page_access"`
		}
		testutil.DecodeBody(t, resp, &me)
		assert.Equal(t, user.ID, me.ID)
		assert.Equal(t, user.Name, me.Name)
		assert.True(t, me.PageAccess.SalesEntry)
	})

	t.Run("cookie ile erişim", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: out.Token})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("token yoksa 401", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bozuk token 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer bozuk.token.degeri")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("farklı secret ile imzalı token reddedilir", func(t *testing.T) {
		otherToken, err := auth.GenerateToken("another-secret-that-is-long-enough-1", &user, models.PageAccess{})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+otherToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireGuards(t *testing.T) {
	testutil.NewTestDB(t)

	staff := models.User{ID: 1, Name: "Ayşe", Role: models.RoleStaff}
	boss := models.User{ID: 2, Name: "Patron", Role: models.RoleSuperAdmin}

	newGuardApp := func(user models.User, access models.PageAccess) *fiber.App {
		app := testutil.NewTestApp()
		ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
		app.Get("/super", testutil.AsUser(user, access), auth.RequireSuperAdmin(), ok)
		app.Get("/sales", testutil.AsUser(user, access), auth.RequirePage(auth.CapSalesEntry), ok)
		return app
	}

	t.Run("personel super admin kapısından geçemez", func(t *testing.T) {
		app := newGuardApp(staff, testutil.AllAccess())
		resp, err := app.Test(httptest.NewRequest("GET", "/super", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("super admin rol kapısından geçer", func(t *testing.T) {
		app := newGuardApp(boss, models.PageAccess{})
		resp, err := app.Test(httptest.NewRequest("GET", "/super", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("sayfa yetkisi olmayan reddedilir", func(t *testing.T) {
		app := newGuardApp(staff, models.PageAccess{ExpenseEntry: true})
		resp, err := app.Test(httptest.NewRequest("GET", "/sales", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("sayfa yetkisi olan geçer", func(t *testing.T) {
		app := newGuardApp(staff, models.PageAccess{SalesEntry: true})
		resp, err := app.Test(httptest.NewRequest("GET", "/sales", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
