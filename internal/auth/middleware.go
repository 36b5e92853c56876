package auth

import (
	"fmt"
	"strings"

	"isletme-backend/internal/config"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey     = "user_id"
	CtxUserNameKey   = "user_name"
	CtxUserRoleKey   = "user_role"
	CtxPageAccessKey = "page_access"

	TokenCookieName = "token"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Önce HTTP-only cookie, yoksa Authorization header
		tokenStr := c.Cookies(TokenCookieName)
		if tokenStr == "" {
			authHeader := c.Get("Authorization")
			if authHeader == "" {
				return fiber.NewError(fiber.StatusUnauthorized, "Oturum bulunamadı")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
			}
			tokenStr = parts[1]
		}

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("geçersiz imzalama yöntemi")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz veya süresi dolmuş token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token çözümlenemedi")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserNameKey, claims.Name)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxPageAccessKey, claims.PageAccess)

		return c.Next()
	}
}

// RequireSuperAdmin: birim ve ürün yönetimi sadece super admin rolüne açık.
// Admin sayfa yetkisi burada GEÇERLİ DEĞİLDİR, rol kontrolü yapılır.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok || role != models.RoleSuperAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
		}
		return c.Next()
	}
}

// RequirePage: sayfa yetki matrisi üzerinden kontrol. Super admin dahil
// herkes için snapshot'taki flag'e bakılır.
func RequirePage(cap Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessVal := c.Locals(CtxPageAccessKey)
		access, ok := accessVal.(models.PageAccess)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Yetki bilgisi alınamadı")
		}

		if !HasCapability(access, cap) {
			return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
		}
		return c.Next()
	}
}

// CurrentUser: handler'ların Locals'tan kimlik bilgisi çekmesi için yardımcı.
func CurrentUser(c *fiber.Ctx) (uint, string, models.UserRole, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return 0, "", "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}
	name, _ := c.Locals(CtxUserNameKey).(string)
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return 0, "", "", fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}
	return userID, name, role, nil
}

// IsSuperAdmin: Locals'taki role göre kısa yol.
func IsSuperAdmin(c *fiber.Ctx) bool {
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	return ok && role == models.RoleSuperAdmin
}
