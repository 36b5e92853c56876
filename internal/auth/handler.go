package auth

import (
	"errors"
	"strings"
	"time"

	"isletme-backend/internal/config"
	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.UserName = strings.TrimSpace(strings.ToLower(body.UserName))
		if body.UserName == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kullanıcı adı ve şifre zorunlu")
		}

		var user models.User
		if err := database.DB.Where("user_name = ?", body.UserName).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı adı veya şifre hatalı")
		}

		if !user.Active {
			return fiber.NewError(fiber.StatusUnauthorized, "Hesap pasif durumda")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı adı veya şifre hatalı")
		}

		// PageAccess snapshot'ı login anında çekilir; satır yoksa tüm
		// flag'ler false kalır.
		var access models.PageAccess
		if err := database.DB.Where("user_id = ?", user.ID).First(&access).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "Yetki bilgisi okunamadı")
			}
			access = models.PageAccess{}
		}

		token, err := GenerateToken(cfg.JWTSecret, &user, access)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		c.Cookie(&fiber.Cookie{
			Name:     TokenCookieName,
			Value:    token,
			Expires:  time.Now().Add(24 * time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
		})

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":          user.ID,
				"name":        user.Name,
				"user_name":   user.UserName,
				"role":        user.Role,
				"page_access": access,
			},
		})
	}
}

// POST /api/auth/logout
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     TokenCookieName,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, name, role, err := CurrentUser(c)
		if err != nil {
			return err
		}

		access, _ := c.Locals(CtxPageAccessKey).(models.PageAccess)

		// Login yanıtındaki user nesnesiyle aynı anahtarlar
		return c.JSON(fiber.Map{
			"id":          userID,
			"name":        name,
			"role":        role,
			"page_access": access,
		})
	}
}
