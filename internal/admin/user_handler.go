package admin

import (
	"errors"
	"strings"

	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Name       string             `json:"name"`
	UserName   string             `json:"user_name"`
	Password   string             `json:"password"`
	PageAccess *models.PageAccess `json:"page_access"` // Opsiyonel, yoksa tüm yetkiler kapalı
	UnitIDs    []uint             `json:"unit_ids"`    // Opsiyonel
}

type UpdateUserRequest struct {
	Name       *string            `json:"name"`
	UserName   *string            `json:"user_name"`
	Password   *string            `json:"password"` // verilirse şifre sıfırlanır
	Active     *bool              `json:"active"`
	PageAccess *models.PageAccess `json:"page_access"`
	UnitIDs    *[]uint            `json:"unit_ids"`
}

type UserResponse struct {
	ID         uint              `json:"id"`
	Name       string            `json:"name"`
	UserName   string            `json:"user_name"`
	Role       string            `json:"role"`
	Active     bool              `json:"active"`
	PageAccess models.PageAccess `json:"page_access"`
	UnitIDs    []uint            `json:"unit_ids"`
	CreatedAt  string            `json:"created_at"`
}

func userToResponse(u models.User, access models.PageAccess, unitIDs []uint) UserResponse {
	if unitIDs == nil {
		unitIDs = make([]uint, 0)
	}
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		UserName:   u.UserName,
		Role:       string(u.Role),
		Active:     u.Active,
		PageAccess: access,
		UnitIDs:    unitIDs,
		CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func loadUserAccess(userID uint) (models.PageAccess, []uint, error) {
	var access models.PageAccess
	if err := database.DB.Where("user_id = ?", userID).First(&access).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return access, nil, err
		}
		access = models.PageAccess{}
	}

	unitIDs := make([]uint, 0)
	if err := database.DB.Model(&models.UnitAccess{}).
		Where("user_id = ?", userID).
		Pluck("unit_id", &unitIDs).Error; err != nil {
		return access, nil, err
	}
	return access, unitIDs, nil
}

// ----------------------------------------
// KULLANICI CRUD (admin sayfa yetkisi)
// ----------------------------------------

// POST /api/admin/users
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.UserName = strings.TrimSpace(strings.ToLower(body.UserName))

		if body.Name == "" || body.UserName == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, kullanıcı adı ve şifre zorunlu")
		}

		// Kullanıcı adı kontrolü
		var exist models.User
		if err := database.DB.Where("user_name = ?", body.UserName).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kullanıcı adı zaten kayıtlı")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			Name:         body.Name,
			UserName:     body.UserName,
			PasswordHash: string(hash),
			Role:         models.RoleStaff,
			Active:       true,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			if body.PageAccess != nil {
				access := *body.PageAccess
				access.ID = 0
				access.UserID = user.ID
				if err := tx.Create(&access).Error; err != nil {
					return err
				}
			}

			for _, unitID := range body.UnitIDs {
				if err := tx.Create(&models.UnitAccess{UserID: user.ID, UnitID: unitID}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		access, unitIDs, err := loadUserAccess(user.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yetki bilgileri okunamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(userToResponse(user, access, unitIDs))
	}
}

// GET /api/admin/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("name asc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar listelenemedi")
		}

		res := make([]UserResponse, 0, len(users))
		for _, u := range users {
			access, unitIDs, err := loadUserAccess(u.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Yetki bilgileri okunamadı")
			}
			res = append(res, userToResponse(u, access, unitIDs))
		}
		return c.JSON(res)
	}
}

// GET /api/admin/users/:id
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		access, unitIDs, err := loadUserAccess(user.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yetki bilgileri okunamadı")
		}

		return c.JSON(userToResponse(user, access, unitIDs))
	}
}

// PUT /api/admin/users/:id
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "İsim boş olamaz")
			}
			user.Name = name
		}

		if body.UserName != nil {
			userName := strings.TrimSpace(strings.ToLower(*body.UserName))
			if userName == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Kullanıcı adı boş olamaz")
			}
			// Başka bir kullanıcıda aynı ad var mı?
			var exist models.User
			if err := database.DB.Where("user_name = ? AND id <> ?", userName, user.ID).First(&exist).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu kullanıcı adı zaten kayıtlı")
			}
			user.UserName = userName
		}

		if body.Password != nil && *body.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
			}
			user.PasswordHash = string(hash)
		}

		if body.Active != nil {
			user.Active = *body.Active
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&user).Error; err != nil {
				return err
			}

			if body.PageAccess != nil {
				// Mevcut satırı değiştir ya da oluştur (kullanıcı başına tek satır)
				var access models.PageAccess
				if err := tx.Where("user_id = ?", user.ID).First(&access).Error; err != nil {
					if !errors.Is(err, gorm.ErrRecordNotFound) {
						return err
					}
					access = models.PageAccess{UserID: user.ID}
				}
				id := access.ID
				access = *body.PageAccess
				access.ID = id
				access.UserID = user.ID
				if err := tx.Save(&access).Error; err != nil {
					return err
				}
			}

			if body.UnitIDs != nil {
				if err := tx.Where("user_id = ?", user.ID).Delete(&models.UnitAccess{}).Error; err != nil {
					return err
				}
				for _, unitID := range *body.UnitIDs {
					if err := tx.Create(&models.UnitAccess{UserID: user.ID, UnitID: unitID}).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı güncellenemedi")
		}

		access, unitIDs, err := loadUserAccess(user.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yetki bilgileri okunamadı")
		}

		return c.JSON(userToResponse(user, access, unitIDs))
	}
}

// DELETE /api/admin/users/:id
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		// Super admin hesabı silinemez
		if user.Role == models.RoleSuperAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Super admin hesabı silinemez")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.PageAccess{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.UnitAccess{}).Error; err != nil {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
