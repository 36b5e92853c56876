package admin

import (
	"strings"

	"isletme-backend/internal/auth"
	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UnitResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type CreateUnitRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   *string `json:"phone"` // Opsiyonel
	Email   *string `json:"email"` // Opsiyonel
}

type UpdateUnitRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Active  *bool   `json:"active"`
}

func unitToResponse(u models.Unit) UnitResponse {
	return UnitResponse{
		ID:        u.ID,
		Name:      u.Name,
		Address:   u.Address,
		Phone:     u.Phone,
		Email:     u.Email,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// BİRİM CRUD (sadece super admin)
// ----------------------------------------

// POST /api/admin/units
func CreateUnitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUnitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Birim adı boş olamaz")
		}

		unit := models.Unit{
			Name:    body.Name,
			Address: body.Address,
			Active:  true,
		}
		if body.Phone != nil {
			unit.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Email != nil {
			unit.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}

		if err := database.DB.Create(&unit).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Birim oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(unitToResponse(unit))
	}
}

// GET /api/admin/units
func ListUnitsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var units []models.Unit
		if err := database.DB.Order("name asc").Find(&units).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Birimler listelenemedi")
		}

		res := make([]UnitResponse, 0, len(units))
		for _, u := range units {
			res = append(res, unitToResponse(u))
		}
		return c.JSON(res)
	}
}

// GET /api/admin/units/:id
func GetUnitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var unit models.Unit
		if err := database.DB.First(&unit, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Birim bulunamadı")
		}

		return c.JSON(unitToResponse(unit))
	}
}

// PUT /api/admin/units/:id
func UpdateUnitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var unit models.Unit
		if err := database.DB.First(&unit, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Birim bulunamadı")
		}

		var body UpdateUnitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Birim adı boş olamaz")
			}
			unit.Name = name
		}
		if body.Address != nil {
			unit.Address = *body.Address
		}
		if body.Phone != nil {
			unit.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Email != nil {
			unit.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Active != nil {
			unit.Active = *body.Active
		}

		if err := database.DB.Save(&unit).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Birim güncellenemedi")
		}

		return c.JSON(unitToResponse(unit))
	}
}

// DELETE /api/admin/units/:id
func DeleteUnitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Unit{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Birim silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// ERİŞİLEBİLİR BİRİM LİSTESİ
// GET /api/units (tüm authenticated kullanıcılar, kendi birimleri)
// ----------------------------------------

func ListAccessibleUnitsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		ids, err := auth.AccessibleUnitIDs(database.DB, userID, auth.IsSuperAdmin(c))
		if err != nil {
			return err
		}

		dbq := database.DB.Where("active = ?", true)
		if ids != nil {
			// super admin değilse sadece izinli birimler
			dbq = dbq.Where("id IN ?", ids)
		}

		var units []models.Unit
		if err := dbq.Order("name asc").Find(&units).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Birimler listelenemedi")
		}

		res := make([]UnitResponse, 0, len(units))
		for _, u := range units {
			res = append(res, unitToResponse(u))
		}
		return c.JSON(res)
	}
}
