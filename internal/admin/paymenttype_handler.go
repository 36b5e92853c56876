package admin

import (
	"strings"

	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PaymentTypeResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Abbrev string `json:"abbrev"`
	Active bool   `json:"active"`
}

type CreatePaymentTypeRequest struct {
	Name   string `json:"name"`
	Abbrev string `json:"abbrev"`
}

type UpdatePaymentTypeRequest struct {
	Name   *string `json:"name"`
	Abbrev *string `json:"abbrev"`
	Active *bool   `json:"active"`
}

func paymentTypeToResponse(p models.PaymentType) PaymentTypeResponse {
	return PaymentTypeResponse{
		ID:     p.ID,
		Name:   p.Name,
		Abbrev: p.Abbrev,
		Active: p.Active,
	}
}

// ----------------------------------------
// ÖDEME TİPİ CRUD (admin sayfa yetkisi)
// ----------------------------------------

// POST /api/admin/payment-types
func CreatePaymentTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentTypeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Abbrev = strings.TrimSpace(body.Abbrev)
		if body.Name == "" || body.Abbrev == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name ve abbrev zorunlu")
		}

		pt := models.PaymentType{
			Name:   body.Name,
			Abbrev: body.Abbrev,
			Active: true,
		}
		if err := database.DB.Create(&pt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme tipi oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(paymentTypeToResponse(pt))
	}
}

// GET /api/admin/payment-types (pasifler dahil)
func ListPaymentTypesAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var types []models.PaymentType
		if err := database.DB.Order("name asc").Find(&types).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme tipleri listelenemedi")
		}

		res := make([]PaymentTypeResponse, 0, len(types))
		for _, p := range types {
			res = append(res, paymentTypeToResponse(p))
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/payment-types/:id
func UpdatePaymentTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var pt models.PaymentType
		if err := database.DB.First(&pt, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ödeme tipi bulunamadı")
		}

		var body UpdatePaymentTypeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			pt.Name = name
		}
		if body.Abbrev != nil {
			abbrev := strings.TrimSpace(*body.Abbrev)
			if abbrev == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Abbrev boş olamaz")
			}
			pt.Abbrev = abbrev
		}
		if body.Active != nil {
			pt.Active = *body.Active
		}

		if err := database.DB.Save(&pt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme tipi güncellenemedi")
		}

		return c.JSON(paymentTypeToResponse(pt))
	}
}

// DELETE /api/admin/payment-types/:id
func DeletePaymentTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.PaymentType{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme tipi silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// GET /api/payment-types (auth olan herkes, sadece aktifler)
// ----------------------------------------

func ListPaymentTypesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var types []models.PaymentType
		if err := database.DB.Where("active = ?", true).Order("name asc").Find(&types).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme tipleri listelenemedi")
		}

		res := make([]PaymentTypeResponse, 0, len(types))
		for _, p := range types {
			res = append(res, paymentTypeToResponse(p))
		}
		return c.JSON(res)
	}
}
