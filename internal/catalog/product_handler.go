package catalog

import (
	"fmt"
	"strings"

	"isletme-backend/internal/auth"
	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID         uint    `json:"id"`
	UnitID     uint    `json:"unit_id"`
	Name       string  `json:"name"`
	SellPrice  float64 `json:"sell_price"`
	MarginPerc float64 `json:"margin_perc"`
	Active     bool    `json:"active"`
}

type CreateProductRequest struct {
	UnitID     uint    `json:"unit_id"`
	Name       string  `json:"name"`
	SellPrice  float64 `json:"sell_price"`
	MarginPerc float64 `json:"margin_perc"`
}

type UpdateProductRequest struct {
	Name       *string  `json:"name"`
	SellPrice  *float64 `json:"sell_price"`
	MarginPerc *float64 `json:"margin_perc"`
	Active     *bool    `json:"active"`
}

func productToResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		UnitID:     p.UnitID,
		Name:       p.Name,
		SellPrice:  p.SellPrice,
		MarginPerc: p.MarginPerc,
		Active:     p.Active,
	}
}

// ----------------------------------------
// ÜRÜN CRUD (sadece super admin)
// ----------------------------------------

// POST /api/admin/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.UnitID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Name ve unit_id zorunlu")
		}
		if body.SellPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Satış fiyatı negatif olamaz")
		}

		// Birim var mı?
		var unit models.Unit
		if err := database.DB.First(&unit, "id = ?", body.UnitID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Birim bulunamadı")
		}

		product := models.Product{
			UnitID:     body.UnitID,
			Name:       body.Name,
			SellPrice:  body.SellPrice,
			MarginPerc: body.MarginPerc,
			Active:     true,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(productToResponse(product))
	}
}

// GET /api/admin/products[?unit_id=1] (pasifler dahil)
func ListProductsAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{})

		if uidStr := c.Query("unit_id"); uidStr != "" {
			var uid uint
			if _, err := fmt.Sscan(uidStr, &uid); err != nil || uid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "unit_id geçersiz")
			}
			dbq = dbq.Where("unit_id = ?", uid)
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, productToResponse(p))
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/products/:id
//
// Not: ürün düzenlemek geçmiş satışları DEĞİŞTİRMEZ; satışlar kendi
// kopyalarını taşır.
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			product.Name = name
		}
		if body.SellPrice != nil {
			if *body.SellPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Satış fiyatı negatif olamaz")
			}
			product.SellPrice = *body.SellPrice
		}
		if body.MarginPerc != nil {
			product.MarginPerc = *body.MarginPerc
		}
		if body.Active != nil {
			product.Active = *body.Active
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(productToResponse(product))
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// GET /api/products?unit_id=1 (birim yetkisi olan kullanıcılar)
// ----------------------------------------

func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		uidStr := c.Query("unit_id")
		if uidStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "unit_id zorunlu")
		}
		var unitID uint
		if _, err := fmt.Sscan(uidStr, &unitID); err != nil || unitID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "unit_id geçersiz")
		}

		if err := auth.AuthorizeUnitAccess(database.DB, userID, auth.IsSuperAdmin(c), unitID); err != nil {
			return err
		}

		var products []models.Product
		if err := database.DB.
			Where("unit_id = ? AND active = ?", unitID, true).
			Order("name asc").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, productToResponse(p))
		}
		return c.JSON(res)
	}
}
