package sales

import (
	"fmt"
	"time"

	"isletme-backend/internal/auth"
	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSaleRequest struct {
	UnitID        uint   `json:"unit_id"`
	ProductID     uint   `json:"product_id"`
	Amount        int    `json:"amount"`
	PaymentTypeID uint   `json:"payment_type_id"`
	Date          string `json:"date"` // "2025-06-12", boşsa bugün
}

type UpdateSaleRequest struct {
	Amount        *int  `json:"amount"`
	PaymentTypeID *uint `json:"payment_type_id"`
}

type SaleResponse struct {
	ID            uint    `json:"id"`
	UnitID        uint    `json:"unit_id"`
	UserID        uint    `json:"user_id"`
	PaymentTypeID uint    `json:"payment_type_id"`
	ProductName   string  `json:"product_name"`
	SellPrice     float64 `json:"sell_price"`
	MarginPerc    float64 `json:"margin_perc"`
	Amount        int     `json:"amount"`
	Total         float64 `json:"total"`
	Date          string  `json:"date"`
	Confirmed     bool    `json:"confirmed"`
}

func saleToResponse(s models.Sale) SaleResponse {
	return SaleResponse{
		ID:            s.ID,
		UnitID:        s.UnitID,
		UserID:        s.UserID,
		PaymentTypeID: s.PaymentTypeID,
		ProductName:   s.ProductName,
		SellPrice:     s.SellPrice,
		MarginPerc:    s.MarginPerc,
		Amount:        s.Amount,
		Total:         s.SellPrice * float64(s.Amount),
		Date:          s.Date.Format("2006-01-02"),
		Confirmed:     s.Confirmed,
	}
}

// POST /api/sales
//
// Ürün adı/fiyatı/marjı satış anında üründen kopyalanır; ürün sonradan
// düzenlense bile bu satışın tutarı değişmez.
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.UnitID == 0 || body.ProductID == 0 || body.PaymentTypeID == 0 || body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "unit_id, product_id, payment_type_id ve amount zorunlu, amount > 0 olmalı")
		}

		if err := auth.AuthorizeUnitAccess(database.DB, userID, auth.IsSuperAdmin(c), body.UnitID); err != nil {
			return err
		}

		date := time.Now()
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			date = d
		}

		// Ürün bu birime ait ve aktif mi?
		var product models.Product
		if err := database.DB.
			Where("id = ? AND unit_id = ? AND active = ?", body.ProductID, body.UnitID, true).
			First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		var pt models.PaymentType
		if err := database.DB.Where("id = ? AND active = ?", body.PaymentTypeID, true).First(&pt).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ödeme tipi bulunamadı")
		}

		sale := models.Sale{
			UserID:        userID,
			UnitID:        body.UnitID,
			PaymentTypeID: body.PaymentTypeID,
			ProductName:   product.Name,
			SellPrice:     product.SellPrice,
			MarginPerc:    product.MarginPerc,
			Amount:        body.Amount,
			Date:          date,
			Confirmed:     false,
			Active:        true,
		}

		if err := database.DB.Create(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(saleToResponse(sale))
	}
}

// GET /api/sales?unit_id=1&from=...&to=...&confirmed=true
func ListSalesHandler() fiber.Handler {
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

		dbq := database.DB.Model(&models.Sale{}).
			Where("unit_id = ? AND active = ?", unitID, true)

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from geçersiz")
			}
			dbq = dbq.Where("date >= ?", from)
		}

		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to geçersiz")
			}
			// to günü gün sonuna kadar dahil
			dbq = dbq.Where("date < ?", to.AddDate(0, 0, 1))
		}

		if confStr := c.Query("confirmed"); confStr != "" {
			dbq = dbq.Where("confirmed = ?", confStr == "true")
		}

		var rows []models.Sale
		if err := dbq.Order("date asc, id asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar listelenemedi")
		}

		resp := make([]SaleResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, saleToResponse(r))
		}
		return c.JSON(resp)
	}
}

// PUT /api/sales/:id
//
// Sadece onaylanmamış satışlar düzenlenebilir; onaylı satış için önce
// unlock gerekir.
func UpdateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var sale models.Sale
		if err := database.DB.Where("id = ? AND active = ?", id, true).First(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satış bulunamadı")
		}

		if err := auth.AuthorizeUnitAccess(database.DB, userID, auth.IsSuperAdmin(c), sale.UnitID); err != nil {
			return err
		}

		if sale.Confirmed {
			return fiber.NewError(fiber.StatusBadRequest, "Onaylanmış satış düzenlenemez")
		}

		var body UpdateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "amount > 0 olmalı")
			}
			sale.Amount = *body.Amount
		}

		if body.PaymentTypeID != nil {
			var pt models.PaymentType
			if err := database.DB.Where("id = ? AND active = ?", *body.PaymentTypeID, true).First(&pt).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Ödeme tipi bulunamadı")
			}
			sale.PaymentTypeID = *body.PaymentTypeID
		}

		if err := database.DB.Save(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış güncellenemedi")
		}

		return c.JSON(saleToResponse(sale))
	}
}
