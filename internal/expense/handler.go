package expense

import (
	"fmt"
	"time"

	"isletme-backend/internal/audit"
	"isletme-backend/internal/auth"
	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateExpenseRequest struct {
	UnitID        uint    `json:"unit_id"`
	PaymentTypeID uint    `json:"payment_type_id"`
	Vendor        string  `json:"vendor"`
	Description   string  `json:"description"`
	Cost          float64 `json:"cost"`
	Category      string  `json:"category"` // D / I / O / T
	Date          string  `json:"date"`     // "2025-12-09"
}

type UpdateExpenseRequest struct {
	PaymentTypeID *uint    `json:"payment_type_id"`
	Vendor        *string  `json:"vendor"`
	Description   *string  `json:"description"`
	Cost          *float64 `json:"cost"`
	Category      *string  `json:"category"`
	Date          *string  `json:"date"`
}

type ExpenseResponse struct {
	ID            uint    `json:"id"`
	UnitID        uint    `json:"unit_id"`
	UserID        uint    `json:"user_id"`
	PaymentTypeID uint    `json:"payment_type_id"`
	Vendor        string  `json:"vendor"`
	Description   string  `json:"description"`
	Cost          float64 `json:"cost"`
	Category      string  `json:"category"`
	Date          string  `json:"date"`
	ImageCount    int     `json:"image_count"`
}

func expenseToResponse(e models.Expense, imageCount int) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		UnitID:        e.UnitID,
		UserID:        e.UserID,
		PaymentTypeID: e.PaymentTypeID,
		Vendor:        e.Vendor,
		Description:   e.Description,
		Cost:          e.Cost,
		Category:      string(e.Category),
		Date:          e.Date.Format("2006-01-02"),
		ImageCount:    imageCount,
	}
}

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.UnitID == 0 || body.PaymentTypeID == 0 || body.Vendor == "" || body.Cost <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "unit_id, payment_type_id, vendor ve cost zorunlu, cost > 0 olmalı")
		}

		category := models.ExpenseCategory(body.Category)
		if !models.ValidExpenseCategory(category) {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori D, I, O veya T olmalı")
		}

		if err := auth.AuthorizeUnitAccess(database.DB, userID, auth.IsSuperAdmin(c), body.UnitID); err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		var pt models.PaymentType
		if err := database.DB.Where("id = ? AND active = ?", body.PaymentTypeID, true).First(&pt).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ödeme tipi bulunamadı")
		}

		exp := models.Expense{
			UserID:        userID,
			UnitID:        body.UnitID,
			PaymentTypeID: body.PaymentTypeID,
			Vendor:        body.Vendor,
			Description:   body.Description,
			Cost:          body.Cost,
			Category:      category,
			Date:          d,
			Active:        true,
		}

		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider kaydedilemedi")
		}

		unitID := exp.UnitID
		if logErr := audit.WriteLog(audit.LogOptions{
			UnitID:      &unitID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "expense",
			EntityID:    exp.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Gider eklendi: %s - %.2f", exp.Vendor, exp.Cost),
			After:       expenseToResponse(exp, 0),
		}); logErr != nil {
			fmt.Printf("Audit log yazılamadı: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(expenseToResponse(exp, 0))
	}
}

// GET /api/expenses?unit_id=1&from=...&to=...&category=D
func ListExpensesHandler() fiber.Handler {
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

		dbq := database.DB.Model(&models.Expense{}).
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

		if catStr := c.Query("category"); catStr != "" {
			if !models.ValidExpenseCategory(models.ExpenseCategory(catStr)) {
				return fiber.NewError(fiber.StatusBadRequest, "category geçersiz")
			}
			dbq = dbq.Where("category = ?", catStr)
		}

		var rows []models.Expense
		if err := dbq.Order("date asc, id asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Giderler listelenemedi")
		}

		// Fiş fotoğrafı sayıları
		countMap := make(map[uint]int)
		if len(rows) > 0 {
			ids := make([]uint, 0, len(rows))
			for _, r := range rows {
				ids = append(ids, r.ID)
			}
			type cntRow struct {
				ExpenseID uint `gorm:"column:expense_id"`
				Cnt       int  `gorm:"column:cnt"`
			}
			var cnts []cntRow
			if err := database.DB.Model(&models.ExpenseImage{}).
				Select("expense_id, COUNT(*) as cnt").
				Where("expense_id IN ? AND active = ?", ids, true).
				Group("expense_id").
				Scan(&cnts).Error; err == nil {
				for _, cr := range cnts {
					countMap[cr.ExpenseID] = cr.Cnt
				}
			}
		}

		resp := make([]ExpenseResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, expenseToResponse(r, countMap[r.ID]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/expenses/:id
func UpdateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var exp models.Expense
		if err := database.DB.Where("id = ? AND active = ?", id, true).First(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gider bulunamadı")
		}

		if err := auth.AuthorizeUnitAccess(database.DB, userID, auth.IsSuperAdmin(c), exp.UnitID); err != nil {
			return err
		}

		var body UpdateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Vendor != nil {
			if *body.Vendor == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Vendor boş olamaz")
			}
			exp.Vendor = *body.Vendor
		}
		if body.Description != nil {
			exp.Description = *body.Description
		}
		if body.Cost != nil {
			if *body.Cost <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "cost > 0 olmalı")
			}
			exp.Cost = *body.Cost
		}
		if body.Category != nil {
			category := models.ExpenseCategory(*body.Category)
			if !models.ValidExpenseCategory(category) {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori D, I, O veya T olmalı")
			}
			exp.Category = category
		}
		if body.Date != nil {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			exp.Date = d
		}
		if body.PaymentTypeID != nil {
			var pt models.PaymentType
			if err := database.DB.Where("id = ? AND active = ?", *body.PaymentTypeID, true).First(&pt).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Ödeme tipi bulunamadı")
			}
			exp.PaymentTypeID = *body.PaymentTypeID
		}

		if err := database.DB.Save(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider güncellenemedi")
		}

		return c.JSON(expenseToResponse(exp, activeImageCount(exp.ID)))
	}
}

// DELETE /api/expenses/:id (soft-delete)
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var exp models.Expense
		if err := database.DB.Where("id = ? AND active = ?", id, true).First(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gider bulunamadı")
		}

		if err := auth.AuthorizeUnitAccess(database.DB, userID, auth.IsSuperAdmin(c), exp.UnitID); err != nil {
			return err
		}

		before := expenseToResponse(exp, 0)
		exp.Active = false
		if err := database.DB.Save(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider silinemedi")
		}

		unitID := exp.UnitID
		if logErr := audit.WriteLog(audit.LogOptions{
			UnitID:      &unitID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "expense",
			EntityID:    exp.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Gider silindi: %s - %.2f", exp.Vendor, exp.Cost),
			Before:      before,
		}); logErr != nil {
			fmt.Printf("Audit log yazılamadı: %v\n", logErr)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func activeImageCount(expenseID uint) int {
	var count int64
	database.DB.Model(&models.ExpenseImage{}).
		Where("expense_id = ? AND active = ?", expenseID, true).
		Count(&count)
	return int(count)
}
