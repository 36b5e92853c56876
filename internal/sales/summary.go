package sales

import (
	"fmt"
	"time"

	"isletme-backend/internal/auth"
	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MonthlySummaryItem struct {
	PaymentTypeID   uint    `json:"payment_type_id"`
	PaymentTypeName string  `json:"payment_type_name"`
	Total           float64 `json:"total"`
}

type MonthlySummaryResponse struct {
	UnitID     uint                 `json:"unit_id"`
	Year       int                  `json:"year"`
	Month      int                  `json:"month"`
	Items      []MonthlySummaryItem `json:"items"`
	GrandTotal float64              `json:"grand_total"`
}

// GET /api/sales/summary/monthly?unit_id=1&year=2025&month=6
//
// Onaylı satışların ödeme tipi bazında aylık toplamı.
func MonthlySummaryHandler() fiber.Handler {
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

		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year ve month zorunlu")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year geçersiz")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month geçersiz")
		}

		loc := time.Now().Location()
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, 0) // sonraki ayın ilk günü, hariç

		type row struct {
			PaymentTypeID uint    `gorm:"column:payment_type_id"`
			Total         float64 `gorm:"column:total"`
		}
		var rows []row

		if err := database.DB.Model(&models.Sale{}).
			Select("payment_type_id, SUM(sell_price * amount) as total").
			Where("unit_id = ? AND date >= ? AND date < ? AND confirmed = ? AND active = ?", unitID, start, end, true, true).
			Group("payment_type_id").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}

		// Ödeme tipi adlarını getir
		ptIDs := make([]uint, 0, len(rows))
		for _, r := range rows {
			ptIDs = append(ptIDs, r.PaymentTypeID)
		}

		ptMap := make(map[uint]string)
		if len(ptIDs) > 0 {
			var types []models.PaymentType
			if err := database.DB.Where("id IN ?", ptIDs).Find(&types).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ödeme tipi bilgileri alınamadı")
			}
			for _, pt := range types {
				ptMap[pt.ID] = pt.Name
			}
		}

		resp := MonthlySummaryResponse{
			UnitID:     unitID,
			Year:       year,
			Month:      month,
			Items:      make([]MonthlySummaryItem, 0, len(rows)),
			GrandTotal: 0,
		}

		for _, r := range rows {
			resp.Items = append(resp.Items, MonthlySummaryItem{
				PaymentTypeID:   r.PaymentTypeID,
				PaymentTypeName: ptMap[r.PaymentTypeID],
				Total:           r.Total,
			})
			resp.GrandTotal += r.Total
		}

		return c.JSON(resp)
	}
}
