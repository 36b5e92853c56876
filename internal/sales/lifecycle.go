package sales

import (
	"errors"
	"fmt"

	"isletme-backend/internal/audit"
	"isletme-backend/internal/auth"
	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ConfirmSalesRequest struct {
	UnitID  uint   `json:"unit_id"`
	SaleIDs []uint `json:"sale_ids"`
}

// POST /api/sales/confirm
//
// Toplu onay ya hep ya hiç çalışır: listedeki satışlardan biri bile
// başka birime aitse ya da zaten onaylıysa hiçbiri onaylanmaz.
func ConfirmSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body ConfirmSalesRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.UnitID == 0 || len(body.SaleIDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "unit_id ve sale_ids zorunlu")
		}

		if err := auth.AuthorizeUnitAccess(database.DB, userID, auth.IsSuperAdmin(c), body.UnitID); err != nil {
			return err
		}

		// Tekrarlı id'leri ele
		seen := make(map[uint]struct{}, len(body.SaleIDs))
		ids := make([]uint, 0, len(body.SaleIDs))
		for _, id := range body.SaleIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}

		errBatchMismatch := errors.New("batch mismatch")
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Sale{}).
				Where("unit_id = ? AND id IN ? AND confirmed = ? AND active = ?", body.UnitID, ids, false, true).
				Update("confirmed", true)
			if res.Error != nil {
				return res.Error
			}

			// Eşleşen satır sayısı istenen sayıdan farklıysa toplu işlem
			// bütün olarak geri alınır.
			if res.RowsAffected != int64(len(ids)) {
				return errBatchMismatch
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, errBatchMismatch) {
				return fiber.NewError(fiber.StatusBadRequest, "Satışların bir kısmı onaylanamaz durumda, hiçbiri onaylanmadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar onaylanamadı")
		}

		unitID := body.UnitID
		for _, saleID := range ids {
			if logErr := audit.WriteLog(audit.LogOptions{
				UnitID:      &unitID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    saleID,
				Action:      models.AuditActionConfirm,
				Description: fmt.Sprintf("Satış onaylandı (birim %d)", unitID),
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.JSON(fiber.Map{
			"confirmed_count": len(ids),
		})
	}
}

// POST /api/sales/:id/unlock
//
// Onaylı satışı tekrar düzenlenebilir hale getirir. Onaylı olmayan
// satış için hata döner.
func UnlockSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, _, err := auth.CurrentUser(c)
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

		if !sale.Confirmed {
			return fiber.NewError(fiber.StatusBadRequest, "Satış onaylı değil, kilit açılamaz")
		}

		sale.Confirmed = false
		if err := database.DB.Save(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış kilidi açılamadı")
		}

		unitID := sale.UnitID
		if logErr := audit.WriteLog(audit.LogOptions{
			UnitID:      &unitID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionUnlock,
			Description: fmt.Sprintf("Satış kilidi açıldı: %s", sale.ProductName),
		}); logErr != nil {
			fmt.Printf("Audit log yazılamadı: %v\n", logErr)
		}

		return c.JSON(saleToResponse(sale))
	}
}
