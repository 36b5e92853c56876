package plan

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

type UpsertBusinessPlanRequest struct {
	UnitID       uint    `json:"unit_id"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	Revenue      float64 `json:"revenue"`
	IndirectPerc float64 `json:"indirect_perc"`
	Tax          float64 `json:"tax"`
	Ooc          float64 `json:"ooc"`
}

type BusinessPlanResponse struct {
	ID           uint    `json:"id"`
	UnitID       uint    `json:"unit_id"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	Revenue      float64 `json:"revenue"`
	IndirectPerc float64 `json:"indirect_perc"`
	Tax          float64 `json:"tax"`
	Ooc          float64 `json:"ooc"`
}

func planToResponse(p models.BusinessPlan) BusinessPlanResponse {
	return BusinessPlanResponse{
		ID:           p.ID,
		UnitID:       p.UnitID,
		Year:         p.Year,
		Month:        p.Month,
		Revenue:      p.Revenue,
		IndirectPerc: p.IndirectPerc,
		Tax:          p.Tax,
		Ooc:          p.Ooc,
	}
}

// GET /api/business-plans?year=2025&month=6
//
// Kullanıcının erişebildiği birimlerin planlarını döner.
func ListBusinessPlansHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, _, err := auth.CurrentUser(c)
		if err != nil {
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

		ids, err := auth.AccessibleUnitIDs(database.DB, userID, auth.IsSuperAdmin(c))
		if err != nil {
			return err
		}

		dbq := database.DB.Where("year = ? AND month = ?", year, month)
		if ids != nil {
			dbq = dbq.Where("unit_id IN ?", ids)
		}

		var plans []models.BusinessPlan
		if err := dbq.Order("unit_id asc").Find(&plans).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Planlar listelenemedi")
		}

		resp := make([]BusinessPlanResponse, 0, len(plans))
		for _, p := range plans {
			resp = append(resp, planToResponse(p))
		}
		return c.JSON(resp)
	}
}

// POST /api/business-plans
//
// (unit_id, year, month) başına tek satır: varsa günceller, yoksa
// oluşturur.
func UpsertBusinessPlanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body UpsertBusinessPlanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.UnitID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "unit_id zorunlu")
		}
		if body.Year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year geçersiz")
		}
		if body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month geçersiz")
		}

		if err := auth.AuthorizeUnitAccess(database.DB, userID, auth.IsSuperAdmin(c), body.UnitID); err != nil {
			return err
		}

		var unit models.Unit
		if err := database.DB.First(&unit, "id = ?", body.UnitID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Birim bulunamadı")
		}

		var p models.BusinessPlan
		action := models.AuditActionUpdate
		err = database.DB.
			Where("unit_id = ? AND year = ? AND month = ?", body.UnitID, body.Year, body.Month).
			First(&p).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "Plan okunamadı")
			}
			p = models.BusinessPlan{
				UnitID: body.UnitID,
				Year:   body.Year,
				Month:  body.Month,
			}
			action = models.AuditActionCreate
		}

		p.Revenue = body.Revenue
		p.IndirectPerc = body.IndirectPerc
		p.Tax = body.Tax
		p.Ooc = body.Ooc

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Plan kaydedilemedi")
		}

		unitID := p.UnitID
		if logErr := audit.WriteLog(audit.LogOptions{
			UnitID:      &unitID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "business_plan",
			EntityID:    p.ID,
			Action:      action,
			Description: fmt.Sprintf("İş planı kaydedildi: %d/%d", p.Year, p.Month),
			After:       planToResponse(p),
		}); logErr != nil {
			fmt.Printf("Audit log yazılamadı: %v\n", logErr)
		}

		status := fiber.StatusOK
		if action == models.AuditActionCreate {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(planToResponse(p))
	}
}
