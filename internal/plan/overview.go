package plan

import (
	"fmt"
	"strings"
	"time"

	"isletme-backend/internal/auth"
	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OverviewLine: tek kalem için bütçe/gerçekleşen karşılaştırması.
type OverviewLine struct {
	Budget          float64 `json:"budget"`
	Real            float64 `json:"real"`
	Delta           float64 `json:"delta"`
	DeltaPercentage float64 `json:"delta_percentage"`
}

type OverviewReport struct {
	UnitIDs []uint `json:"unit_ids"`
	From    string `json:"from"`
	To      string `json:"to"`

	Revenue  OverviewLine `json:"revenue"`
	Direct   OverviewLine `json:"direct"`
	Indirect OverviewLine `json:"indirect"`
	Fix      OverviewLine `json:"fix"`
	Ooc      OverviewLine `json:"ooc"`
	Expenses OverviewLine `json:"expenses"`
	Profit   OverviewLine `json:"profit"`
}

func makeLine(budget, real float64) OverviewLine {
	delta := real - budget
	pct := 0.0
	if budget != 0 {
		pct = delta / budget * 100
	}
	return OverviewLine{
		Budget:          budget,
		Real:            real,
		Delta:           delta,
		DeltaPercentage: pct,
	}
}

// ComputeOverview: bütçe/gerçekleşen raporunu hesaplar.
//
// Bütçe tarafı yalnızca from tarihinin (yıl, ay) planlarını toplar;
// tarih aralığı birden fazla aya yayılsa bile bütçe aylara
// toplanmaz. Gerçekleşen taraf aralığın tamamını kapsar (to günü
// dahil). Bu asimetri mevcut ürün davranışıdır, değiştirme.
func ComputeOverview(db *gorm.DB, unitIDs []uint, from, to time.Time) (*OverviewReport, error) {
	year, month := from.Year(), int(from.Month())

	// ---------------------------
	// 1) Bütçe (business_plans)
	// ---------------------------

	var plans []models.BusinessPlan
	if err := db.
		Where("unit_id IN ? AND year = ? AND month = ?", unitIDs, year, month).
		Find(&plans).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Planlar okunamadı")
	}

	var budgetRevenue, budgetIndirect, budgetFix, budgetOoc float64
	for _, p := range plans {
		budgetRevenue += p.Revenue
		budgetIndirect += p.Revenue * p.IndirectPerc / 100
		budgetFix += p.Tax
		budgetOoc += p.Ooc
	}

	// Direkt gider bütçesi sabit varsayım: cironun %60'ı
	budgetDirect := budgetRevenue * 0.6
	budgetExpenses := budgetIndirect + budgetFix + budgetOoc
	budgetProfit := budgetRevenue - budgetDirect - budgetExpenses

	// ---------------------------
	// 2) Gerçekleşen ciro (onaylı satışlar)
	// ---------------------------

	// to günü gün sonuna kadar dahil
	rangeEnd := to.AddDate(0, 0, 1)

	var realRevenue float64
	if err := db.Model(&models.Sale{}).
		Select("COALESCE(SUM(sell_price * amount), 0)").
		Where("unit_id IN ? AND date >= ? AND date < ? AND confirmed = ? AND active = ?", unitIDs, from, rangeEnd, true, true).
		Scan(&realRevenue).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Ciro hesaplanamadı")
	}

	// ---------------------------
	// 3) Gerçekleşen giderler (kategori bazlı)
	// ---------------------------

	type catRow struct {
		Category string  `gorm:"column:category"`
		Total    float64 `gorm:"column:total"`
	}
	var catRows []catRow

	if err := db.Model(&models.Expense{}).
		Select("category, SUM(cost) as total").
		Where("unit_id IN ? AND date >= ? AND date < ? AND active = ?", unitIDs, from, rangeEnd, true).
		Group("category").
		Scan(&catRows).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Giderler hesaplanamadı")
	}

	var realDirect, realIndirect, realFix, realOoc float64
	for _, r := range catRows {
		switch models.ExpenseCategory(r.Category) {
		case models.ExpenseCategoryDirect:
			realDirect = r.Total
		case models.ExpenseCategoryIndirect:
			realIndirect = r.Total
		case models.ExpenseCategoryFix:
			realFix = r.Total
		case models.ExpenseCategoryOoc:
			realOoc = r.Total
		}
	}

	realExpenses := realDirect + realIndirect + realFix + realOoc
	realProfit := realRevenue - realDirect - realExpenses

	return &OverviewReport{
		UnitIDs:  unitIDs,
		From:     from.Format("2006-01-02"),
		To:       to.Format("2006-01-02"),
		Revenue:  makeLine(budgetRevenue, realRevenue),
		Direct:   makeLine(budgetDirect, realDirect),
		Indirect: makeLine(budgetIndirect, realIndirect),
		Fix:      makeLine(budgetFix, realFix),
		Ooc:      makeLine(budgetOoc, realOoc),
		Expenses: makeLine(budgetExpenses, realExpenses),
		Profit:   makeLine(budgetProfit, realProfit),
	}, nil
}

// query parametrelerini çözer ve birim yetkisini kontrol eder.
func parseOverviewQuery(c *fiber.Ctx) ([]uint, time.Time, time.Time, error) {
	var zero time.Time

	userID, _, _, err := auth.CurrentUser(c)
	if err != nil {
		return nil, zero, zero, err
	}

	unitIDsStr := c.Query("unit_ids")
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if unitIDsStr == "" || fromStr == "" || toStr == "" {
		return nil, zero, zero, fiber.NewError(fiber.StatusBadRequest, "unit_ids, from ve to zorunlu")
	}

	parts := strings.Split(unitIDsStr, ",")
	unitIDs := make([]uint, 0, len(parts))
	for _, part := range parts {
		var id uint
		if _, err := fmt.Sscan(strings.TrimSpace(part), &id); err != nil || id == 0 {
			return nil, zero, zero, fiber.NewError(fiber.StatusBadRequest, "unit_ids geçersiz")
		}
		unitIDs = append(unitIDs, id)
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return nil, zero, zero, fiber.NewError(fiber.StatusBadRequest, "from geçersiz")
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return nil, zero, zero, fiber.NewError(fiber.StatusBadRequest, "to geçersiz")
	}
	if to.Before(from) {
		return nil, zero, zero, fiber.NewError(fiber.StatusBadRequest, "to, from'dan önce olamaz")
	}

	if err := auth.AuthorizeUnitAccess(database.DB, userID, auth.IsSuperAdmin(c), unitIDs...); err != nil {
		return nil, zero, zero, err
	}

	return unitIDs, from, to, nil
}

// GET /api/plan-overview?unit_ids=1,2&from=2025-06-01&to=2025-06-30
func OverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		unitIDs, from, to, err := parseOverviewQuery(c)
		if err != nil {
			return err
		}

		report, err := ComputeOverview(database.DB, unitIDs, from, to)
		if err != nil {
			return err
		}
		return c.JSON(report)
	}
}
