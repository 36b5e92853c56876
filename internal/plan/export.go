package plan

import (
	"fmt"

	"isletme-backend/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/plan-overview/export?unit_ids=1,2&from=...&to=...
//
// Rapor tablosunu XLSX olarak indirir.
func ExportOverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		unitIDs, from, to, err := parseOverviewQuery(c)
		if err != nil {
			return err
		}

		report, err := ComputeOverview(database.DB, unitIDs, from, to)
		if err != nil {
			return err
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)

		headers := []string{"Kalem", "Bütçe", "Gerçekleşen", "Fark", "Fark %"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		lines := []struct {
			Label string
			Line  OverviewLine
		}{
			{"Ciro", report.Revenue},
			{"Direkt", report.Direct},
			{"Endirekt", report.Indirect},
			{"Sabit", report.Fix},
			{"OOC", report.Ooc},
			{"Giderler", report.Expenses},
			{"Kar", report.Profit},
		}

		for i, l := range lines {
			row := i + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), l.Label)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), l.Line.Budget)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), l.Line.Real)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), l.Line.Delta)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), l.Line.DeltaPercentage)
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor dosyası oluşturulamadı")
		}

		fileName := fmt.Sprintf("plan-raporu-%s-%s.xlsx", report.From, report.To)
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
		return c.Send(buf.Bytes())
	}
}
