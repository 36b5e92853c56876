package sales_test

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"isletme-backend/internal/models"
	"isletme-backend/internal/sales"
	"isletme-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlySummary(t *testing.T) {
	db := testutil.NewTestDB(t)

	unit := testutil.SeedUnit(t, db, "Merkez")
	user := testutil.SeedUser(t, db, "ayse", models.RoleStaff)
	testutil.GrantUnitAccess(t, db, user.ID, unit.ID)
	cash := testutil.SeedPaymentType(t, db, "Nakit")
	card := testutil.SeedPaymentType(t, db, "Kart")

	loc := time.Now().Location()
	mid := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)
	lastDay := time.Date(2026, 3, 31, 14, 0, 0, 0, loc)
	nextMonth := time.Date(2026, 4, 1, 0, 0, 0, 0, loc)

	mk := func(date time.Time, ptID uint, price float64, amount int, confirmed bool) {
		require.NoError(t, db.Create(&models.Sale{
			UserID: user.ID, UnitID: unit.ID, PaymentTypeID: ptID,
			ProductName: "Menü", SellPrice: price, Amount: amount,
			Date: date, Confirmed: confirmed, Active: true,
		}).Error)
	}

	mk(mid, cash.ID, 100, 3, true)  // 300
	mk(mid, cash.ID, 50, 2, true)   // 100
	mk(mid, card.ID, 80, 5, true)   // 400
	mk(mid, card.ID, 999, 1, false) // onaysız, özete girmez
	// Ayın son günü gün içi girilen satış da bu ayın özetine dahil
	mk(lastDay, cash.ID, 100, 2, true) // 200
	// Sonraki ayın ilk günü dahil değil
	mk(nextMonth, cash.ID, 999, 1, true)

	app := testutil.NewTestApp()
	app.Get("/api/sales/summary/monthly", testutil.AsUser(user, testutil.AllAccess()), sales.MonthlySummaryHandler())

	req := httptest.NewRequest("GET",
		fmt.Sprintf("/api/sales/summary/monthly?unit_id=%d&year=2026&month=3", unit.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out sales.MonthlySummaryResponse
	testutil.DecodeBody(t, resp, &out)
	assert.Equal(t, unit.ID, out.UnitID)
	assert.Equal(t, 1000.0, out.GrandTotal)
	require.Len(t, out.Items, 2)

	totals := make(map[uint]float64)
	for _, item := range out.Items {
		totals[item.PaymentTypeID] = item.Total
	}
	assert.Equal(t, 600.0, totals[cash.ID])
	assert.Equal(t, 400.0, totals[card.ID])
}
