package sales_test

import (
	"bytes"
	"encoding/json"
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
	"gorm.io/gorm"
)

func newSalesApp(user models.User) *fiber.App {
	app := testutil.NewTestApp()
	as := testutil.AsUser(user, testutil.AllAccess())
	app.Post("/api/sales", as, sales.CreateSaleHandler())
	app.Get("/api/sales", as, sales.ListSalesHandler())
	app.Put("/api/sales/:id", as, sales.UpdateSaleHandler())
	app.Post("/api/sales/confirm", as, sales.ConfirmSalesHandler())
	app.Post("/api/sales/:id/unlock", as, sales.UnlockSaleHandler())
	return app
}

func seedSale(t *testing.T, db *gorm.DB, user models.User, unitID, ptID uint, confirmed bool) models.Sale {
	t.Helper()
	s := models.Sale{
		UserID: user.ID, UnitID: unitID, PaymentTypeID: ptID,
		ProductName: "Menü A", SellPrice: 100, Amount: 2,
		Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Confirmed: confirmed, Active: true,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func TestConfirmSalesAllOrNothing(t *testing.T) {
	db := testutil.NewTestDB(t)

	unit := testutil.SeedUnit(t, db, "Merkez")
	user := testutil.SeedUser(t, db, "ayse", models.RoleStaff)
	testutil.GrantUnitAccess(t, db, user.ID, unit.ID)
	pt := testutil.SeedPaymentType(t, db, "Nakit")

	app := newSalesApp(user)

	s1 := seedSale(t, db, user, unit.ID, pt.ID, false)
	s2 := seedSale(t, db, user, unit.ID, pt.ID, true) // zaten onaylı

	body, _ := json.Marshal(sales.ConfirmSalesRequest{
		UnitID:  unit.ID,
		SaleIDs: []uint{s1.ID, s2.ID},
	})
	req := httptest.NewRequest("POST", "/api/sales/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Geri alma: s1 onaylanmamış kalmalı
	var check models.Sale
	require.NoError(t, db.First(&check, s1.ID).Error)
	assert.False(t, check.Confirmed)
}

func TestConfirmSalesHappyPath(t *testing.T) {
	db := testutil.NewTestDB(t)

	unit := testutil.SeedUnit(t, db, "Merkez")
	user := testutil.SeedUser(t, db, "ayse", models.RoleStaff)
	testutil.GrantUnitAccess(t, db, user.ID, unit.ID)
	pt := testutil.SeedPaymentType(t, db, "Nakit")

	app := newSalesApp(user)

	s1 := seedSale(t, db, user, unit.ID, pt.ID, false)
	s2 := seedSale(t, db, user, unit.ID, pt.ID, false)

	// Tekrarlı id tek sayılır
	body, _ := json.Marshal(sales.ConfirmSalesRequest{
		UnitID:  unit.ID,
		SaleIDs: []uint{s1.ID, s2.ID, s1.ID},
	})
	req := httptest.NewRequest("POST", "/api/sales/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		ConfirmedCount int `json:"confirmed_count"`
	}
	testutil.DecodeBody(t, resp, &out)
	assert.Equal(t, 2, out.ConfirmedCount)

	var count int64
	db.Model(&models.Sale{}).Where("confirmed = ?", true).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestConfirmSalesOtherUnitInBatch(t *testing.T) {
	db := testutil.NewTestDB(t)

	unit := testutil.SeedUnit(t, db, "Merkez")
	other := testutil.SeedUnit(t, db, "Sube 2")
	user := testutil.SeedUser(t, db, "ayse", models.RoleStaff)
	testutil.GrantUnitAccess(t, db, user.ID, unit.ID)
	pt := testutil.SeedPaymentType(t, db, "Nakit")

	app := newSalesApp(user)

	mine := seedSale(t, db, user, unit.ID, pt.ID, false)
	foreign := seedSale(t, db, user, other.ID, pt.ID, false)

	body, _ := json.Marshal(sales.ConfirmSalesRequest{
		UnitID:  unit.ID,
		SaleIDs: []uint{mine.ID, foreign.ID},
	})
	req := httptest.NewRequest("POST", "/api/sales/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var check models.Sale
	require.NoError(t, db.First(&check, mine.ID).Error)
	assert.False(t, check.Confirmed)
}

func TestUpdateConfirmedSaleRejected(t *testing.T) {
	db := testutil.NewTestDB(t)

	unit := testutil.SeedUnit(t, db, "Merkez")
	user := testutil.SeedUser(t, db, "ayse", models.RoleStaff)
	testutil.GrantUnitAccess(t, db, user.ID, unit.ID)
	pt := testutil.SeedPaymentType(t, db, "Nakit")

	app := newSalesApp(user)

	locked := seedSale(t, db, user, unit.ID, pt.ID, true)

	amount := 5
	body, _ := json.Marshal(sales.UpdateSaleRequest{Amount: &amount})
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/sales/%d", locked.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var check models.Sale
	require.NoError(t, db.First(&check, locked.ID).Error)
	assert.Equal(t, 2, check.Amount)
}

func TestUnlockSale(t *testing.T) {
	db := testutil.NewTestDB(t)

	unit := testutil.SeedUnit(t, db, "Merkez")
	user := testutil.SeedUser(t, db, "ayse", models.RoleStaff)
	testutil.GrantUnitAccess(t, db, user.ID, unit.ID)
	pt := testutil.SeedPaymentType(t, db, "Nakit")

	app := newSalesApp(user)

	t.Run("onaysız satış açılamaz", func(t *testing.T) {
		open := seedSale(t, db, user, unit.ID, pt.ID, false)
		req := httptest.NewRequest("POST", fmt.Sprintf("/api/sales/%d/unlock", open.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("onaylı satış açılır ve düzenlenebilir olur", func(t *testing.T) {
		locked := seedSale(t, db, user, unit.ID, pt.ID, true)
		req := httptest.NewRequest("POST", fmt.Sprintf("/api/sales/%d/unlock", locked.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		amount := 7
		body, _ := json.Marshal(sales.UpdateSaleRequest{Amount: &amount})
		edit := httptest.NewRequest("PUT", fmt.Sprintf("/api/sales/%d", locked.ID), bytes.NewReader(body))
		edit.Header.Set("Content-Type", "application/json")
		resp, err = app.Test(edit)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var check models.Sale
		require.NoError(t, db.First(&check, locked.ID).Error)
		assert.False(t, check.Confirmed)
		assert.Equal(t, 7, check.Amount)
	})

	t.Run("var olmayan satış 404", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/sales/99999/unlock", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestCreateSaleSnapshot(t *testing.T) {
	db := testutil.NewTestDB(t)

	unit := testutil.SeedUnit(t, db, "Merkez")
	user := testutil.SeedUser(t, db, "ayse", models.RoleStaff)
	testutil.GrantUnitAccess(t, db, user.ID, unit.ID)
	pt := testutil.SeedPaymentType(t, db, "Nakit")
	product := testutil.SeedProduct(t, db, unit.ID, "Menü A", 120, 35)

	app := newSalesApp(user)

	body, _ := json.Marshal(sales.CreateSaleRequest{
		UnitID: unit.ID, ProductID: product.ID,
		Amount: 3, PaymentTypeID: pt.ID, Date: "2026-03-10",
	})
	req := httptest.NewRequest("POST", "/api/sales", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out sales.SaleResponse
	testutil.DecodeBody(t, resp, &out)
	assert.Equal(t, "Menü A", out.ProductName)
	assert.Equal(t, 120.0, out.SellPrice)
	assert.Equal(t, 360.0, out.Total)
	assert.False(t, out.Confirmed)

	// Ürün fiyatı sonradan değişse bile satış etkilenmez
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("sell_price", 999).Error)

	var check models.Sale
	require.NoError(t, db.First(&check, out.ID).Error)
	assert.Equal(t, 120.0, check.SellPrice)
}

func TestListSalesDateRange(t *testing.T) {
	db := testutil.NewTestDB(t)

	unit := testutil.SeedUnit(t, db, "Merkez")
	user := testutil.SeedUser(t, db, "ayse", models.RoleStaff)
	testutil.GrantUnitAccess(t, db, user.ID, unit.ID)
	pt := testutil.SeedPaymentType(t, db, "Nakit")

	mkAt := func(date time.Time) {
		require.NoError(t, db.Create(&models.Sale{
			UserID: user.ID, UnitID: unit.ID, PaymentTypeID: pt.ID,
			ProductName: "Menü A", SellPrice: 100, Amount: 1,
			Date: date, Active: true,
		}).Error)
	}

	mkAt(time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC))  // aralık dışı
	mkAt(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))  // dahil
	mkAt(time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)) // son gün gün içi, dahil
	mkAt(time.Date(2026, 3, 16, 0, 30, 0, 0, time.UTC)) // aralık dışı

	app := newSalesApp(user)

	req := httptest.NewRequest("GET",
		fmt.Sprintf("/api/sales?unit_id=%d&from=2026-03-10&to=2026-03-15", unit.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out []sales.SaleResponse
	testutil.DecodeBody(t, resp, &out)
	require.Len(t, out, 2)
	assert.Equal(t, "2026-03-10", out[0].Date)
	assert.Equal(t, "2026-03-15", out[1].Date)
}

func TestCreateSaleValidation(t *testing.T) {
	db := testutil.NewTestDB(t)

	unit := testutil.SeedUnit(t, db, "Merkez")
	other := testutil.SeedUnit(t, db, "Sube 2")
	user := testutil.SeedUser(t, db, "ayse", models.RoleStaff)
	testutil.GrantUnitAccess(t, db, user.ID, unit.ID)
	pt := testutil.SeedPaymentType(t, db, "Nakit")
	product := testutil.SeedProduct(t, db, unit.ID, "Menü A", 120, 35)
	foreignProduct := testutil.SeedProduct(t, db, other.ID, "Menü B", 80, 30)

	app := newSalesApp(user)

	send := func(body sales.CreateSaleRequest) int {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest("POST", "/api/sales", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	// amount <= 0
	assert.Equal(t, fiber.StatusBadRequest, send(sales.CreateSaleRequest{
		UnitID: unit.ID, ProductID: product.ID, Amount: 0, PaymentTypeID: pt.ID,
	}))

	// izinsiz birim
	assert.Equal(t, fiber.StatusForbidden, send(sales.CreateSaleRequest{
		UnitID: other.ID, ProductID: foreignProduct.ID, Amount: 1, PaymentTypeID: pt.ID,
	}))

	// ürün başka birimin
	assert.Equal(t, fiber.StatusBadRequest, send(sales.CreateSaleRequest{
		UnitID: unit.ID, ProductID: foreignProduct.ID, Amount: 1, PaymentTypeID: pt.ID,
	}))
}
