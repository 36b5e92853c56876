package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"testing"

	"isletme-backend/internal/auth"
	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewTestDB: test başına izole in-memory sqlite açar, şemayı kurar ve
// global database.DB'yi buna yönlendirir.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migration başarısız: %v", err)
	}

	database.DB = db
	return db
}

// NewTestApp: production'daki ErrorHandler ile aynı davranan Fiber app.
func NewTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})
}

// AsUser: JWT middleware'i atlayıp Locals'a kimlik yazan test middleware'i.
func AsUser(user models.User, access models.PageAccess) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, user.ID)
		c.Locals(auth.CtxUserNameKey, user.Name)
		c.Locals(auth.CtxUserRoleKey, user.Role)
		c.Locals(auth.CtxPageAccessKey, access)
		return c.Next()
	}
}

// AllAccess: tüm sayfa yetkileri açık snapshot.
func AllAccess() models.PageAccess {
	return models.PageAccess{
		SalesEntry:       true,
		SalesConfirm:     true,
		SalesOverview:    true,
		ExpenseEntry:     true,
		ExpenseOverview:  true,
		PlanOverview:     true,
		BusinessPlanEdit: true,
		Admin:            true,
	}
}

// DecodeBody: response gövdesini verilen hedefe çözer.
func DecodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("gövde okunamadı: %v", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("JSON çözülemedi: %v (gövde: %s)", err, body)
	}
}

// Seed yardımcıları

func SeedUnit(t *testing.T, db *gorm.DB, name string) models.Unit {
	t.Helper()
	unit := models.Unit{Name: name, Active: true}
	if err := db.Create(&unit).Error; err != nil {
		t.Fatalf("birim oluşturulamadı: %v", err)
	}
	return unit
}

func SeedUser(t *testing.T, db *gorm.DB, userName string, role models.UserRole) models.User {
	t.Helper()
	user := models.User{
		Name:         userName,
		UserName:     userName,
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("kullanıcı oluşturulamadı: %v", err)
	}
	return user
}

func GrantUnitAccess(t *testing.T, db *gorm.DB, userID, unitID uint) {
	t.Helper()
	if err := db.Create(&models.UnitAccess{UserID: userID, UnitID: unitID}).Error; err != nil {
		t.Fatalf("birim yetkisi verilemedi: %v", err)
	}
}

func SeedPaymentType(t *testing.T, db *gorm.DB, name string) models.PaymentType {
	t.Helper()
	pt := models.PaymentType{Name: name, Abbrev: name[:1], Active: true}
	if err := db.Create(&pt).Error; err != nil {
		t.Fatalf("ödeme tipi oluşturulamadı: %v", err)
	}
	return pt
}

func SeedProduct(t *testing.T, db *gorm.DB, unitID uint, name string, price, margin float64) models.Product {
	t.Helper()
	p := models.Product{UnitID: unitID, Name: name, SellPrice: price, MarginPerc: margin, Active: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}
	return p
}
