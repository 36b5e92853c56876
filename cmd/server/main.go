package main

import (
	"log"
	"strings"

	"isletme-backend/internal/admin"
	"isletme-backend/internal/audit"
	"isletme-backend/internal/auth"
	"isletme-backend/internal/catalog"
	"isletme-backend/internal/config"
	"isletme-backend/internal/database"
	"isletme-backend/internal/expense"
	"isletme-backend/internal/plan"
	"isletme-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
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

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(corsOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/logout", auth.LogoutHandler())

	// Birim ve ürün yönetimi (sadece super admin rolü, admin sayfa
	// yetkisi bu iki kaynak için GEÇERLİ DEĞİLDİR)
	superAdminOnly := auth.RequireSuperAdmin()

	protected.Post("/admin/units", superAdminOnly, admin.CreateUnitHandler())
	protected.Get("/admin/units", superAdminOnly, admin.ListUnitsHandler())
	protected.Get("/admin/units/:id", superAdminOnly, admin.GetUnitHandler())
	protected.Put("/admin/units/:id", superAdminOnly, admin.UpdateUnitHandler())
	protected.Delete("/admin/units/:id", superAdminOnly, admin.DeleteUnitHandler())

	protected.Post("/admin/products", superAdminOnly, catalog.CreateProductHandler())
	protected.Get("/admin/products", superAdminOnly, catalog.ListProductsAdminHandler())
	protected.Put("/admin/products/:id", superAdminOnly, catalog.UpdateProductHandler())
	protected.Delete("/admin/products/:id", superAdminOnly, catalog.DeleteProductHandler())

	// Ödeme tipi ve kullanıcı yönetimi (admin sayfa yetkisi)
	adminPage := auth.RequirePage(auth.CapAdmin)

	protected.Post("/admin/payment-types", adminPage, admin.CreatePaymentTypeHandler())
	protected.Get("/admin/payment-types", adminPage, admin.ListPaymentTypesAdminHandler())
	protected.Put("/admin/payment-types/:id", adminPage, admin.UpdatePaymentTypeHandler())
	protected.Delete("/admin/payment-types/:id", adminPage, admin.DeletePaymentTypeHandler())

	protected.Post("/admin/users", adminPage, admin.CreateUserHandler())
	protected.Get("/admin/users", adminPage, admin.ListUsersHandler())
	protected.Get("/admin/users/:id", adminPage, admin.GetUserHandler())
	protected.Put("/admin/users/:id", adminPage, admin.UpdateUserHandler())
	protected.Delete("/admin/users/:id", adminPage, admin.DeleteUserHandler())

	// Ortak (auth gerektiren) route'lar
	protected.Get("/units", admin.ListAccessibleUnitsHandler())
	protected.Get("/payment-types", admin.ListPaymentTypesHandler())
	protected.Get("/products", catalog.ListProductsHandler())

	// Satışlar
	protected.Post("/sales", auth.RequirePage(auth.CapSalesEntry), sales.CreateSaleHandler())
	protected.Put("/sales/:id", auth.RequirePage(auth.CapSalesEntry), sales.UpdateSaleHandler())
	protected.Get("/sales", auth.RequirePage(auth.CapSalesOverview), sales.ListSalesHandler())
	protected.Get("/sales/summary/monthly", auth.RequirePage(auth.CapSalesOverview), sales.MonthlySummaryHandler())
	protected.Post("/sales/confirm", auth.RequirePage(auth.CapSalesConfirm), sales.ConfirmSalesHandler())
	protected.Post("/sales/:id/unlock", auth.RequirePage(auth.CapSalesConfirm), sales.UnlockSaleHandler())

	// Giderler
	protected.Post("/expenses", auth.RequirePage(auth.CapExpenseEntry), expense.CreateExpenseHandler())
	protected.Get("/expenses", auth.RequirePage(auth.CapExpenseOverview), expense.ListExpensesHandler())
	protected.Put("/expenses/:id", auth.RequirePage(auth.CapExpenseEntry), expense.UpdateExpenseHandler())
	protected.Delete("/expenses/:id", auth.RequirePage(auth.CapExpenseEntry), expense.DeleteExpenseHandler())

	// Gider fişi fotoğrafları
	protected.Post("/expenses/:id/images", auth.RequirePage(auth.CapExpenseEntry), expense.UploadExpenseImagesHandler(cfg))
	protected.Get("/expenses/:id/images", auth.RequirePage(auth.CapExpenseOverview), expense.ListExpenseImagesHandler())
	protected.Get("/expense-images/:id/file", auth.RequirePage(auth.CapExpenseOverview), expense.DownloadExpenseImageHandler())
	protected.Delete("/expense-images/:id", auth.RequirePage(auth.CapExpenseEntry), expense.DeleteExpenseImageHandler())

	// İş planları ve rapor
	protected.Get("/business-plans", plan.ListBusinessPlansHandler())
	protected.Post("/business-plans", auth.RequirePage(auth.CapBusinessPlanEdit), plan.UpsertBusinessPlanHandler())
	protected.Get("/plan-overview", auth.RequirePage(auth.CapPlanOverview), plan.OverviewHandler())
	protected.Get("/plan-overview/export", auth.RequirePage(auth.CapPlanOverview), plan.ExportOverviewHandler())

	// Audit logs
	protected.Get("/audit-logs", auth.RequirePage(auth.CapAdmin), audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
