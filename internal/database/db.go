package database

import (
	"log"

	"isletme-backend/internal/config"
	"isletme-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: tüm tabloları oluşturur/günceller. Testler sqlite üzerinde
// aynı şemayı kurmak için de bunu kullanır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Unit{},
		&models.User{},
		&models.PageAccess{},
		&models.UnitAccess{},
		&models.Product{},
		&models.PaymentType{},
		&models.Sale{},
		&models.Expense{},
		&models.ExpenseImage{},
		&models.BusinessPlan{},
		&models.AuditLog{},
	)
}
