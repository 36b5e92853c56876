package models

import "time"

// Unit: işletme birimi (lokasyon). Ürün, satış, gider ve iş planı
// kayıtlarının tamamı bir birime bağlıdır.
type Unit struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Address   string `gorm:"size:255"`
	Phone     string `gorm:"size:50"`
	Email     string `gorm:"size:100"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
