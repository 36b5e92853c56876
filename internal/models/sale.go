package models

import "time"

// Sale: satış kaydı. Ürün adı / fiyatı / marjı satış anında üründen
// kopyalanır ve sonradan ürün düzenlense bile değişmez (denormalize snapshot).
// Confirmed=true olan satış, Unlock yapılmadan düzenlenemez.
type Sale struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"index;not null"`
	User          User
	UnitID        uint `gorm:"index;not null"`
	Unit          Unit
	PaymentTypeID uint `gorm:"index;not null"`
	PaymentType   PaymentType

	// Ürün snapshot alanları
	ProductName string  `gorm:"size:100;not null"`
	SellPrice   float64 `gorm:"not null"`
	MarginPerc  float64 `gorm:"not null;default:0"`

	Amount    int       `gorm:"not null"` // adet
	Date      time.Time `gorm:"index;not null"`
	Confirmed bool      `gorm:"not null;default:false"`
	Active    bool      `gorm:"not null;default:true"` // soft-delete
	CreatedAt time.Time
	UpdatedAt time.Time
}
