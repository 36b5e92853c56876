package models

import "time"

type Product struct {
	ID         uint `gorm:"primaryKey"`
	UnitID     uint `gorm:"index;not null"`
	Unit       Unit
	Name       string  `gorm:"size:100;not null"`
	SellPrice  float64 `gorm:"not null"`
	MarginPerc float64 `gorm:"not null;default:0"` // kar marjı yüzdesi
	Active     bool    `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
