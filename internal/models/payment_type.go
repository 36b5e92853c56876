package models

import "time"

type PaymentType struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Abbrev    string `gorm:"size:10;not null"` // kısaltma (ör: NKT, KRD)
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
