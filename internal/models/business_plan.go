package models

import "time"

// BusinessPlan: birim başına aylık bütçe hedefleri.
// (unit_id, year, month) başına en fazla bir satır olabilir; yazma yolu
// upsert yapar.
type BusinessPlan struct {
	ID     uint `gorm:"primaryKey"`
	UnitID uint `gorm:"index:idx_plan_unit_period,unique;not null"`
	Unit   Unit
	Year   int `gorm:"index:idx_plan_unit_period,unique;not null"`
	Month  int `gorm:"index:idx_plan_unit_period,unique;not null"` // 1-12

	Revenue      float64 `gorm:"not null;default:0"` // hedef ciro
	IndirectPerc float64 `gorm:"not null;default:0"` // endirekt gider yüzdesi
	Tax          float64 `gorm:"not null;default:0"` // sabit gider / vergi tutarı
	Ooc          float64 `gorm:"not null;default:0"` // kategori dışı tutar

	CreatedAt time.Time
	UpdatedAt time.Time
}
