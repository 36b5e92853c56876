package auth

import (
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthorizeUnitAccess: kullanıcının istenen birimlerin TAMAMINA erişimi
// var mı? Super admin her birime (var olmayanlara bile) erişebilir,
// varlık kontrolü handler'ın işidir. Diğer kullanıcılar için istenen
// kümenin tamamı UnitAccess satırlarıyla kapsanmalı; kısmi kapsama
// yetmez, istek bütün olarak reddedilir.
func AuthorizeUnitAccess(db *gorm.DB, userID uint, isSuperAdmin bool, unitIDs ...uint) error {
	if isSuperAdmin {
		return nil
	}
	if len(unitIDs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Birim listesi boş olamaz")
	}

	// Tekrarlı id'ler tek sayılır
	seen := make(map[uint]struct{}, len(unitIDs))
	distinct := make([]uint, 0, len(unitIDs))
	for _, id := range unitIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	var count int64
	if err := db.Model(&models.UnitAccess{}).
		Where("user_id = ? AND unit_id IN ?", userID, distinct).
		Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Birim yetkisi kontrol edilemedi")
	}

	if count != int64(len(distinct)) {
		return fiber.NewError(fiber.StatusForbidden, "Bu birim için yetkiniz yok")
	}
	return nil
}

// AccessibleUnitIDs: kullanıcının erişebildiği birim id'leri.
// Super admin için nil döner; çağıran taraf "tümü" olarak yorumlar.
func AccessibleUnitIDs(db *gorm.DB, userID uint, isSuperAdmin bool) ([]uint, error) {
	if isSuperAdmin {
		return nil, nil
	}

	ids := make([]uint, 0)
	if err := db.Model(&models.UnitAccess{}).
		Where("user_id = ?", userID).
		Pluck("unit_id", &ids).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Birim yetkileri okunamadı")
	}
	return ids, nil
}
