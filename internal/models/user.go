package models

import "time"

type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleStaff      UserRole = "staff"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	UserName     string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null;default:staff"`
	Active       bool     `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	PageAccess *PageAccess
	UnitAccess []UnitAccess
}

// PageAccess: kullanıcı başına sayfa yetki matrisi (0 veya 1 satır).
// Satır yoksa tüm yetkiler false kabul edilir.
type PageAccess struct {
	ID     uint `gorm:"primaryKey" json:"-"`
	UserID uint `gorm:"uniqueIndex;not null" json:"-"`

	SalesEntry       bool `gorm:"not null;default:false" json:"sales_entry"`
	SalesConfirm     bool `gorm:"not null;default:false" json:"sales_confirm"`
	SalesOverview    bool `gorm:"not null;default:false" json:"sales_overview"`
	ExpenseEntry     bool `gorm:"not null;default:false" json:"expense_entry"`
	ExpenseOverview  bool `gorm:"not null;default:false" json:"expense_overview"`
	PlanOverview     bool `gorm:"not null;default:false" json:"plan_overview"`
	BusinessPlanEdit bool `gorm:"not null;default:false" json:"business_plan_edit"`
	Admin            bool `gorm:"not null;default:false" json:"admin"`
}

// UnitAccess: kullanıcı → birim izin listesi (many-to-many).
// Super admin için satır gerekmez, her birime implicit erişimi vardır.
type UnitAccess struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"index:idx_unit_access_user_unit,unique;not null"`
	UnitID uint `gorm:"index:idx_unit_access_user_unit,unique;not null"`
	Unit   Unit
}
