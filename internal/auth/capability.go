package auth

import "isletme-backend/internal/models"

// Capability: sayfa yetki matrisindeki flag'lerin kapalı enum karşılığı.
// String key ile dinamik erişim yok; yeni flag eklenirse HasCapability
// derleme anında güncellenmek zorunda kalır.
type Capability int

const (
	CapSalesEntry Capability = iota
	CapSalesConfirm
	CapSalesOverview
	CapExpenseEntry
	CapExpenseOverview
	CapPlanOverview
	CapBusinessPlanEdit
	CapAdmin
)

func HasCapability(access models.PageAccess, cap Capability) bool {
	switch cap {
	case CapSalesEntry:
		return access.SalesEntry
	case CapSalesConfirm:
		return access.SalesConfirm
	case CapSalesOverview:
		return access.SalesOverview
	case CapExpenseEntry:
		return access.ExpenseEntry
	case CapExpenseOverview:
		return access.ExpenseOverview
	case CapPlanOverview:
		return access.PlanOverview
	case CapBusinessPlanEdit:
		return access.BusinessPlanEdit
	case CapAdmin:
		return access.Admin
	}
	return false
}
