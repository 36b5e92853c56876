package models

import "time"

type ExpenseCategory string

const (
	ExpenseCategoryDirect   ExpenseCategory = "D" // direkt gider
	ExpenseCategoryIndirect ExpenseCategory = "I" // endirekt gider
	ExpenseCategoryOoc      ExpenseCategory = "O" // kategori dışı (OOC)
	ExpenseCategoryFix      ExpenseCategory = "T" // sabit gider / vergi
)

// ValidExpenseCategory: kategori kodu geçerli mi? Depolamada her zaman
// {D, I, O, T} kümesi kullanılır; raporlarda T "fix", O "ooc" olarak etiketlenir.
func ValidExpenseCategory(c ExpenseCategory) bool {
	switch c {
	case ExpenseCategoryDirect, ExpenseCategoryIndirect, ExpenseCategoryOoc, ExpenseCategoryFix:
		return true
	}
	return false
}

type Expense struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"index;not null"`
	User          User
	UnitID        uint `gorm:"index;not null"`
	Unit          Unit
	PaymentTypeID uint `gorm:"index;not null"`
	PaymentType   PaymentType

	Vendor      string          `gorm:"size:100;not null"`
	Description string          `gorm:"size:255"`
	Cost        float64         `gorm:"not null"`
	Category    ExpenseCategory `gorm:"size:1;not null"`
	Date        time.Time       `gorm:"index;not null"`
	Active      bool            `gorm:"not null;default:true"` // soft-delete
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Images []ExpenseImage
}

// ExpenseImage: gider fişi/faturası fotoğrafı. Dosyanın kendisi diskte
// EXPENSE_IMAGE_PATH altında tutulur, burada sadece meta bilgisi var.
type ExpenseImage struct {
	ID         uint `gorm:"primaryKey"`
	ExpenseID  uint `gorm:"index;not null"`
	FileName   string `gorm:"size:255;not null"` // orijinal dosya adı
	StoredPath string `gorm:"size:255;not null"`
	Size       int64  `gorm:"not null"`
	MimeType   string `gorm:"size:100;not null"`
	UploadedAt time.Time
	Active     bool `gorm:"not null;default:true"` // soft-delete
}
