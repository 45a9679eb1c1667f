package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal"
)

// Expense is a single ledger entry in one user's personal expense history.
// Entries materialized from an accepted shared-expense proposal are ordinary
// rows here: independently owned, mutable and deletable.
type Expense struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	UserID        int64           `json:"user_id" gorm:"column:user_id;not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null"`
	Description   string          `json:"description" gorm:"not null"`
	Category      string          `json:"category,omitempty"`
	ExpenseDate   time.Time       `json:"expense_date" gorm:"column:expense_date;type:date"`
	PaymentMethod string          `json:"payment_method,omitempty" gorm:"column:payment_method"`
	Notes         string          `json:"notes,omitempty"`
	AttachmentRef string          `json:"attachment_ref,omitempty" gorm:"column:attachment_ref"`
	CreatedAt     time.Time       `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"column:updated_at"`
}

func (Expense) TableName() string {
	return "expenses"
}

// OwnedBy reports whether the entry belongs to the given user. All reads and
// writes outside aggregate queries go through this check.
func (e *Expense) OwnedBy(userID int64) bool {
	return e.UserID == userID
}

var (
	ErrExpenseNotFound = internal.NewNotFoundError("expense not found", internal.ErrCodeExpenseNotFound)
	ErrNotOwner        = internal.NewForbiddenError("expense belongs to another user", internal.ErrCodeNotRecordOwner)
)
