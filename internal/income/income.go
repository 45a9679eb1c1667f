package income

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal"
)

// Income is the recorded income for one calendar month, broken down by
// where the money came from. A user can have at most one row per
// (year, month); recording the same month again is a conflict, changes
// go through UpdateIncome.
type Income struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	UserID    int64           `json:"user_id" gorm:"not null;index;uniqueIndex:idx_incomes_user_month,priority:1"`
	Salary    decimal.Decimal `json:"salary" gorm:"type:numeric(10,2);not null;default:0"`
	Payments  decimal.Decimal `json:"payments" gorm:"type:numeric(10,2);not null;default:0"`
	Transfers decimal.Decimal `json:"transfers" gorm:"type:numeric(10,2);not null;default:0"`
	Cash      decimal.Decimal `json:"cash" gorm:"type:numeric(10,2);not null;default:0"`
	Year      int             `json:"year" gorm:"not null;uniqueIndex:idx_incomes_user_month,priority:2"`
	Month     int             `json:"month" gorm:"not null;uniqueIndex:idx_incomes_user_month,priority:3"`
	Notes     string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Income) TableName() string {
	return "incomes"
}

// Total is the month's income across all four sources.
func (i *Income) Total() decimal.Decimal {
	return i.Salary.Add(i.Payments).Add(i.Transfers).Add(i.Cash)
}

func (i *Income) OwnedBy(userID int64) bool {
	return i.UserID == userID
}

var (
	ErrIncomeNotFound = internal.NewNotFoundError("income not found", internal.ErrCodeIncomeNotFound)
	ErrIncomeExists   = internal.NewConflictError("income already recorded for this month", internal.ErrCodeIncomeExists)
	ErrNotOwner       = internal.NewForbiddenError("income belongs to another user", internal.ErrCodeNotRecordOwner)
)
