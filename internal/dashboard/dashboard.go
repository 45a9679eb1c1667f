package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the aggregate view backing the home screen. Balance is all
// recorded income minus all ledger entries, so accepted shared expenses
// move it and pending proposals do not.
type Summary struct {
	TotalIncome   decimal.Decimal  `json:"total_income"`
	TotalExpenses decimal.Decimal  `json:"total_expenses"`
	Balance       decimal.Decimal  `json:"balance"`
	TodayExpenses decimal.Decimal  `json:"today_expenses"`
	MonthExpenses decimal.Decimal  `json:"month_expenses"`
	ExpenseCount  int64            `json:"expense_count"`
	TopCategories []CategoryTotal  `json:"top_categories"`
	RecentShared  []SharedActivity `json:"recent_shared_expenses"`
}

type CategoryTotal struct {
	Category string          `json:"category" db:"category"`
	Total    decimal.Decimal `json:"total" db:"total"`
	Count    int64           `json:"count" db:"count"`
}

// SharedActivity is one shared expense shaped for the viewer: Direction
// says whether the viewer proposed it or received it, OtherParty names
// the opposite side, YourAmount is the viewer's share.
type SharedActivity struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Direction   string          `json:"direction"`
	OtherParty  string          `json:"other_party"`
	YourAmount  decimal.Decimal `json:"your_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}
