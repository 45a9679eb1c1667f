package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal/dashboard"
)

// DashboardRepository runs the aggregate queries directly with sqlx. The
// read side never goes through GORM; these are reporting queries over the
// same tables the domain repositories own.
type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) TotalIncome(userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Get(&total,
		`SELECT COALESCE(SUM(salary + payments + transfers + cash), 0) FROM incomes WHERE user_id = $1`, userID)
	return total, err
}

func (r *DashboardRepository) TotalExpenses(userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Get(&total,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1`, userID)
	return total, err
}

func (r *DashboardRepository) ExpensesSince(userID int64, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Get(&total,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1 AND expense_date >= $2`,
		userID, since)
	return total, err
}

func (r *DashboardRepository) ExpenseCount(userID int64) (int64, error) {
	var count int64
	err := r.db.Get(&count,
		`SELECT COUNT(*) FROM expenses WHERE user_id = $1`, userID)
	return count, err
}

func (r *DashboardRepository) TopCategories(userID int64, limit int) ([]dashboard.CategoryTotal, error) {
	categories := []dashboard.CategoryTotal{}
	err := r.db.Select(&categories,
		`SELECT category, SUM(amount) AS total, COUNT(*) AS count
		 FROM expenses
		 WHERE user_id = $1 AND category <> ''
		 GROUP BY category
		 ORDER BY total DESC
		 LIMIT $2`, userID, limit)
	return categories, err
}

type sharedRow struct {
	ID                 int64           `db:"id"`
	OwnerID            int64           `db:"owner_id"`
	OwnerName          string          `db:"owner_name"`
	CounterpartyName   string          `db:"counterparty_name"`
	Description        string          `db:"description"`
	OwnerAmount        decimal.Decimal `db:"owner_amount"`
	CounterpartyAmount decimal.Decimal `db:"counterparty_amount"`
	TotalAmount        decimal.Decimal `db:"total_amount"`
	Status             string          `db:"status"`
	CreatedAt          time.Time       `db:"created_at"`
}

// RecentShared returns the newest shared expenses involving the user,
// shaped for the viewer: their own share and the other party's name.
func (r *DashboardRepository) RecentShared(userID int64, limit int) ([]dashboard.SharedActivity, error) {
	rows := []sharedRow{}
	err := r.db.Select(&rows,
		`SELECT se.id, se.owner_id, o.name AS owner_name, c.name AS counterparty_name,
		        se.draft->>'description' AS description,
		        se.owner_amount, se.counterparty_amount,
		        se.total_amount, se.status, se.created_at
		 FROM shared_expenses se
		 JOIN users o ON o.id = se.owner_id
		 JOIN users c ON c.id = se.counterparty_id
		 WHERE se.owner_id = $1 OR se.counterparty_id = $1
		 ORDER BY se.created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}

	activities := make([]dashboard.SharedActivity, 0, len(rows))
	for _, row := range rows {
		activity := dashboard.SharedActivity{
			ID:          row.ID,
			Description: row.Description,
			TotalAmount: row.TotalAmount,
			Status:      row.Status,
			CreatedAt:   row.CreatedAt,
		}
		if row.OwnerID == userID {
			activity.Direction = "proposed_by_you"
			activity.OtherParty = row.CounterpartyName
			activity.YourAmount = row.OwnerAmount
		} else {
			activity.Direction = "proposed_to_you"
			activity.OtherParty = row.OwnerName
			activity.YourAmount = row.CounterpartyAmount
		}
		activities = append(activities, activity)
	}
	return activities, nil
}
