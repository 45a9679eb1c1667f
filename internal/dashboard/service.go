package dashboard

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

const (
	topCategoryLimit  = 5
	recentSharedLimit = 5
)

// Repository is the read side for the dashboard aggregates.
type Repository interface {
	TotalIncome(userID int64) (decimal.Decimal, error)
	TotalExpenses(userID int64) (decimal.Decimal, error)
	ExpensesSince(userID int64, since time.Time) (decimal.Decimal, error)
	ExpenseCount(userID int64) (int64, error)
	TopCategories(userID int64, limit int) ([]CategoryTotal, error)
	RecentShared(userID int64, limit int) ([]SharedActivity, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) GetSummary(userID int64) (*Summary, error) {
	income, err := s.repo.TotalIncome(userID)
	if err != nil {
		s.logger.Error("failed to load total income", "error", err, "user_id", userID)
		return nil, err
	}

	expenses, err := s.repo.TotalExpenses(userID)
	if err != nil {
		s.logger.Error("failed to load total expenses", "error", err, "user_id", userID)
		return nil, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	todayExpenses, err := s.repo.ExpensesSince(userID, today)
	if err != nil {
		return nil, err
	}

	monthExpenses, err := s.repo.ExpensesSince(userID, monthStart)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.ExpenseCount(userID)
	if err != nil {
		return nil, err
	}

	categories, err := s.repo.TopCategories(userID, topCategoryLimit)
	if err != nil {
		return nil, err
	}

	shared, err := s.repo.RecentShared(userID, recentSharedLimit)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
		TodayExpenses: todayExpenses,
		MonthExpenses: monthExpenses,
		ExpenseCount:  count,
		TopCategories: categories,
		RecentShared:  shared,
	}, nil
}
