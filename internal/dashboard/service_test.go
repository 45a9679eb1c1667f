package dashboard_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal/dashboard"
)

func TestDashboard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dashboard Suite")
}

// Mock repository for testing
type mockDashboardRepository struct {
	income        decimal.Decimal
	expenses      decimal.Decimal
	sinceByCutoff map[string]decimal.Decimal
	count         int64
	categories    []dashboard.CategoryTotal
	shared        []dashboard.SharedActivity
}

func (m *mockDashboardRepository) TotalIncome(userID int64) (decimal.Decimal, error) {
	return m.income, nil
}

func (m *mockDashboardRepository) TotalExpenses(userID int64) (decimal.Decimal, error) {
	return m.expenses, nil
}

func (m *mockDashboardRepository) ExpensesSince(userID int64, since time.Time) (decimal.Decimal, error) {
	if v, ok := m.sinceByCutoff[since.Format("2006-01-02")]; ok {
		return v, nil
	}
	return decimal.Zero, nil
}

func (m *mockDashboardRepository) ExpenseCount(userID int64) (int64, error) {
	return m.count, nil
}

func (m *mockDashboardRepository) TopCategories(userID int64, limit int) ([]dashboard.CategoryTotal, error) {
	return m.categories, nil
}

func (m *mockDashboardRepository) RecentShared(userID int64, limit int) ([]dashboard.SharedActivity, error) {
	return m.shared, nil
}

var _ = Describe("DashboardService", func() {
	It("computes the balance as income minus all ledger entries", func() {
		mockRepo := &mockDashboardRepository{
			income:   decimal.RequireFromString("4200.00"),
			expenses: decimal.RequireFromString("1350.75"),
			count:    12,
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := dashboard.NewService(mockRepo, logger)

		summary, err := service.GetSummary(1)

		Expect(err).ToNot(HaveOccurred())
		Expect(summary.Balance.Equal(decimal.RequireFromString("2849.25"))).To(BeTrue())
		Expect(summary.ExpenseCount).To(Equal(int64(12)))
	})

	It("passes through category and shared activity slices", func() {
		mockRepo := &mockDashboardRepository{
			income:   decimal.Zero,
			expenses: decimal.Zero,
			categories: []dashboard.CategoryTotal{
				{Category: "food", Total: decimal.RequireFromString("320.00"), Count: 8},
			},
			shared: []dashboard.SharedActivity{
				{ID: 7, Direction: "proposed_to_you", OtherParty: "Alice"},
			},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := dashboard.NewService(mockRepo, logger)

		summary, err := service.GetSummary(1)

		Expect(err).ToNot(HaveOccurred())
		Expect(summary.TopCategories).To(HaveLen(1))
		Expect(summary.RecentShared).To(HaveLen(1))
		Expect(summary.RecentShared[0].OtherParty).To(Equal("Alice"))
	})
})
