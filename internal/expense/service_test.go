package expense_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal/core/events"
	"github.com/gastaro/gastaro/internal/expense"
)

func TestExpense(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Suite")
}

// Mock repository for testing
type mockExpenseRepository struct {
	expenses    map[int64]*expense.Expense
	createError error
	nextID      int64
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{
		expenses: make(map[int64]*expense.Expense),
		nextID:   1,
	}
}

func (m *mockExpenseRepository) Create(exp *expense.Expense) error {
	if m.createError != nil {
		return m.createError
	}
	exp.ID = m.nextID
	m.nextID++
	m.expenses[exp.ID] = exp
	return nil
}

func (m *mockExpenseRepository) GetByID(id int64) (*expense.Expense, error) {
	exp, exists := m.expenses[id]
	if !exists {
		return nil, expense.ErrExpenseNotFound
	}
	return exp, nil
}

func (m *mockExpenseRepository) GetByUserID(userID int64, limit, offset int) ([]*expense.Expense, error) {
	result := []*expense.Expense{}
	for _, exp := range m.expenses {
		if exp.UserID == userID {
			result = append(result, exp)
		}
	}
	return result, nil
}

func (m *mockExpenseRepository) Update(exp *expense.Expense) error {
	m.expenses[exp.ID] = exp
	return nil
}

func (m *mockExpenseRepository) Delete(id int64) error {
	delete(m.expenses, id)
	return nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("ExpenseService", func() {
	var (
		service   *expense.Service
		mockRepo  *mockExpenseRepository
		publisher *mockPublisher
		ctx       context.Context
	)

	validDTO := func() expense.CreateExpenseDTO {
		return expense.CreateExpenseDTO{
			Amount:      decimal.RequireFromString("38.50"),
			Description: "Groceries",
			Category:    "food",
			ExpenseDate: time.Now(),
		}
	}

	BeforeEach(func() {
		mockRepo = newMockExpenseRepository()
		publisher = &mockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = expense.NewService(mockRepo, publisher, logger)
		ctx = context.Background()
	})

	Describe("CreateExpense", func() {
		It("persists the expense for its owner", func() {
			exp, err := service.CreateExpense(ctx, 1, validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(exp.ID).To(BeNumerically(">", 0))
			Expect(exp.UserID).To(Equal(int64(1)))
		})

		It("publishes a created event", func() {
			exp, err := service.CreateExpense(ctx, 1, validDTO())
			Expect(err).ToNot(HaveOccurred())

			Expect(publisher.published).To(HaveLen(1))
			e, ok := publisher.published[0].(*events.ExpenseCreatedEvent)
			Expect(ok).To(BeTrue())
			Expect(e.ExpenseID).To(Equal(exp.ID))
		})

		It("rejects a non-positive amount", func() {
			dto := validDTO()
			dto.Amount = decimal.Zero

			_, err := service.CreateExpense(ctx, 1, dto)
			Expect(err).To(HaveOccurred())
			Expect(mockRepo.expenses).To(BeEmpty())
		})

		It("rejects a missing description", func() {
			dto := validDTO()
			dto.Description = ""

			_, err := service.CreateExpense(ctx, 1, dto)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetExpense", func() {
		It("refuses another user's expense", func() {
			exp, err := service.CreateExpense(ctx, 1, validDTO())
			Expect(err).ToNot(HaveOccurred())

			_, err = service.GetExpense(exp.ID, 2)
			Expect(err).To(MatchError(expense.ErrNotOwner))
		})

		It("returns the owner's expense", func() {
			exp, err := service.CreateExpense(ctx, 1, validDTO())
			Expect(err).ToNot(HaveOccurred())

			got, err := service.GetExpense(exp.ID, 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.ID).To(Equal(exp.ID))
		})
	})

	Describe("UpdateExpense", func() {
		It("refuses another user's expense", func() {
			exp, err := service.CreateExpense(ctx, 1, validDTO())
			Expect(err).ToNot(HaveOccurred())

			dto := expense.UpdateExpenseDTO{
				Amount:      decimal.RequireFromString("40.00"),
				Description: "Groceries and snacks",
				ExpenseDate: time.Now(),
			}
			_, err = service.UpdateExpense(exp.ID, 2, dto)
			Expect(err).To(MatchError(expense.ErrNotOwner))
		})
	})

	Describe("DeleteExpense", func() {
		It("removes the owner's expense", func() {
			exp, err := service.CreateExpense(ctx, 1, validDTO())
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeleteExpense(exp.ID, 1)).To(Succeed())
			_, err = service.GetExpense(exp.ID, 1)
			Expect(err).To(MatchError(expense.ErrExpenseNotFound))
		})

		It("refuses another user's expense", func() {
			exp, err := service.CreateExpense(ctx, 1, validDTO())
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeleteExpense(exp.ID, 2)).To(MatchError(expense.ErrNotOwner))
		})
	})
})
