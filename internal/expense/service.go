package expense

import (
	"context"
	"log/slog"
	"time"

	"github.com/gastaro/gastaro/internal/core/events"
)

// Repository defines the data access methods for ledger entries.
type Repository interface {
	Create(exp *Expense) error
	GetByID(id int64) (*Expense, error)
	GetByUserID(userID int64, limit, offset int) ([]*Expense, error)
	Update(exp *Expense) error
	Delete(id int64) error
}

// EventPublisher is the fire-and-forget notification side-channel.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) CreateExpense(ctx context.Context, userID int64, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	now := time.Now()
	exp := &Expense{
		UserID:        userID,
		Amount:        dto.Amount,
		Description:   dto.Description,
		Category:      dto.Category,
		ExpenseDate:   dto.ExpenseDate,
		PaymentMethod: dto.PaymentMethod,
		Notes:         dto.Notes,
		AttachmentRef: dto.AttachmentRef,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(exp); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", userID)
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.NewExpenseCreatedEvent(exp.ID, userID, exp.Amount, exp.Category)); err != nil {
		s.logger.Error("failed to publish expense created event", "error", err, "expense_id", exp.ID)
	}

	s.logger.Info("expense created",
		"expense_id", exp.ID,
		"user_id", userID,
		"amount", exp.Amount.String())

	return exp, nil
}

func (s *Service) GetExpense(id, userID int64) (*Expense, error) {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !exp.OwnedBy(userID) {
		s.logger.Warn("expense access denied", "expense_id", id, "user_id", userID)
		return nil, ErrNotOwner
	}
	return exp, nil
}

func (s *Service) ListExpenses(userID int64, limit, offset int) ([]*Expense, error) {
	expenses, err := s.repo.GetByUserID(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", userID)
		return nil, err
	}
	return expenses, nil
}

func (s *Service) UpdateExpense(id, userID int64, dto UpdateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !exp.OwnedBy(userID) {
		s.logger.Warn("expense update denied", "expense_id", id, "user_id", userID)
		return nil, ErrNotOwner
	}

	exp.Amount = dto.Amount
	exp.Description = dto.Description
	exp.Category = dto.Category
	exp.ExpenseDate = dto.ExpenseDate
	exp.PaymentMethod = dto.PaymentMethod
	exp.Notes = dto.Notes
	exp.AttachmentRef = dto.AttachmentRef
	exp.UpdatedAt = time.Now()

	if err := s.repo.Update(exp); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, err
	}

	return exp, nil
}

func (s *Service) DeleteExpense(id, userID int64) error {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !exp.OwnedBy(userID) {
		s.logger.Warn("expense delete denied", "expense_id", id, "user_id", userID)
		return ErrNotOwner
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return err
	}

	s.logger.Info("expense deleted", "expense_id", id, "user_id", userID)
	return nil
}
