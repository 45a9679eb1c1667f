package income

import (
	"context"
	"log/slog"
	"time"

	"github.com/gastaro/gastaro/internal"
	"github.com/gastaro/gastaro/internal/core/events"
)

// Repository defines the data access methods for monthly incomes.
type Repository interface {
	Create(inc *Income) error
	GetByID(id int64) (*Income, error)
	GetByUserMonth(userID int64, year, month int) (*Income, error)
	GetByUserID(userID int64, limit, offset int) ([]*Income, error)
	Update(inc *Income) error
	Delete(id int64) error
}

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

// CreateIncome records income for a calendar month. At most one income
// row may exist per user and month, a second attempt is rejected with a
// conflict so the client can switch to an update instead.
func (s *Service) CreateIncome(ctx context.Context, userID int64, dto CreateIncomeDTO) (*Income, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("income validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	if existing, err := s.repo.GetByUserMonth(userID, dto.Year, dto.Month); err == nil && existing != nil {
		s.logger.Warn("income already recorded",
			"user_id", userID,
			"year", dto.Year,
			"month", dto.Month)
		return nil, ErrIncomeExists
	}

	now := time.Now()
	inc := &Income{
		UserID:    userID,
		Salary:    dto.Salary,
		Payments:  dto.Payments,
		Transfers: dto.Transfers,
		Cash:      dto.Cash,
		Year:      dto.Year,
		Month:     dto.Month,
		Notes:     dto.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(inc); err != nil {
		s.logger.Error("failed to create income", "error", err, "user_id", userID)
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.NewIncomeCreatedEvent(inc.ID, userID, inc.Total(), inc.Year, inc.Month)); err != nil {
		s.logger.Error("failed to publish income created event", "error", err, "income_id", inc.ID)
	}

	s.logger.Info("income recorded",
		"income_id", inc.ID,
		"user_id", userID,
		"year", inc.Year,
		"month", inc.Month)

	return inc, nil
}

func (s *Service) GetIncome(id, userID int64) (*Income, error) {
	inc, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !inc.OwnedBy(userID) {
		s.logger.Warn("income access denied", "income_id", id, "user_id", userID)
		return nil, ErrNotOwner
	}
	return inc, nil
}

func (s *Service) ListIncomes(userID int64, limit, offset int) ([]*Income, error) {
	incomes, err := s.repo.GetByUserID(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list incomes", "error", err, "user_id", userID)
		return nil, err
	}
	return incomes, nil
}

func (s *Service) UpdateIncome(id, userID int64, dto UpdateIncomeDTO) (*Income, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	inc, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !inc.OwnedBy(userID) {
		s.logger.Warn("income update denied", "income_id", id, "user_id", userID)
		return nil, ErrNotOwner
	}

	if dto.Salary != nil {
		inc.Salary = *dto.Salary
	}
	if dto.Payments != nil {
		inc.Payments = *dto.Payments
	}
	if dto.Transfers != nil {
		inc.Transfers = *dto.Transfers
	}
	if dto.Cash != nil {
		inc.Cash = *dto.Cash
	}
	if dto.Notes != nil {
		inc.Notes = *dto.Notes
	}
	if !inc.Total().IsPositive() {
		return nil, internal.NewValidationFieldError("amount", "at least one amount must be greater than zero", internal.ErrCodeInvalidAmount)
	}
	inc.UpdatedAt = time.Now()

	if err := s.repo.Update(inc); err != nil {
		s.logger.Error("failed to update income", "error", err, "income_id", id)
		return nil, err
	}

	return inc, nil
}

func (s *Service) DeleteIncome(id, userID int64) error {
	inc, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !inc.OwnedBy(userID) {
		s.logger.Warn("income delete denied", "income_id", id, "user_id", userID)
		return ErrNotOwner
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete income", "error", err, "income_id", id)
		return err
	}

	s.logger.Info("income deleted", "income_id", id, "user_id", userID)
	return nil
}
