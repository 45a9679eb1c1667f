package user

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gastaro/gastaro/internal"
	"github.com/gastaro/gastaro/internal/auth"
)

type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByCode(code string) (*User, error)
	CodeExists(code string) (bool, error)
	UpdateCurrency(id int64, currency string) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates an account with a freshly generated lookup code,
// regenerating on the rare collision.
func (s *Service) Register(email, name, password string) (*auth.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if existing, err := s.repo.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	code, err := s.uniqueCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		UserCode:     code,
		Currency:     "USD",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", email)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "user_code", u.UserCode)

	return &auth.User{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		UserCode: u.UserCode,
		Currency: u.Currency,
	}, nil
}

func (s *Service) uniqueCode() (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		code, err := GenerateCode()
		if err != nil {
			return "", internal.NewInternalError("failed to generate user code", err)
		}
		exists, err := s.repo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", internal.NewInternalError("failed to allocate a unique user code", nil)
}

func (s *Service) GetByID(id int64) (*User, error) {
	return s.repo.GetByID(id)
}

// ResolveByCode finds the counterparty behind a lookup code. Actors cannot
// resolve their own code.
func (s *Service) ResolveByCode(actorID int64, code string) (*User, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !ValidCode(code) {
		return nil, ErrInvalidUserCode
	}

	u, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if u.ID == actorID {
		return nil, ErrSelfLookup
	}

	return u, nil
}

func (s *Service) UpdateCurrency(userID int64, currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !SupportedCurrencies[currency] {
		return internal.NewValidationFieldError("currency", "unsupported currency", internal.ErrCodeValidationFailed)
	}

	if err := s.repo.UpdateCurrency(userID, currency); err != nil {
		s.logger.Error("failed to update currency", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("currency updated", "user_id", userID, "currency", currency)
	return nil
}
