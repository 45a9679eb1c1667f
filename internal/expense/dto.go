package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal"
)

// CreateExpenseDTO is the request payload for recording an expense.
type CreateExpenseDTO struct {
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Category      string          `json:"category,omitempty"`
	ExpenseDate   time.Time       `json:"expense_date"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	AttachmentRef string          `json:"attachment_ref,omitempty"`
}

func (dto CreateExpenseDTO) Validate() error {
	if dto.Amount.LessThanOrEqual(decimal.Zero) {
		return internal.NewValidationFieldError("amount", "amount must be greater than 0", internal.ErrCodeInvalidAmount)
	}
	if dto.Description == "" {
		return internal.NewValidationFieldError("description", "description is required", internal.ErrCodeInvalidDescription)
	}
	if len(dto.Description) > 255 {
		return internal.NewValidationFieldError("description", "description must be at most 255 characters", internal.ErrCodeInvalidDescription)
	}
	if dto.ExpenseDate.IsZero() {
		return internal.NewValidationFieldError("expense_date", "expense date is required", internal.ErrCodeInvalidDate)
	}
	return nil
}

// UpdateExpenseDTO carries the mutable fields of an existing entry.
type UpdateExpenseDTO struct {
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Category      string          `json:"category,omitempty"`
	ExpenseDate   time.Time       `json:"expense_date"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	AttachmentRef string          `json:"attachment_ref,omitempty"`
}

func (dto UpdateExpenseDTO) Validate() error {
	return CreateExpenseDTO{
		Amount:      dto.Amount,
		Description: dto.Description,
		ExpenseDate: dto.ExpenseDate,
	}.Validate()
}
