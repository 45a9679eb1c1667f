package sharedexpense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal"
)

// CreateProposalDTO is the request payload for proposing a shared expense.
// The counterparty is addressed by their 8-character lookup code.
type CreateProposalDTO struct {
	CounterpartyCode   string           `json:"counterparty_code"`
	TotalAmount        decimal.Decimal  `json:"total_amount"`
	SplitMode          SplitMode        `json:"split_mode"`
	OwnerAmount        *decimal.Decimal `json:"owner_amount,omitempty"`
	CounterpartyAmount *decimal.Decimal `json:"counterparty_amount,omitempty"`
	Description        string           `json:"description"`
	Category           string           `json:"category,omitempty"`
	ExpenseDate        time.Time        `json:"expense_date"`
	Notes              string           `json:"notes,omitempty"`
	AttachmentRef      string           `json:"attachment_ref,omitempty"`
}

func (dto CreateProposalDTO) Validate() error {
	if dto.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return internal.NewValidationFieldError("total_amount", "total amount must be greater than 0", internal.ErrCodeInvalidAmount)
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
	if dto.SplitMode != SplitModeEqual && dto.SplitMode != SplitModeCustom {
		return internal.NewValidationFieldError("split_mode", "split mode must be equal or custom", internal.ErrCodeInvalidSplit)
	}
	if dto.SplitMode == SplitModeCustom && (dto.OwnerAmount == nil || dto.CounterpartyAmount == nil) {
		return internal.NewValidationFieldError("split", "custom split requires owner_amount and counterparty_amount", internal.ErrCodeInvalidSplit)
	}
	return nil
}

func (dto CreateProposalDTO) draft() Draft {
	return Draft{
		Description:   dto.Description,
		Category:      dto.Category,
		ExpenseDate:   dto.ExpenseDate,
		Notes:         dto.Notes,
		AttachmentRef: dto.AttachmentRef,
	}
}
