package income

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal"
)

// CreateIncomeDTO records a month's income. Omitted amounts default to
// zero, but at least one of the four must be positive.
type CreateIncomeDTO struct {
	Salary    decimal.Decimal `json:"salary"`
	Payments  decimal.Decimal `json:"payments"`
	Transfers decimal.Decimal `json:"transfers"`
	Cash      decimal.Decimal `json:"cash"`
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Notes     string          `json:"notes,omitempty"`
}

func (d *CreateIncomeDTO) Validate() error {
	if err := nonNegative("salary", d.Salary); err != nil {
		return err
	}
	if err := nonNegative("payments", d.Payments); err != nil {
		return err
	}
	if err := nonNegative("transfers", d.Transfers); err != nil {
		return err
	}
	if err := nonNegative("cash", d.Cash); err != nil {
		return err
	}
	if !d.Salary.Add(d.Payments).Add(d.Transfers).Add(d.Cash).IsPositive() {
		return internal.NewValidationFieldError("amount", "at least one amount must be greater than zero", internal.ErrCodeInvalidAmount)
	}
	if d.Year < 2000 || d.Year > time.Now().Year()+1 {
		return internal.NewValidationFieldError("year", "year is out of range", internal.ErrCodeInvalidDate)
	}
	if d.Month < 1 || d.Month > 12 {
		return internal.NewValidationFieldError("month", "month must be between 1 and 12", internal.ErrCodeInvalidDate)
	}
	return nil
}

// UpdateIncomeDTO patches an existing month. Nil fields are left
// untouched; the result must still have a positive total.
type UpdateIncomeDTO struct {
	Salary    *decimal.Decimal `json:"salary,omitempty"`
	Payments  *decimal.Decimal `json:"payments,omitempty"`
	Transfers *decimal.Decimal `json:"transfers,omitempty"`
	Cash      *decimal.Decimal `json:"cash,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}

func (d *UpdateIncomeDTO) Validate() error {
	for _, f := range []struct {
		name   string
		amount *decimal.Decimal
	}{
		{"salary", d.Salary},
		{"payments", d.Payments},
		{"transfers", d.Transfers},
		{"cash", d.Cash},
	} {
		if f.amount != nil {
			if err := nonNegative(f.name, *f.amount); err != nil {
				return err
			}
		}
	}
	return nil
}

func nonNegative(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return internal.NewValidationFieldError(field, field+" must not be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}
