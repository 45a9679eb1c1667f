package sharedexpense

import (
	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal"
)

var two = decimal.NewFromInt(2)

// ComputeSplit derives the per-party amounts for a proposal.
//
// Equal mode halves the total at cent precision: the counterparty gets the
// rounded-down half and the owner takes the rest, so for odd-cent totals the
// owner absorbs the extra cent and the sides always sum exactly to the total.
//
// Custom mode requires both amounts, non-negative, summing exactly to the
// total.
func ComputeSplit(total decimal.Decimal, mode SplitMode, customOwner, customCounterparty *decimal.Decimal) (owner, counterparty decimal.Decimal, err error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero,
			internal.NewValidationFieldError("total_amount", "total amount must be greater than 0", internal.ErrCodeInvalidAmount)
	}

	switch mode {
	case SplitModeEqual:
		counterparty = total.Div(two).RoundFloor(2)
		owner = total.Sub(counterparty)
		return owner, counterparty, nil

	case SplitModeCustom:
		if customOwner == nil || customCounterparty == nil {
			return decimal.Zero, decimal.Zero,
				internal.NewValidationFieldError("split", "custom split requires owner_amount and counterparty_amount", internal.ErrCodeInvalidSplit)
		}
		if customOwner.IsNegative() || customCounterparty.IsNegative() {
			return decimal.Zero, decimal.Zero,
				internal.NewValidationFieldError("split", "split amounts cannot be negative", internal.ErrCodeInvalidSplit)
		}
		if !customOwner.Add(*customCounterparty).Equal(total) {
			return decimal.Zero, decimal.Zero,
				internal.NewValidationFieldError("split", "split amounts must sum to the total amount", internal.ErrCodeInvalidSplit)
		}
		return *customOwner, *customCounterparty, nil

	default:
		return decimal.Zero, decimal.Zero,
			internal.NewValidationFieldError("split_mode", "split mode must be equal or custom", internal.ErrCodeInvalidSplit)
	}
}
