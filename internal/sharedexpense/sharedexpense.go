package sharedexpense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal"
	"github.com/gastaro/gastaro/internal/expense"
)

type SplitMode string

const (
	SplitModeEqual  SplitMode = "equal"
	SplitModeCustom SplitMode = "custom"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Draft is the snapshot of the expense-to-be, captured at proposal time and
// immutable afterwards. Ledger entries are built from it only on acceptance.
type Draft struct {
	Description   string    `json:"description"`
	Category      string    `json:"category,omitempty"`
	ExpenseDate   time.Time `json:"expense_date"`
	Notes         string    `json:"notes,omitempty"`
	AttachmentRef string    `json:"attachment_ref,omitempty"`
}

// Proposal is a shared expense awaiting the counterparty's response. Rows are
// created by the proposal store, mutated only by accept/reject, and never
// deleted: settled proposals stay as an audit trail.
type Proposal struct {
	ID                 int64           `json:"id" gorm:"primaryKey"`
	OwnerID            int64           `json:"owner_id" gorm:"column:owner_id;not null"`
	CounterpartyID     int64           `json:"counterparty_id" gorm:"column:counterparty_id;not null"`
	SplitMode          SplitMode       `json:"split_mode" gorm:"column:split_mode;not null"`
	TotalAmount        decimal.Decimal `json:"total_amount" gorm:"type:numeric(10,2);not null"`
	OwnerAmount        decimal.Decimal `json:"owner_amount" gorm:"type:numeric(10,2);not null"`
	CounterpartyAmount decimal.Decimal `json:"counterparty_amount" gorm:"type:numeric(10,2);not null"`
	Status             Status          `json:"status" gorm:"default:pending"`
	Draft              Draft           `json:"draft" gorm:"serializer:json"`
	SettledExpenseID   *int64          `json:"settled_expense_id,omitempty" gorm:"column:settled_expense_id"`
	RespondedAt        *time.Time      `json:"responded_at,omitempty" gorm:"column:responded_at"`
	CreatedAt          time.Time       `json:"created_at" gorm:"column:created_at"`
	UpdatedAt          time.Time       `json:"updated_at" gorm:"column:updated_at"`
}

func (Proposal) TableName() string {
	return "shared_expenses"
}

var (
	ErrProposalNotFound = internal.NewNotFoundError("shared expense proposal not found", internal.ErrCodeProposalNotFound)
	ErrNotCounterparty  = internal.NewForbiddenError("only the counterparty can respond to this proposal", internal.ErrCodeNotCounterparty)
	ErrAlreadySettled   = internal.NewConflictError("proposal is no longer pending", internal.ErrCodeProposalSettled)
)

// Authorize checks that the actor may respond and that the proposal is still
// open. Order matters: a stranger gets a 403 even on a settled proposal.
func (p *Proposal) Authorize(actorID int64) error {
	if p.CounterpartyID != actorID {
		return ErrNotCounterparty
	}
	if p.Status != StatusPending {
		return ErrAlreadySettled
	}
	return nil
}

// Materialize builds the two ledger entries an accepted proposal produces:
// one per participant, each owned independently. The counterparty's entry is
// annotated so it reads as a shared expense in their personal history.
func (p *Proposal) Materialize(ownerName string, now time.Time) (ownerEntry, counterpartyEntry *expense.Expense) {
	ownerEntry = &expense.Expense{
		UserID:        p.OwnerID,
		Amount:        p.OwnerAmount,
		Description:   p.Draft.Description,
		Category:      p.Draft.Category,
		ExpenseDate:   p.Draft.ExpenseDate,
		Notes:         p.Draft.Notes,
		AttachmentRef: p.Draft.AttachmentRef,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	counterpartyNotes := "Shared expense"
	if p.Draft.Notes != "" {
		counterpartyNotes = "Shared expense - " + p.Draft.Notes
	}

	counterpartyEntry = &expense.Expense{
		UserID:        p.CounterpartyID,
		Amount:        p.CounterpartyAmount,
		Description:   p.Draft.Description + " (shared with " + ownerName + ")",
		Category:      p.Draft.Category,
		ExpenseDate:   p.Draft.ExpenseDate,
		Notes:         counterpartyNotes,
		AttachmentRef: p.Draft.AttachmentRef,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	return ownerEntry, counterpartyEntry
}
