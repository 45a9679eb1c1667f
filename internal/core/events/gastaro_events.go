package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeSharedExpenseProposed = "shared_expense.proposed"
	EventTypeSharedExpenseAccepted = "shared_expense.accepted"
	EventTypeSharedExpenseRejected = "shared_expense.rejected"
	EventTypeExpenseCreated        = "expense.created"
	EventTypeIncomeCreated         = "income.created"
	EventTypePayCompleted          = "pay.completed"
)

// SharedExpenseProposedEvent is directed at the counterparty when a
// proposal is created.
type SharedExpenseProposedEvent struct {
	BaseEvent
	ProposalID         int64           `json:"proposal_id"`
	OwnerID            int64           `json:"owner_id"`
	OwnerName          string          `json:"owner_name"`
	CounterpartyID     int64           `json:"counterparty_id"`
	CounterpartyAmount decimal.Decimal `json:"counterparty_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Description        string          `json:"description"`
}

func NewSharedExpenseProposedEvent(proposalID, ownerID, counterpartyID int64, ownerName, description string, counterpartyAmount, totalAmount decimal.Decimal) *SharedExpenseProposedEvent {
	return &SharedExpenseProposedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSharedExpenseProposed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"shared_expense_id": proposalID,
				"inviter_name":      ownerName,
				"amount":            counterpartyAmount.String(),
				"total_amount":      totalAmount.String(),
				"status":            "pending",
			},
		},
		ProposalID:         proposalID,
		OwnerID:            ownerID,
		OwnerName:          ownerName,
		CounterpartyID:     counterpartyID,
		CounterpartyAmount: counterpartyAmount,
		TotalAmount:        totalAmount,
		Description:        description,
	}
}

// SharedExpenseRespondedEvent is directed at the owner after the
// counterparty accepts or rejects. Status carries the terminal state.
type SharedExpenseRespondedEvent struct {
	BaseEvent
	ProposalID         int64           `json:"proposal_id"`
	OwnerID            int64           `json:"owner_id"`
	ResponderName      string          `json:"responder_name"`
	Status             string          `json:"status"`
	CounterpartyAmount decimal.Decimal `json:"counterparty_amount"`
}

func NewSharedExpenseRespondedEvent(proposalID, ownerID int64, responderName, status string, counterpartyAmount decimal.Decimal) *SharedExpenseRespondedEvent {
	eventType := EventTypeSharedExpenseRejected
	if status == "accepted" {
		eventType = EventTypeSharedExpenseAccepted
	}
	return &SharedExpenseRespondedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"shared_expense_id": proposalID,
				"status":            status,
				"responder_name":    responderName,
				"amount":            counterpartyAmount.String(),
			},
		},
		ProposalID:         proposalID,
		OwnerID:            ownerID,
		ResponderName:      responderName,
		Status:             status,
		CounterpartyAmount: counterpartyAmount,
	}
}

type ExpenseCreatedEvent struct {
	BaseEvent
	ExpenseID int64           `json:"expense_id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
}

func NewExpenseCreatedEvent(expenseID, userID int64, amount decimal.Decimal, category string) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"expense_id": expenseID,
				"amount":     amount.String(),
				"category":   category,
			},
		},
		ExpenseID: expenseID,
		UserID:    userID,
		Amount:    amount,
		Category:  category,
	}
}

type IncomeCreatedEvent struct {
	BaseEvent
	IncomeID int64           `json:"income_id"`
	UserID   int64           `json:"user_id"`
	Total    decimal.Decimal `json:"total"`
	Year     int             `json:"year"`
	Month    int             `json:"month"`
}

func NewIncomeCreatedEvent(incomeID, userID int64, total decimal.Decimal, year, month int) *IncomeCreatedEvent {
	return &IncomeCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeIncomeCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"income_id": incomeID,
				"amount":    total.String(),
				"year":      year,
				"month":     month,
			},
		},
		IncomeID: incomeID,
		UserID:   userID,
		Total:    total,
		Year:     year,
		Month:    month,
	}
}

// PayCompletedEvent is the only artifact of a Gastaro Pay "payment": the
// stub records a notification and nothing else.
type PayCompletedEvent struct {
	BaseEvent
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Recipient   string          `json:"recipient"`
	Description string          `json:"description"`
}

func NewPayCompletedEvent(userID int64, amount decimal.Decimal, recipient, description string) *PayCompletedEvent {
	return &PayCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePayCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"amount":      amount.String(),
				"recipient":   recipient,
				"description": description,
				"status":      "completed",
			},
		},
		UserID:      userID,
		Amount:      amount,
		Recipient:   recipient,
		Description: description,
	}
}
