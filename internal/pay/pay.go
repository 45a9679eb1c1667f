// Package pay is the Gastaro Pay stub. There is no money movement and no
// persistence of its own: a "payment" validates the request, publishes a
// completion event and returns a synthetic receipt. The notification inbox
// is the only durable trace.
package pay

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal"
	"github.com/gastaro/gastaro/internal/core/events"
)

type SendPaymentDTO struct {
	Amount      decimal.Decimal `json:"amount"`
	Recipient   string          `json:"recipient"`
	Description string          `json:"description,omitempty"`
}

func (d *SendPaymentDTO) Validate() error {
	if !d.Amount.IsPositive() {
		return internal.NewValidationFieldError("amount", "amount must be greater than zero", internal.ErrCodeInvalidAmount)
	}
	if d.Recipient == "" {
		return internal.NewValidationFieldError("recipient", "recipient is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Recipient) > 255 {
		return internal.NewValidationFieldError("recipient", "recipient must not exceed 255 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// Receipt is what the stub hands back in place of a processor response.
type Receipt struct {
	ReferenceID string          `json:"reference_id"`
	Amount      decimal.Decimal `json:"amount"`
	Recipient   string          `json:"recipient"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	CompletedAt time.Time       `json:"completed_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) SendPayment(ctx context.Context, userID int64, dto SendPaymentDTO) (*Receipt, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	receipt := &Receipt{
		ReferenceID: uuid.New().String(),
		Amount:      dto.Amount,
		Recipient:   dto.Recipient,
		Description: dto.Description,
		Status:      "completed",
		CompletedAt: time.Now(),
	}

	if err := s.publisher.Publish(ctx, events.NewPayCompletedEvent(userID, dto.Amount, dto.Recipient, dto.Description)); err != nil {
		s.logger.Error("failed to publish pay completed event", "error", err, "user_id", userID)
	}

	s.logger.Info("payment simulated",
		"reference_id", receipt.ReferenceID,
		"user_id", userID,
		"amount", dto.Amount.String())

	return receipt, nil
}
