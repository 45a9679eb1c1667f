package sharedexpense

import (
	"context"
	"log/slog"
	"time"

	"github.com/gastaro/gastaro/internal/core/events"
	"github.com/gastaro/gastaro/internal/expense"
	"github.com/gastaro/gastaro/internal/user"
)

// Repository defines the data access methods for proposals. Accept and
// Reject are conditional transitions: the underlying update only applies
// while the row is still pending, so concurrent responses resolve to exactly
// one winner and the loser surfaces ErrAlreadySettled.
type Repository interface {
	Create(p *Proposal) error
	GetByID(id int64) (*Proposal, error)
	ListForUser(userID int64, limit, offset int) ([]*Proposal, error)
	// Accept atomically flips a pending proposal to accepted and inserts
	// both ledger entries; nothing is applied if the transition loses.
	Accept(proposalID int64, respondedAt time.Time, ownerEntry, counterpartyEntry *expense.Expense) (settledExpenseID int64, err error)
	Reject(proposalID int64, respondedAt time.Time) error
}

// UserDirectory resolves proposal participants.
type UserDirectory interface {
	GetByID(id int64) (*user.User, error)
	ResolveByCode(actorID int64, code string) (*user.User, error)
}

// EventPublisher is the fire-and-forget notification side-channel. Publish
// failures never affect the settlement outcome.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	users     UserDirectory
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, users UserDirectory, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateProposal validates the split, resolves the counterparty by lookup
// code and persists a pending proposal. No ledger entries are written here;
// materialization is deferred until the counterparty accepts. Identical
// submissions intentionally create independent proposals.
func (s *Service) CreateProposal(ctx context.Context, ownerID int64, dto CreateProposalDTO) (*Proposal, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("proposal validation failed", "error", err, "owner_id", ownerID)
		return nil, err
	}

	counterparty, err := s.users.ResolveByCode(ownerID, dto.CounterpartyCode)
	if err != nil {
		s.logger.Error("counterparty lookup failed", "error", err, "owner_id", ownerID, "code", dto.CounterpartyCode)
		return nil, err
	}

	owner, err := s.users.GetByID(ownerID)
	if err != nil {
		return nil, err
	}

	ownerAmount, counterpartyAmount, err := ComputeSplit(dto.TotalAmount, dto.SplitMode, dto.OwnerAmount, dto.CounterpartyAmount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Proposal{
		OwnerID:            ownerID,
		CounterpartyID:     counterparty.ID,
		SplitMode:          dto.SplitMode,
		TotalAmount:        dto.TotalAmount,
		OwnerAmount:        ownerAmount,
		CounterpartyAmount: counterpartyAmount,
		Status:             StatusPending,
		Draft:              dto.draft(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create proposal", "error", err, "owner_id", ownerID)
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.NewSharedExpenseProposedEvent(
		p.ID, ownerID, counterparty.ID, owner.Name, p.Draft.Description, counterpartyAmount, dto.TotalAmount)); err != nil {
		s.logger.Error("failed to publish proposal event", "error", err, "proposal_id", p.ID)
	}

	s.logger.Info("shared expense proposed",
		"proposal_id", p.ID,
		"owner_id", ownerID,
		"counterparty_id", counterparty.ID,
		"total", dto.TotalAmount.String(),
		"split_mode", dto.SplitMode)

	return p, nil
}

// Accept settles a pending proposal: both ledger entries are created and the
// proposal becomes terminal in one transaction. After a successful return
// both entries exist and are independently queryable.
func (s *Service) Accept(ctx context.Context, proposalID, actorID int64) (*Proposal, error) {
	p, err := s.repo.GetByID(proposalID)
	if err != nil {
		return nil, err
	}

	if err := p.Authorize(actorID); err != nil {
		s.logger.Warn("accept refused", "error", err, "proposal_id", proposalID, "actor_id", actorID)
		return nil, err
	}

	owner, err := s.users.GetByID(p.OwnerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ownerEntry, counterpartyEntry := p.Materialize(owner.Name, now)

	settledID, err := s.repo.Accept(p.ID, now, ownerEntry, counterpartyEntry)
	if err != nil {
		s.logger.Error("accept transition failed", "error", err, "proposal_id", proposalID, "actor_id", actorID)
		return nil, err
	}

	p.Status = StatusAccepted
	p.SettledExpenseID = &settledID
	p.RespondedAt = &now

	s.notifyResponse(ctx, p, "accepted")

	s.logger.Info("shared expense accepted",
		"proposal_id", p.ID,
		"settled_expense_id", settledID,
		"owner_id", p.OwnerID,
		"counterparty_id", p.CounterpartyID)

	return p, nil
}

// Reject closes a pending proposal without creating any ledger entries.
func (s *Service) Reject(ctx context.Context, proposalID, actorID int64) (*Proposal, error) {
	p, err := s.repo.GetByID(proposalID)
	if err != nil {
		return nil, err
	}

	if err := p.Authorize(actorID); err != nil {
		s.logger.Warn("reject refused", "error", err, "proposal_id", proposalID, "actor_id", actorID)
		return nil, err
	}

	now := time.Now()
	if err := s.repo.Reject(p.ID, now); err != nil {
		s.logger.Error("reject transition failed", "error", err, "proposal_id", proposalID, "actor_id", actorID)
		return nil, err
	}

	p.Status = StatusRejected
	p.RespondedAt = &now

	s.notifyResponse(ctx, p, "rejected")

	s.logger.Info("shared expense rejected",
		"proposal_id", p.ID,
		"owner_id", p.OwnerID,
		"counterparty_id", p.CounterpartyID)

	return p, nil
}

func (s *Service) ListForUser(userID int64, limit, offset int) ([]*Proposal, error) {
	proposals, err := s.repo.ListForUser(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list proposals", "error", err, "user_id", userID)
		return nil, err
	}
	return proposals, nil
}

func (s *Service) notifyResponse(ctx context.Context, p *Proposal, status string) {
	responderName := ""
	if responder, err := s.users.GetByID(p.CounterpartyID); err == nil {
		responderName = responder.Name
	}

	if err := s.publisher.Publish(ctx, events.NewSharedExpenseRespondedEvent(
		p.ID, p.OwnerID, responderName, status, p.CounterpartyAmount)); err != nil {
		s.logger.Error("failed to publish response event", "error", err, "proposal_id", p.ID, "status", status)
	}
}
