package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/gastaro/gastaro/internal/expense"
	"github.com/gastaro/gastaro/internal/sharedexpense"
)

// ProposalRepository implements sharedexpense.Repository using GORM.
type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) Create(p *sharedexpense.Proposal) error {
	return r.db.Create(p).Error
}

func (r *ProposalRepository) GetByID(id int64) (*sharedexpense.Proposal, error) {
	var p sharedexpense.Proposal
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sharedexpense.ErrProposalNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProposalRepository) ListForUser(userID int64, limit, offset int) ([]*sharedexpense.Proposal, error) {
	var proposals []*sharedexpense.Proposal
	err := r.db.Where("owner_id = ? OR counterparty_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&proposals).Error
	return proposals, err
}

// Accept settles a pending proposal. All writes share one transaction so a
// proposal can never look terminal while a party's ledger entry is missing.
// The status flip is conditional on the row still being pending; when two
// responses race, exactly one update applies and the loser gets
// ErrAlreadySettled.
func (r *ProposalRepository) Accept(proposalID int64, respondedAt time.Time, ownerEntry, counterpartyEntry *expense.Expense) (int64, error) {
	var settledID int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.transition(tx, proposalID, sharedexpense.StatusAccepted, respondedAt); err != nil {
			return err
		}

		if err := tx.Create(ownerEntry).Error; err != nil {
			return err
		}
		if err := tx.Create(counterpartyEntry).Error; err != nil {
			return err
		}

		settledID = ownerEntry.ID

		return tx.Model(&sharedexpense.Proposal{}).
			Where("id = ?", proposalID).
			Update("settled_expense_id", settledID).Error
	})

	return settledID, err
}

func (r *ProposalRepository) Reject(proposalID int64, respondedAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.transition(tx, proposalID, sharedexpense.StatusRejected, respondedAt)
	})
}

func (r *ProposalRepository) transition(tx *gorm.DB, proposalID int64, status sharedexpense.Status, respondedAt time.Time) error {
	res := tx.Model(&sharedexpense.Proposal{}).
		Where("id = ? AND status = ?", proposalID, sharedexpense.StatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": respondedAt,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&sharedexpense.Proposal{}).Where("id = ?", proposalID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return sharedexpense.ErrProposalNotFound
		}
		return sharedexpense.ErrAlreadySettled
	}

	return nil
}
