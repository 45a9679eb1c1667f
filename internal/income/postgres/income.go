package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/gastaro/gastaro/internal/income"
)

// IncomeRepository implements income.Repository using GORM.
type IncomeRepository struct {
	db *gorm.DB
}

func NewIncomeRepository(db *gorm.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

func (r *IncomeRepository) Create(inc *income.Income) error {
	err := r.db.Create(inc).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// unique (user_id, year, month) lost a race with a concurrent insert
		return income.ErrIncomeExists
	}
	return err
}

func (r *IncomeRepository) GetByID(id int64) (*income.Income, error) {
	var inc income.Income
	err := r.db.Where("id = ?", id).First(&inc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, income.ErrIncomeNotFound
		}
		return nil, err
	}
	return &inc, nil
}

func (r *IncomeRepository) GetByUserMonth(userID int64, year, month int) (*income.Income, error) {
	var inc income.Income
	err := r.db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).First(&inc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, income.ErrIncomeNotFound
		}
		return nil, err
	}
	return &inc, nil
}

func (r *IncomeRepository) GetByUserID(userID int64, limit, offset int) ([]*income.Income, error) {
	var incomes []*income.Income
	err := r.db.Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Limit(limit).
		Offset(offset).
		Find(&incomes).Error
	return incomes, err
}

func (r *IncomeRepository) Update(inc *income.Income) error {
	inc.UpdatedAt = time.Now()
	return r.db.Save(inc).Error
}

func (r *IncomeRepository) Delete(id int64) error {
	return r.db.Delete(&income.Income{}, id).Error
}
