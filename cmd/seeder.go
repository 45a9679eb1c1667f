package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gastaro/gastaro/internal/expense"
	"github.com/gastaro/gastaro/internal/income"
	"github.com/gastaro/gastaro/internal/sharedexpense"
	"github.com/gastaro/gastaro/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"notifications", "shared_expenses", "expenses", "incomes", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		alice := seedUser(db, "alice@mail.com", "Alice", string(hash))
		bob := seedUser(db, "bob@mail.com", "Bob", string(hash))

		now := time.Now()

		seedExpense(db, alice.ID, "Groceries", "food", "38.50", now.AddDate(0, 0, -2))
		seedExpense(db, alice.ID, "Bus pass", "transport", "25.00", now.AddDate(0, 0, -7))
		seedExpense(db, bob.ID, "Coffee", "food", "4.80", now.AddDate(0, 0, -1))

		seedIncome(db, alice.ID, "4200.00", now.Year(), int(now.Month()))
		seedIncome(db, bob.ID, "3900.00", now.Year(), int(now.Month()))

		seedProposal(db, alice, bob, "Dinner at Luigi's", "86.00")

		fmt.Println("Seeding complete")
		fmt.Printf("Login with alice@mail.com or bob@mail.com, password %q\n", "password")
	},
}

func seedUser(db *gorm.DB, email, name, passwordHash string) *user.User {
	var existing user.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (%s)\n", email, existing.UserCode)
		return &existing
	}

	code, err := user.GenerateCode()
	if err != nil {
		log.Fatalf("failed to generate user code: %v", err)
	}

	u := &user.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		UserCode:     code,
		Currency:     "USD",
	}
	if err := db.Create(u).Error; err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Printf("Seeded user %s with code %s\n", email, code)
	return u
}

func seedExpense(db *gorm.DB, userID int64, description, category, amount string, date time.Time) {
	exp := &expense.Expense{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Description: description,
		Category:    category,
		ExpenseDate: date,
	}
	if err := db.Create(exp).Error; err != nil {
		log.Fatalf("failed to seed expense %q: %v", description, err)
	}
}

func seedIncome(db *gorm.DB, userID int64, amount string, year, month int) {
	var existing income.Income
	if err := db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).First(&existing).Error; err == nil {
		return
	}

	inc := &income.Income{
		UserID: userID,
		Salary: decimal.RequireFromString(amount),
		Year:   year,
		Month:  month,
	}
	if err := db.Create(inc).Error; err != nil {
		log.Fatalf("failed to seed income: %v", err)
	}
}

func seedProposal(db *gorm.DB, owner, counterparty *user.User, description, total string) {
	totalAmount := decimal.RequireFromString(total)
	ownerAmount, counterpartyAmount, err := sharedexpense.ComputeSplit(totalAmount, sharedexpense.SplitModeEqual, nil, nil)
	if err != nil {
		log.Fatalf("failed to compute split: %v", err)
	}

	p := &sharedexpense.Proposal{
		OwnerID:            owner.ID,
		CounterpartyID:     counterparty.ID,
		TotalAmount:        totalAmount,
		SplitMode:          sharedexpense.SplitModeEqual,
		OwnerAmount:        ownerAmount,
		CounterpartyAmount: counterpartyAmount,
		Status:             sharedexpense.StatusPending,
		Draft: sharedexpense.Draft{
			Description: description,
			Category:    "food",
			ExpenseDate: time.Now(),
		},
	}
	if err := db.Create(p).Error; err != nil {
		log.Fatalf("failed to seed shared expense: %v", err)
	}
	fmt.Printf("Seeded pending shared expense %q from %s to %s\n", description, owner.Name, counterparty.Name)
}
