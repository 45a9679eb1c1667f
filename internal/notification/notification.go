package notification

import (
	"time"

	"github.com/gastaro/gastaro/internal"
)

const (
	TypeSharedExpenseProposed = "shared_expense_proposed"
	TypeSharedExpenseAccepted = "shared_expense_accepted"
	TypeSharedExpenseRejected = "shared_expense_rejected"
	TypeExpenseCreated        = "expense_created"
	TypeIncomeCreated         = "income_created"
	TypePayCompleted          = "pay_completed"
)

// Notification is one inbox entry for a user. Data carries the raw event
// payload so clients can deep-link without another round trip.
type Notification struct {
	ID        int64                  `json:"id" gorm:"primaryKey"`
	UserID    int64                  `json:"user_id" gorm:"not null;index"`
	Type      string                 `json:"type" gorm:"size:64;not null"`
	Title     string                 `json:"title" gorm:"size:255;not null"`
	Message   string                 `json:"message" gorm:"type:text;not null"`
	Data      map[string]interface{} `json:"data,omitempty" gorm:"serializer:json"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

var ErrNotificationNotFound = internal.NewNotFoundError("notification not found", internal.ErrCodeNotificationNotFound)
