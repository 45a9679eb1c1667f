package user

import (
	"time"

	"github.com/gastaro/gastaro/internal"
)

// User is a Gastaro account. UserCode is the 8-character lookup code other
// users type to share an expense; Currency only affects display formatting.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	UserCode     string    `json:"user_code" gorm:"column:user_code;uniqueIndex"`
	Currency     string    `json:"currency" gorm:"default:USD"`
	AvatarURL    string    `json:"avatar_url,omitempty" gorm:"column:avatar_url"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// PublicProfile is what lookup-code searches reveal about another user.
type PublicProfile struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	UserCode  string `json:"user_code"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		UserCode:  u.UserCode,
		AvatarURL: u.AvatarURL,
	}
}

// SupportedCurrencies are the display currencies the settings screen offers.
var SupportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"MXN": true,
	"ARS": true,
	"COP": true,
	"CLP": true,
	"PEN": true,
	"GBP": true,
}

var (
	ErrUserNotFound    = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrSelfLookup      = internal.NewValidationError("cannot look up your own code", internal.ErrCodeSelfLookup)
	ErrInvalidUserCode = internal.NewValidationError("lookup code must be 8 uppercase letters or digits", internal.ErrCodeInvalidUserCode)
	ErrEmailTaken      = internal.NewConflictError("email is already registered", internal.ErrCodeValidationFailed)
)
