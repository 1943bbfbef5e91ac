// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an editorial account. Roles gate write access to rights and
// templates.
type User struct {
	Username     string   `json:"username" gorm:"primaryKey"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role" gorm:"type:varchar(16)"`

	CreatedOn     *time.Time `json:"created_on,omitempty"`
	LastUpdatedOn *time.Time `json:"last_updated_on,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// Session tracks an issued token until its expiry.
type Session struct {
	SessionID     string    `json:"session_id" gorm:"primaryKey;column:session_id"`
	Username      string    `json:"username" gorm:"index"`
	Authenticated bool      `json:"authenticated"`
	Role          UserRole  `json:"role" gorm:"type:varchar(16)"`
	ValidUntil    time.Time `json:"valid_until"`
}

func (Session) TableName() string {
	return "sessions"
}
