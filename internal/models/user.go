package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered recipient of anonymous messages.
//
// Username uniqueness is only enforced among verified users: an unverified
// record may be reclaimed by a later sign-up using the same email. The
// authoritative constraint is a partial unique index created in the database
// package, not a gorm uniqueIndex tag.
type User struct {
	BaseModel
	Username            string    `gorm:"index" json:"username"`
	Email               string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash        string    `json:"-"`
	OTP                 string    `gorm:"column:otp" json:"-"`
	OTPExpiry           time.Time `gorm:"column:otp_expiry" json:"-"`
	IsVerified          bool      `json:"is_verified"`
	IsAcceptingMessages bool      `json:"is_accepting_messages"`
	Messages            []Message `json:"messages,omitempty"`
}

// Message is a single anonymous message addressed to a user.
//
// Messages live in their own table so an append is one INSERT and concurrent
// senders targeting the same user cannot clobber each other. No sender
// identity is stored anywhere on the row.
type Message struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Content string    `json:"content"`
}
