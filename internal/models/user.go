package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User captures application-facing fields for an authenticated identity.
// Session tokens live in their own table so add/remove stays atomic.
type User struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Balance      decimal.Decimal `json:"balance"`
	PasswordHash string          `json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Session is one revocable login credential issued to a user.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
