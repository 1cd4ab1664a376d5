// Package dto holds the request and response shapes for the HTTP API.
// Partial updates are typed structs with optional fields, validated at the
// boundary; there is no runtime key-set filtering.
package dto

import (
	"errors"
	"regexp"
	"strings"

	"github.com/fintrack/fintrack-be/internal/models"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// RegisterRequest creates a new user.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required fields and normalizes the email.
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return errors.New("all fields (name, email, password) are required")
	}
	if !emailPattern.MatchString(r.Email) {
		return errors.New("please provide a valid email address")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// LoginRequest verifies credentials and issues a session token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks both credentials are present.
func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" || r.Password == "" {
		return errors.New("both email and password are required")
	}
	return nil
}

// AuthResponse carries the issued token and the user it belongs to.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the address matches the accepted format.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
