package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Purpose identifies which flow an OTP challenge belongs to.
type Purpose string

const (
	PurposeLogin  Purpose = "login"
	PurposeSignup Purpose = "signup"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return p == PurposeLogin || p == PurposeSignup
}

var (
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	codePattern  = regexp.MustCompile(`^\d{6}$`)
)

// ValidPhone reports whether phone is a 10 digit mobile number starting with 6-9.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidCode reports whether code is exactly six digits.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// ProfileDraft carries the signup form fields until the challenge is verified.
type ProfileDraft struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Challenge is a pending one-time-code challenge for a (purpose, phone) pair.
type Challenge struct {
	Purpose  Purpose       `json:"purpose" db:"purpose"`
	Phone    string        `json:"phone" db:"phone"`
	CodeHash string        `json:"-" db:"code_hash"`
	IssuedAt time.Time     `json:"issuedAt" db:"issued_at"`
	TTL      time.Duration `json:"ttl" db:"ttl_seconds"`
	Profile  ProfileDraft  `json:"profile" db:"profile"`
}

// ExpiresAt returns the instant after which the challenge is no longer usable.
func (c *Challenge) ExpiresAt() time.Time {
	return c.IssuedAt.Add(c.TTL)
}

// Expired reports whether more than TTL has passed since issuance.
func (c *Challenge) Expired(now time.Time) bool {
	return now.Sub(c.IssuedAt) > c.TTL
}

// Purged reports whether the expiry timer already removed the code.
func (c *Challenge) Purged() bool {
	return c.CodeHash == ""
}

// Remaining returns the countdown value at now, never negative.
func (c *Challenge) Remaining(now time.Time) time.Duration {
	left := c.ExpiresAt().Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// IssueRequest represents the request payload for sending an OTP.
type IssueRequest struct {
	Purpose Purpose `json:"purpose"`
	Phone   string  `json:"phone"`
	Name    string  `json:"name,omitempty"`
	Email   string  `json:"email,omitempty"`
}

// IssueResponse tells the client how long the code stays valid.
type IssueResponse struct {
	Purpose   Purpose   `json:"purpose"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expiresAt"`
	ExpiresIn int       `json:"expiresIn"`
}

// VerifyRequest represents the request payload for verifying an OTP.
type VerifyRequest struct {
	Purpose Purpose `json:"purpose"`
	Phone   string  `json:"phone"`
	Code    string  `json:"code"`
}

// Session is an authenticated holder of a phone number.
type Session struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Phone           string    `json:"phone" db:"phone"`
	AuthenticatedAt time.Time `json:"authenticatedAt" db:"authenticated_at"`
}

// AuthResponse is returned after a successful verification.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
	Created   bool      `json:"created"`
}
