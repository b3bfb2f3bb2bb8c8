package account

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level of an account.
// Admin access is granted through this field exclusively.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// Account is the persisted identity record for a registrant.
// Secret material (password hash, token hashes) is never serialized.
type Account struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`

	PasswordHash string `json:"-"`

	CompanyName string `json:"company_name,omitempty"`
	ContactName string `json:"contact_name,omitempty"`
	Phone       string `json:"phone,omitempty"`

	Role Role `json:"role"`

	IsConfirmed           bool    `json:"is_confirmed"`
	ConfirmationTokenHash *string `json:"-"`

	ResetTokenHash      *string    `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	IsActive         bool       `json:"is_active"`
	SuspendedAt      *time.Time `json:"suspended_at,omitempty"`
	SuspensionReason *string    `json:"suspension_reason,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateParams carries the fields needed to persist a new account.
// Only the password hash and the confirmation token hash ever reach the store.
type CreateParams struct {
	Email                 string
	PasswordHash          string
	ConfirmationTokenHash string
	CompanyName           string
	ContactName           string
	Phone                 string
}

// ProfileUpdate carries the mutable profile fields. Email and role are
// immutable through this path.
type ProfileUpdate struct {
	CompanyName string
	ContactName string
	Phone       string
}
