package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the bun schema model for the accounts table.
// Email uniqueness is enforced by a unique index on lower(email).
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email        string    `bun:"email,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`

	CompanyName string `bun:"company_name,nullzero"`
	ContactName string `bun:"contact_name,nullzero"`
	Phone       string `bun:"phone,nullzero"`

	Role string `bun:"role,notnull,default:'standard'"`

	IsConfirmed           bool    `bun:"is_confirmed,notnull,default:false"`
	ConfirmationTokenHash *string `bun:"confirmation_token_hash"`

	ResetTokenHash      *string    `bun:"reset_token_hash"`
	ResetTokenExpiresAt *time.Time `bun:"reset_token_expires_at"`

	IsActive         bool       `bun:"is_active,notnull,default:true"`
	SuspendedAt      *time.Time `bun:"suspended_at"`
	SuspensionReason *string    `bun:"suspension_reason"`

	LastLoginAt *time.Time `bun:"last_login_at"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
