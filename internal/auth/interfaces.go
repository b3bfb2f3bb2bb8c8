package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/talentbridge/talentbridge/internal/account"
)

// TokenService defines the interface for session token creation and validation.
// Implementations include PasetoService (PASETO v4.local) and JWTService (HS256).
type TokenService interface {
	CreateToken(accountID uuid.UUID, email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// AccountStore is the persistence boundary consumed by the authentication
// flows. *account.Repository implements it; tests substitute a fake.
type AccountStore interface {
	Create(ctx context.Context, params account.CreateParams) (*account.Account, error)
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ConfirmByTokenHash(ctx context.Context, tokenHash string) (*account.Account, error)
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id uuid.UUID) error
	RedeemResetToken(ctx context.Context, tokenHash, passwordHash string) (*account.Account, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, update account.ProfileUpdate) (*account.Account, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// EmailSender dispatches account emails carrying the raw (unhashed) token.
// Delivery failures never block account-state transitions except in the
// password reset request, which compensates by clearing the stored token.
type EmailSender interface {
	SendConfirmationEmail(ctx context.Context, toEmail, token string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}
