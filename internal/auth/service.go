package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talentbridge/talentbridge/internal/account"
	"github.com/talentbridge/talentbridge/internal/logging"
)

var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailRequired         = errors.New("email is required")
	ErrPasswordRequired      = errors.New("password is required")
	ErrPasswordTooShort      = errors.New("password must be at least 8 characters")
	ErrInvalidEmailFormat    = errors.New("invalid email format")
	ErrAccountNotConfirmed   = errors.New("account not confirmed, please check your inbox")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)

// AccountSuspendedError is returned on login or guard checks against a
// suspended account, carrying the suspension details for the response.
type AccountSuspendedError struct {
	SuspendedAt *time.Time
	Reason      string
}

func (e *AccountSuspendedError) Error() string {
	return "account suspended"
}

// Service handles authentication business logic
type Service struct {
	accounts   AccountStore
	tokens     TokenService
	email      EmailSender
	hasher     *PasswordHasher
	logger     *logging.Logger
	sessionTTL time.Duration
	resetTTL   time.Duration
}

func NewService(
	accounts AccountStore,
	tokens TokenService,
	email EmailSender,
	hasher *PasswordHasher,
	logger *logging.Logger,
	sessionTTL time.Duration,
	resetTTL time.Duration,
) *Service {
	return &Service{
		accounts:   accounts,
		tokens:     tokens,
		email:      email,
		hasher:     hasher,
		logger:     logger,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}
}

// RegisterParams carries registration input. The profile fields are opaque to
// the authentication flow and stored as-is.
type RegisterParams struct {
	Email       string
	Password    string
	CompanyName string
	ContactName string
	Phone       string
}

// Session is the result of a successful login
type Session struct {
	Token     string           `json:"token"`
	ExpiresIn int64            `json:"expires_in"`
	Account   *account.Account `json:"account"`
}

// Register creates a new unconfirmed account and dispatches the confirmation
// email. Email delivery failure is logged but never rolls back the account.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*account.Account, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(params.Password); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	confirmationToken, err := GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	newAccount, err := s.accounts.Create(ctx, account.CreateParams{
		Email:                 email,
		PasswordHash:          passwordHash,
		ConfirmationTokenHash: HashToken(confirmationToken),
		CompanyName:           params.CompanyName,
		ContactName:           params.ContactName,
		Phone:                 params.Phone,
	})
	if err != nil {
		if errors.Is(err, account.ErrDuplicateEmail) {
			return nil, account.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Fire and forget: the raw token travels only inside the email
	go func() {
		emailCtx := context.Background()
		if err := s.email.SendConfirmationEmail(emailCtx, email, confirmationToken); err != nil {
			s.logger.Warn("failed to send confirmation email", "email", email, "error", err)
		}
	}()

	return newAccount, nil
}

// Confirm redeems a confirmation token. Redemption is a single conditional
// update in the store, so each token works at most once. Confirmation tokens
// carry no expiry; they stay valid until used.
func (s *Service) Confirm(ctx context.Context, token string) (*account.Account, error) {
	if token == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	confirmed, err := s.accounts.ConfirmByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to confirm account: %w", err)
	}

	return confirmed, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if !s.hasher.Verify(password, acc.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !acc.IsConfirmed {
		return nil, ErrAccountNotConfirmed
	}

	if !acc.IsActive {
		return nil, &AccountSuspendedError{
			SuspendedAt: acc.SuspendedAt,
			Reason:      suspensionReason(acc),
		}
	}

	now := time.Now()
	if err := s.accounts.TouchLastLogin(ctx, acc.ID, now); err != nil {
		return nil, fmt.Errorf("failed to stamp last login: %w", err)
	}
	acc.LastLoginAt = &now

	token, err := s.tokens.CreateToken(acc.ID, acc.Email, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session token: %w", err)
	}

	return &Session{
		Token:     token,
		ExpiresIn: int64(s.sessionTTL.Seconds()),
		Account:   acc,
	}, nil
}

// RequestPasswordReset issues a time-boxed reset token and emails it.
// Always returns nil for unknown emails to prevent account enumeration.
// When the email cannot be dispatched the stored token is cleared again,
// so no unusable reset capability is left dangling.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil
		}
		s.logger.Warn("failed to get account for password reset", "error", err)
		return nil
	}

	token, err := GenerateToken()
	if err != nil {
		s.logger.Warn("failed to generate password reset token", "error", err)
		return nil
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.accounts.SetResetToken(ctx, acc.ID, HashToken(token), expiresAt); err != nil {
		s.logger.Warn("failed to store password reset token", "error", err)
		return nil
	}

	if err := s.email.SendPasswordResetEmail(ctx, acc.Email, token); err != nil {
		s.logger.Warn("failed to send password reset email, clearing token", "email", acc.Email, "error", err)
		if clearErr := s.accounts.ClearResetToken(ctx, acc.ID); clearErr != nil {
			s.logger.Error("failed to clear reset token after email failure", "error", clearErr)
		}
	}

	return nil
}

// ResetPassword redeems a reset token and replaces the password. The store
// checks hash and expiry in one conditional update, so an expired or
// already-redeemed token never authorizes a change.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidOrExpiredToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.accounts.RedeemResetToken(ctx, HashToken(token), passwordHash); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("failed to redeem reset token: %w", err)
	}

	return nil
}

// ChangePassword replaces the password of an authenticated account after
// verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	if !s.hasher.Verify(currentPassword, acc.PasswordHash) {
		return ErrInvalidCredentials
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, accountID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// UpdateProfile updates the opaque profile fields of an account
func (s *Service) UpdateProfile(ctx context.Context, accountID uuid.UUID, update account.ProfileUpdate) (*account.Account, error) {
	acc, err := s.accounts.UpdateProfile(ctx, accountID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return acc, nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if len(email) > 254 {
		return ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmailFormat
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

func suspensionReason(acc *account.Account) string {
	if acc.SuspensionReason == nil {
		return ""
	}
	return *acc.SuspensionReason
}
