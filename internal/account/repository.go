package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/talentbridge/talentbridge/internal/database"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Repository handles account persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account. Accounts start unconfirmed, active, and with
// the standard role; only hashes of the password and confirmation token are
// stored.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*Account, error) {
	dbAcc := &database.Account{
		Email:                 strings.ToLower(params.Email),
		PasswordHash:          params.PasswordHash,
		ConfirmationTokenHash: &params.ConfirmationTokenHash,
		CompanyName:           params.CompanyName,
		ContactName:           params.ContactName,
		Phone:                 params.Phone,
		Role:                  string(RoleStandard),
		IsConfirmed:           false,
		IsActive:              true,
	}

	_, err := r.db.NewInsert().
		Model(dbAcc).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return mapDBAccountToModel(dbAcc), nil
}

// GetByEmail retrieves an account by email, case-insensitively
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	dbAcc := new(database.Account)
	err := r.db.NewSelect().
		Model(dbAcc).
		Where("lower(email) = lower(?)", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return mapDBAccountToModel(dbAcc), nil
}

// GetByID retrieves an account by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	dbAcc := new(database.Account)
	err := r.db.NewSelect().
		Model(dbAcc).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}

	return mapDBAccountToModel(dbAcc), nil
}

// List returns all accounts, newest first
func (r *Repository) List(ctx context.Context) ([]*Account, error) {
	var dbAccounts []*database.Account
	err := r.db.NewSelect().
		Model(&dbAccounts).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]*Account, len(dbAccounts))
	for i, dbAcc := range dbAccounts {
		accounts[i] = mapDBAccountToModel(dbAcc)
	}
	return accounts, nil
}

// ConfirmByTokenHash flips the matching unconfirmed account to confirmed and
// clears the token hash in a single conditional update, so a confirmation
// token can be redeemed at most once even under concurrent requests.
func (r *Repository) ConfirmByTokenHash(ctx context.Context, tokenHash string) (*Account, error) {
	dbAcc := new(database.Account)
	result, err := r.db.NewUpdate().
		Model(dbAcc).
		Set("is_confirmed = ?", true).
		Set("confirmation_token_hash = NULL").
		Set("updated_at = NOW()").
		Where("confirmation_token_hash = ?", tokenHash).
		Where("is_confirmed = ?", false).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to confirm account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBAccountToModel(dbAcc), nil
}

// SetResetToken stores a reset token hash and its expiry. Overwriting any
// previous values keeps at most one live reset token per account.
func (r *Repository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*database.Account)(nil)).
		Set("reset_token_hash = ?", tokenHash).
		Set("reset_token_expires_at = ?", expiresAt).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	return checkRowsAffected(result)
}

// ClearResetToken removes an outstanding reset token, used to compensate when
// the reset email cannot be dispatched.
func (r *Repository) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewUpdate().
		Model((*database.Account)(nil)).
		Set("reset_token_hash = NULL").
		Set("reset_token_expires_at = NULL").
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}

	return checkRowsAffected(result)
}

// RedeemResetToken replaces the password of the account holding an unexpired
// reset token and clears the token fields, all in one conditional update.
// A hash match on an expired record does not qualify.
func (r *Repository) RedeemResetToken(ctx context.Context, tokenHash, passwordHash string) (*Account, error) {
	dbAcc := new(database.Account)
	result, err := r.db.NewUpdate().
		Model(dbAcc).
		Set("password_hash = ?", passwordHash).
		Set("reset_token_hash = NULL").
		Set("reset_token_expires_at = NULL").
		Set("updated_at = NOW()").
		Where("reset_token_hash = ?", tokenHash).
		Where("reset_token_expires_at > NOW()").
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to redeem reset token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBAccountToModel(dbAcc), nil
}

// UpdatePassword updates an account's password hash
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := r.db.NewUpdate().
		Model((*database.Account)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return checkRowsAffected(result)
}

// UpdateProfile updates the mutable profile fields
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*Account, error) {
	dbAcc := new(database.Account)
	result, err := r.db.NewUpdate().
		Model(dbAcc).
		Set("company_name = ?", update.CompanyName).
		Set("contact_name = ?", update.ContactName).
		Set("phone = ?", update.Phone).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBAccountToModel(dbAcc), nil
}

// TouchLastLogin stamps the last successful login time
func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*database.Account)(nil)).
		Set("last_login_at = ?", at).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to stamp last login: %w", err)
	}

	return checkRowsAffected(result)
}

// Suspend deactivates an account and records when and why
func (r *Repository) Suspend(ctx context.Context, id uuid.UUID, reason string) (*Account, error) {
	dbAcc := new(database.Account)
	result, err := r.db.NewUpdate().
		Model(dbAcc).
		Set("is_active = ?", false).
		Set("suspended_at = NOW()").
		Set("suspension_reason = ?", reason).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to suspend account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBAccountToModel(dbAcc), nil
}

// Reactivate reverses a suspension, clearing both suspension fields together
func (r *Repository) Reactivate(ctx context.Context, id uuid.UUID) (*Account, error) {
	dbAcc := new(database.Account)
	result, err := r.db.NewUpdate().
		Model(dbAcc).
		Set("is_active = ?", true).
		Set("suspended_at = NULL").
		Set("suspension_reason = NULL").
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to reactivate account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBAccountToModel(dbAcc), nil
}

// Promote grants the admin role to an account
func (r *Repository) Promote(ctx context.Context, id uuid.UUID) (*Account, error) {
	dbAcc := new(database.Account)
	result, err := r.db.NewUpdate().
		Model(dbAcc).
		Set("role = ?", string(RoleAdmin)).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to promote account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBAccountToModel(dbAcc), nil
}

// PromoteByEmails sets role = admin for the given emails. Run once at startup
// as a data migration; no request-time code consults the email list.
func (r *Repository) PromoteByEmails(ctx context.Context, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}

	lowered := make([]string, len(emails))
	for i, email := range emails {
		lowered[i] = strings.ToLower(strings.TrimSpace(email))
	}

	result, err := r.db.NewUpdate().
		Model((*database.Account)(nil)).
		Set("role = ?", string(RoleAdmin)).
		Set("updated_at = NOW()").
		Where("lower(email) IN (?)", bun.In(lowered)).
		Where("role != ?", string(RoleAdmin)).
		Exec(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to promote accounts by email: %w", err)
	}

	return result.RowsAffected()
}

func checkRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// mapDBAccountToModel converts the database model to the domain model
func mapDBAccountToModel(dbAcc *database.Account) *Account {
	return &Account{
		ID:                    dbAcc.ID,
		Email:                 dbAcc.Email,
		PasswordHash:          dbAcc.PasswordHash,
		CompanyName:           dbAcc.CompanyName,
		ContactName:           dbAcc.ContactName,
		Phone:                 dbAcc.Phone,
		Role:                  Role(dbAcc.Role),
		IsConfirmed:           dbAcc.IsConfirmed,
		ConfirmationTokenHash: dbAcc.ConfirmationTokenHash,
		ResetTokenHash:        dbAcc.ResetTokenHash,
		ResetTokenExpiresAt:   dbAcc.ResetTokenExpiresAt,
		IsActive:              dbAcc.IsActive,
		SuspendedAt:           dbAcc.SuspendedAt,
		SuspensionReason:      dbAcc.SuspensionReason,
		LastLoginAt:           dbAcc.LastLoginAt,
		CreatedAt:             dbAcc.CreatedAt,
		UpdatedAt:             dbAcc.UpdatedAt,
	}
}
