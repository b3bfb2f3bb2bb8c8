package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talentbridge/talentbridge/internal/account"
	"github.com/talentbridge/talentbridge/internal/httputil"
	"github.com/talentbridge/talentbridge/internal/logging"
)

// Handler contains HTTP handlers for the authentication endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest represents the password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the new password; the token travels in the URL
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest represents an authenticated password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ProfileRequest represents a profile update
type ProfileRequest struct {
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
}

// Register handles account registration
// @Summary      Register a new account
// @Description  Create a new account. A confirmation email is sent; the account cannot log in until confirmed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} account.Account
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Router       /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newAccount, err := h.service.Register(r.Context(), RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Phone:       req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrDuplicateEmail):
			logger.Warn("registration failed: email already exists")
			httputil.RespondErrorWithCode(w, "email already exists", httputil.CodeDuplicateAccount, http.StatusConflict)
		case errors.Is(err, ErrEmailRequired):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidEmailFormat):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidEmailFormat, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordRequired):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordRequired, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordTooShort):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
		default:
			logger.Error("registration failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to register account", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("account registered", "account_id", newAccount.ID)

	httputil.RespondJSON(w, newAccount, http.StatusCreated)
}

// Confirm handles email confirmation
// @Summary      Confirm an account
// @Description  Redeem the confirmation token from the registration email. Each token works once.
// @Tags         auth
// @Produce      json
// @Param        token path string true "Confirmation token"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse "Invalid or already used token"
// @Router       /confirm/{token} [get]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	confirmed, err := h.service.Confirm(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		if errors.Is(err, ErrInvalidOrExpiredToken) {
			logger.Warn("confirmation failed: invalid token")
			httputil.RespondErrorWithCode(w, "invalid or expired confirmation token", httputil.CodeInvalidOrExpiredToken, http.StatusBadRequest)
			return
		}
		logger.Error("confirmation failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to confirm account", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("account confirmed", "account_id", confirmed.ID)

	httputil.RespondJSON(w, map[string]string{
		"message": "Account confirmed. You can now log in.",
	}, http.StatusOK)
}

// Login handles credential verification and session issuance
// @Summary      Log in
// @Description  Authenticate and receive a bearer session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} Session
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      403 {object} httputil.ErrorResponse "Account not confirmed or suspended"
// @Router       /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var suspended *AccountSuspendedError
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			logger.Warn("login failed: invalid credentials")
			httputil.RespondErrorWithCode(w, "invalid email or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
		case errors.Is(err, ErrAccountNotConfirmed):
			logger.Warn("login failed: account not confirmed")
			httputil.RespondErrorWithCode(w, "account not confirmed, please check your inbox", httputil.CodeAccountNotConfirmed, http.StatusForbidden)
		case errors.As(err, &suspended):
			logger.Warn("login failed: account suspended")
			httputil.RespondJSON(w, map[string]any{
				"error":             "account suspended",
				"code":              httputil.CodeAccountSuspended,
				"suspended_at":      suspended.SuspendedAt,
				"suspension_reason": suspended.Reason,
			}, http.StatusForbidden)
		default:
			logger.Error("login failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to log in", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("account logged in", "account_id", session.Account.ID)

	httputil.RespondJSON(w, session, http.StatusOK)
}

// ForgotPassword handles password reset requests
// @Summary      Request a password reset
// @Description  Send a reset link to the given email. The response is identical whether or not the account exists.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Email address"
// @Success      200 {object} map[string]string
// @Router       /forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid forgot password request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	// Always succeeds from the caller's perspective
	_ = h.service.RequestPasswordReset(r.Context(), req.Email)

	httputil.RespondJSON(w, map[string]string{
		"message": "If an account exists with that email, a password reset link has been sent.",
	}, http.StatusOK)
}

// ResetPassword redeems a reset token
// @Summary      Reset password
// @Description  Replace the password using a valid, unexpired reset token. Each token works once.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token path string true "Reset token"
// @Param        request body ResetPasswordRequest true "New password"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse "Invalid or expired token"
// @Router       /reset-password/{token} [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid reset password request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	err := h.service.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidOrExpiredToken):
			logger.Warn("password reset failed: invalid or expired token")
			httputil.RespondErrorWithCode(w, "invalid or expired reset token", httputil.CodeInvalidOrExpiredToken, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordRequired):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordRequired, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordTooShort):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
		default:
			logger.Error("password reset failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to reset password", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("password reset")

	httputil.RespondJSON(w, map[string]string{
		"message": "Password reset successfully. You can now log in with your new password.",
	}, http.StatusOK)
}

// Profile returns the authenticated account
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} account.Account
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	acc, ok := AccountFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, acc, http.StatusOK)
}

// UpdateProfile updates the authenticated account's profile fields
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ProfileRequest true "Profile fields"
// @Success      200 {object} account.Account
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	acc, ok := AccountFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), acc.ID, account.ProfileUpdate{
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Phone:       req.Phone,
	})
	if err != nil {
		logger.Error("profile update failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update profile", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("profile updated", "account_id", acc.ID)

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// ChangePassword replaces the authenticated account's password
// @Summary      Change password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ChangePasswordRequest true "Current and new password"
// @Success      200 {object} map[string]string
// @Failure      401 {object} httputil.ErrorResponse "Wrong current password"
// @Router       /change-password [put]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	acc, ok := AccountFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	err := h.service.ChangePassword(r.Context(), acc.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			logger.Warn("password change failed: wrong current password", "account_id", acc.ID)
			httputil.RespondErrorWithCode(w, "invalid current password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
		case errors.Is(err, ErrPasswordRequired):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordRequired, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordTooShort):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
		default:
			logger.Error("password change failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to change password", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("password changed", "account_id", acc.ID)

	httputil.RespondJSON(w, map[string]string{"message": "password changed"}, http.StatusOK)
}
