package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/talentbridge/talentbridge/internal/account"
	"github.com/talentbridge/talentbridge/internal/httputil"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// AccountContextKey holds the resolved *account.Account for the request
const AccountContextKey ContextKey = "account"

// Middleware handles authentication and authorization for protected routes
type Middleware struct {
	tokens   TokenService
	accounts AccountStore
}

func NewMiddleware(tokens TokenService, accounts AccountStore) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts}
}

// RequireAccount validates the bearer session token, resolves the account and
// attaches it to the request context. A valid token for an unconfirmed or
// suspended account is forbidden rather than unauthenticated: the credential
// checked out, the account is not eligible. Suspension is re-checked here on
// every request, so suspending an account also invalidates sessions issued
// before the suspension.
func (m *Middleware) RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		accountID, err := uuid.Parse(claims.AccountID)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid account ID in token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		acc, err := m.accounts.GetByID(r.Context(), accountID)
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "failed to resolve account", httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}

		if !acc.IsConfirmed {
			httputil.RespondErrorWithCode(w, "account not confirmed", httputil.CodeAccountNotConfirmed, http.StatusForbidden)
			return
		}

		if !acc.IsActive {
			httputil.RespondErrorWithCode(w, "account suspended", httputil.CodeAccountSuspended, http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), AccountContextKey, acc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin permits only accounts with the admin role. It must run after
// RequireAccount. The role column is the only path to admin access; there is
// deliberately no email allow-list or other fallback here.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok || acc.Role != account.RoleAdmin {
			httputil.RespondErrorWithCode(w, "admin access required", httputil.CodeAdminRequired, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccountFromContext extracts the resolved account from the request context
func AccountFromContext(ctx context.Context) (*account.Account, bool) {
	acc, ok := ctx.Value(AccountContextKey).(*account.Account)
	return acc, ok
}
