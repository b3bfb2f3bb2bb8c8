package httputil

// Machine-readable error codes returned alongside human-readable messages.
// Clients switch on these rather than parsing message text.
const (
	CodeInvalidRequestBody = "invalid_request_body"

	CodeEmailRequired      = "email_required"
	CodeInvalidEmailFormat = "invalid_email_format"
	CodePasswordRequired   = "password_required"
	CodePasswordTooShort   = "password_too_short"

	CodeDuplicateAccount      = "duplicate_account"
	CodeInvalidCredentials    = "invalid_credentials"
	CodeAccountNotConfirmed   = "account_not_confirmed"
	CodeAccountSuspended      = "account_suspended"
	CodeInvalidOrExpiredToken = "invalid_or_expired_token"

	CodeMissingAuth       = "missing_auth"
	CodeInvalidAuthHeader = "invalid_auth_header"
	CodeInvalidToken      = "invalid_token"
	CodeTokenExpired      = "token_expired"
	CodeAdminRequired     = "admin_required"

	CodeNotFound      = "not_found"
	CodeInternalError = "internal_error"
)
