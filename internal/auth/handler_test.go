package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the public and protected auth routes the way the real
// router does, against in-memory fakes.
func newTestRouter(t *testing.T) (*chi.Mux, *fakeAccountStore, *fakeEmailSender) {
	t.Helper()

	svc, store, sender := newTestService(t)
	handler := NewHandler(svc)
	middleware := NewMiddleware(mustPasetoService(t), store)

	r := chi.NewRouter()
	r.Post("/register", handler.Register)
	r.Get("/confirm/{token}", handler.Confirm)
	r.Post("/login", handler.Login)
	r.Post("/forgot-password", handler.ForgotPassword)
	r.Post("/reset-password/{token}", handler.ResetPassword)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAccount)
		r.Get("/profile", handler.Profile)
		r.Put("/profile", handler.UpdateProfile)
		r.Put("/change-password", handler.ChangePassword)
	})
	return r, store, sender
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAccountLifecycle(t *testing.T) {
	r, _, sender := newTestRouter(t)

	// Register
	rec := doJSON(t, r, http.MethodPost, "/register", map[string]string{
		"email":        "alice@co.test",
		"password":     "Passw0rd1",
		"company_name": "Acme Recruiting",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "alice@co.test", body["email"])
	assert.Equal(t, "standard", body["role"])
	assert.Equal(t, false, body["is_confirmed"])
	// Secrets never leave the API
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.NotContains(t, rec.Body.String(), "token_hash")

	confirmToken := sender.waitSent(t).token

	// Login before confirmation is forbidden
	login := func() *httptest.ResponseRecorder {
		return doJSON(t, r, http.MethodPost, "/login", map[string]string{
			"email":    "alice@co.test",
			"password": "Passw0rd1",
		}, "")
	}
	rec = login()
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "account_not_confirmed", decodeBody(t, rec)["code"])

	// Confirm, then the token is spent
	rec = doJSON(t, r, http.MethodGet, "/confirm/"+confirmToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, r, http.MethodGet, "/confirm/"+confirmToken, nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_or_expired_token", decodeBody(t, rec)["code"])

	// Login works now
	rec = login()
	require.Equal(t, http.StatusOK, rec.Code)
	session := decodeBody(t, rec)
	sessionToken, _ := session["token"].(string)
	require.NotEmpty(t, sessionToken)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	// Protected routes
	rec = doJSON(t, r, http.MethodGet, "/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/profile", nil, sessionToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@co.test", decodeBody(t, rec)["email"])

	rec = doJSON(t, r, http.MethodPut, "/profile", map[string]string{
		"company_name": "Acme Talent Group",
		"contact_name": "Alice",
	}, sessionToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme Talent Group", decodeBody(t, rec)["company_name"])

	// Change password, then only the new one logs in
	rec = doJSON(t, r, http.MethodPut, "/change-password", map[string]string{
		"current_password": "wrong",
		"new_password":     "NewPassw0rd",
	}, sessionToken)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decodeBody(t, rec)["code"])

	rec = doJSON(t, r, http.MethodPut, "/change-password", map[string]string{
		"current_password": "Passw0rd1",
		"new_password":     "NewPassw0rd",
	}, sessionToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = login()
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_BadRequests(t *testing.T) {
	r, _, _ := newTestRouter(t)

	tests := []struct {
		name     string
		payload  map[string]string
		wantCode string
	}{
		{"missing email", map[string]string{"password": "Passw0rd1"}, "email_required"},
		{"bad email", map[string]string{"email": "nope", "password": "Passw0rd1"}, "invalid_email_format"},
		{"missing password", map[string]string{"email": "alice@co.test"}, "password_required"},
		{"short password", map[string]string{"email": "alice@co.test", "password": "short"}, "password_too_short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/register", tt.payload, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeBody(t, rec)["code"])
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_request_body", decodeBody(t, rec)["code"])
	})
}

func TestRegister_Duplicate(t *testing.T) {
	r, _, sender := newTestRouter(t)

	payload := map[string]string{"email": "alice@co.test", "password": "Passw0rd1"}
	rec := doJSON(t, r, http.MethodPost, "/register", payload, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	sender.waitSent(t)

	rec = doJSON(t, r, http.MethodPost, "/register", payload, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_account", decodeBody(t, rec)["code"])
}

func TestForgotPassword_ResponseDoesNotLeakExistence(t *testing.T) {
	r, _, sender := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/register", map[string]string{
		"email": "alice@co.test", "password": "Passw0rd1",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	sender.waitSent(t)

	known := doJSON(t, r, http.MethodPost, "/forgot-password", map[string]string{"email": "alice@co.test"}, "")
	sender.waitSent(t)
	unknown := doJSON(t, r, http.MethodPost, "/forgot-password", map[string]string{"email": "nobody@co.test"}, "")

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
}

func TestResetPasswordEndpoint(t *testing.T) {
	r, _, sender := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/register", map[string]string{
		"email": "alice@co.test", "password": "Passw0rd1",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	confirmToken := sender.waitSent(t).token
	rec = doJSON(t, r, http.MethodGet, "/confirm/"+confirmToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/forgot-password", map[string]string{"email": "alice@co.test"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resetToken := sender.waitSent(t).token

	rec = doJSON(t, r, http.MethodPost, "/reset-password/"+resetToken, map[string]string{
		"new_password": "NewPassw0rd",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Spent token is rejected
	rec = doJSON(t, r, http.MethodPost, "/reset-password/"+resetToken, map[string]string{
		"new_password": "AnotherPass1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_or_expired_token", decodeBody(t, rec)["code"])

	rec = doJSON(t, r, http.MethodPost, "/login", map[string]string{
		"email": "alice@co.test", "password": "NewPassw0rd",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_SuspendedResponseCarriesDetails(t *testing.T) {
	r, store, sender := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/register", map[string]string{
		"email": "alice@co.test", "password": "Passw0rd1",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	confirmToken := sender.waitSent(t).token
	rec = doJSON(t, r, http.MethodGet, "/confirm/"+confirmToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	acc, err := store.GetByEmail(context.Background(), "alice@co.test")
	require.NoError(t, err)
	store.suspend(acc.ID, "payment overdue")

	rec = doJSON(t, r, http.MethodPost, "/login", map[string]string{
		"email": "alice@co.test", "password": "Passw0rd1",
	}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "account_suspended", body["code"])
	assert.Equal(t, "payment overdue", body["suspension_reason"])
	assert.NotEmpty(t, body["suspended_at"])
}
