package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/talentbridge/talentbridge/internal/httputil"
	"github.com/talentbridge/talentbridge/internal/logging"
)

// AdminStore is the subset of the repository consumed by the admin handlers
type AdminStore interface {
	List(ctx context.Context) ([]*Account, error)
	Suspend(ctx context.Context, id uuid.UUID, reason string) (*Account, error)
	Reactivate(ctx context.Context, id uuid.UUID) (*Account, error)
	Promote(ctx context.Context, id uuid.UUID) (*Account, error)
}

// Handler contains the admin-only account management endpoints. These are the
// administrative actions that mutate suspension and role state; regular
// authentication flows only ever read those fields.
type Handler struct {
	store AdminStore
}

func NewHandler(store AdminStore) *Handler {
	return &Handler{store: store}
}

// SuspendRequest carries the suspension reason
type SuspendRequest struct {
	Reason string `json:"reason"`
}

// List returns all accounts
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Account
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse
// @Router       /admin/accounts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	accounts, err := h.store.List(r.Context())
	if err != nil {
		logger.Error("failed to list accounts", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list accounts", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, accounts, http.StatusOK)
}

// Suspend deactivates an account
// @Summary      Suspend an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Account ID"
// @Param        request body SuspendRequest true "Suspension reason"
// @Success      200 {object} Account
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /admin/accounts/{id}/suspend [post]
func (h *Handler) Suspend(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseAccountID(w, r)
	if !ok {
		return
	}

	var req SuspendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	acc, err := h.store.Suspend(r.Context(), id, req.Reason)
	if err != nil {
		respondStoreError(w, logger, err, "failed to suspend account")
		return
	}

	logger.Info("account suspended", "account_id", acc.ID, "reason", req.Reason)
	httputil.RespondJSON(w, acc, http.StatusOK)
}

// Reactivate reverses a suspension
// @Summary      Reactivate a suspended account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Account ID"
// @Success      200 {object} Account
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /admin/accounts/{id}/reactivate [post]
func (h *Handler) Reactivate(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseAccountID(w, r)
	if !ok {
		return
	}

	acc, err := h.store.Reactivate(r.Context(), id)
	if err != nil {
		respondStoreError(w, logger, err, "failed to reactivate account")
		return
	}

	logger.Info("account reactivated", "account_id", acc.ID)
	httputil.RespondJSON(w, acc, http.StatusOK)
}

// Promote grants the admin role
// @Summary      Promote an account to admin
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Account ID"
// @Success      200 {object} Account
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /admin/accounts/{id}/promote [post]
func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseAccountID(w, r)
	if !ok {
		return
	}

	acc, err := h.store.Promote(r.Context(), id)
	if err != nil {
		respondStoreError(w, logger, err, "failed to promote account")
		return
	}

	logger.Info("account promoted to admin", "account_id", acc.ID)
	httputil.RespondJSON(w, acc, http.StatusOK)
}

func parseAccountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid account id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func respondStoreError(w http.ResponseWriter, logger *logging.Logger, err error, message string) {
	if errors.Is(err, ErrNotFound) {
		httputil.RespondErrorWithCode(w, "account not found", httputil.CodeNotFound, http.StatusNotFound)
		return
	}
	logger.Error(message, "error", err.Error())
	httputil.RespondErrorWithCode(w, message, httputil.CodeInternalError, http.StatusInternalServerError)
}
