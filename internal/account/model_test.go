package account

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Serialized accounts go straight into API responses, so secret material
// must never survive marshaling.
func TestAccountJSON_ExcludesSecrets(t *testing.T) {
	tokenHash := "deadbeef"
	expires := time.Now().Add(time.Hour)

	acc := Account{
		ID:                    uuid.New(),
		Email:                 "alice@co.test",
		PasswordHash:          "$argon2id$v=19$m=65536,t=3,p=4$salt$hash",
		Role:                  RoleStandard,
		ConfirmationTokenHash: &tokenHash,
		ResetTokenHash:        &tokenHash,
		ResetTokenExpiresAt:   &expires,
		IsActive:              true,
	}

	data, err := json.Marshal(acc)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.NotContains(t, out, "password_hash")
	assert.NotContains(t, string(data), "argon2id")
	assert.NotContains(t, string(data), "deadbeef")
	assert.Contains(t, out, "email")
	assert.Contains(t, out, "role")
}

func TestAccountJSON_OmitsEmptyOptionalFields(t *testing.T) {
	acc := Account{ID: uuid.New(), Email: "alice@co.test", Role: RoleStandard}

	data, err := json.Marshal(acc)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.NotContains(t, out, "company_name")
	assert.NotContains(t, out, "suspended_at")
	assert.NotContains(t, out, "suspension_reason")
	assert.NotContains(t, out, "last_login_at")
}
