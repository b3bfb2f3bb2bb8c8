package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService(testSessionKey())
	require.NoError(t, err)

	accountID := uuid.New()
	token, err := svc.CreateToken(accountID, "alice@co.test", time.Hour)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, accountID.String(), claims.AccountID)
	assert.Equal(t, "alice@co.test", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestJWTService_KeyLength(t *testing.T) {
	_, err := NewJWTService([]byte("too short"))
	assert.Error(t, err)
}

func TestJWTService_Expired(t *testing.T) {
	svc, err := NewJWTService(testSessionKey())
	require.NoError(t, err)

	token, err := svc.CreateToken(uuid.New(), "alice@co.test", -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_BadSignatureNotReportedAsExpired(t *testing.T) {
	svc, err := NewJWTService(testSessionKey())
	require.NoError(t, err)
	other, err := NewJWTService([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)

	// Expired AND signed with the wrong key: the signature failure wins
	token, err := other.CreateToken(uuid.New(), "alice@co.test", -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Garbage(t *testing.T) {
	svc, err := NewJWTService(testSessionKey())
	require.NoError(t, err)

	_, err = svc.VerifyToken("definitely.not.ajwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
