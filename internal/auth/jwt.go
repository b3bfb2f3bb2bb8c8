package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sessionClaims is the JWT claim set: account id as subject, email as a
// private claim.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService is the HS256 implementation of TokenService, for deployments
// that need interoperable tokens instead of PASETO v4.local.
type JWTService struct {
	signingKey []byte
}

func NewJWTService(signingKey []byte) (*JWTService, error) {
	if len(signingKey) != 32 {
		return nil, fmt.Errorf("signing key must be exactly 32 bytes, got %d", len(signingKey))
	}

	return &JWTService{signingKey: signingKey}, nil
}

// CreateToken generates a signed HS256 token with the given claims and duration
func (s *JWTService) CreateToken(accountID uuid.UUID, email string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken validates an HS256 token and returns the claims. A bad
// signature is reported as invalid even when the token is also expired.
func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	claims := new(sessionClaims)

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		default:
			return nil, ErrInvalidToken
		}
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		AccountID: claims.Subject,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
