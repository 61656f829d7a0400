package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kabadi-client/internal/domain"
)

func claimsAt(exp time.Time) SessionClaims {
	return SessionClaims{
		UserID:   42,
		UserType: domain.UserTypeCitizen,
		Name:     "Asha",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "9876543210",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestDecode_Unverified(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	token, err := SignSessionToken("backend-only-secret", claimsAt(now.Add(time.Hour)))
	require.NoError(t, err)

	d := NewTokenDecoderWithClock("", func() time.Time { return now })
	claims, err := d.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.UserTypeCitizen, claims.UserType)
	assert.Equal(t, "9876543210", claims.Subject)
}

func TestDecode_Expired(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	token, err := SignSessionToken("s", claimsAt(now.Add(-time.Minute)))
	require.NoError(t, err)

	_, err = NewTokenDecoderWithClock("", func() time.Time { return now }).Decode(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = NewTokenDecoderWithClock("s", func() time.Time { return now }).Decode(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestDecode_Verified(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	token, err := SignSessionToken("shared", claimsAt(now.Add(time.Hour)))
	require.NoError(t, err)

	claims, err := NewTokenDecoderWithClock("shared", func() time.Time { return now }).Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "Asha", claims.Name)

	_, err = NewTokenDecoderWithClock("other", func() time.Time { return now }).Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := NewTokenDecoder("").Decode("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenDecoder("").Decode("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
