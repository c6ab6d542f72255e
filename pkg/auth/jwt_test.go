package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/errors"
)

const testSecret = "test-secret-0123456789"

func newTestService(t *testing.T) *JWTService {
	t.Helper()
	s, err := NewJWTService(testSecret, "adaptivin", 1)
	require.NoError(t, err)
	return s
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", "x", 1)
	assert.Error(t, err)
}

func TestGenerateAndParse(t *testing.T) {
	s := newTestService(t)

	token, err := s.GenerateToken(42, RoleStudent)
	require.NoError(t, err)

	claims, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, RoleStudent, claims.Role)
	assert.Equal(t, "adaptivin", claims.Issuer)
}

func TestGenerateToken_UnknownRole(t *testing.T) {
	s := newTestService(t)

	_, err := s.GenerateToken(1, "parent")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseToken_Expired(t *testing.T) {
	s := newTestService(t)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := s.GenerateToken(1, RoleTeacher)
	require.NoError(t, err)

	_, err = s.ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrExpiredToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	other, err := NewJWTService("another-secret-0123456789", "adaptivin", 1)
	require.NoError(t, err)
	token, err := other.GenerateToken(1, RoleAdmin)
	require.NoError(t, err)

	_, err = newTestService(t).ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestParseToken_WrongIssuer(t *testing.T) {
	other, err := NewJWTService(testSecret, "someone-else", 1)
	require.NoError(t, err)
	token, err := other.GenerateToken(1, RoleStudent)
	require.NoError(t, err)

	_, err = newTestService(t).ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestParseToken_RejectsNoneAlg(t *testing.T) {
	claims := &JWTCustomClaims{
		UserID: 1,
		Role:   RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "adaptivin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestService(t).ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := newTestService(t).ParseToken("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
