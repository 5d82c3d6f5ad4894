package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "hearth/pkg/domain-errors"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-signing-key", "hearth", "hearth-api")
	userID := uuid.New()
	tenantID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, tenantID, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, tenantID.String(), claims.TenantID)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-signing-key", "hearth", "hearth-api")

	token, err := svc.GenerateAccessToken(uuid.New(), uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_RejectsWrongKey(t *testing.T) {
	issuer := NewJWTService("key-one", "hearth", "hearth-api")
	verifier := NewJWTService("key-two", "hearth", "hearth-api")

	token, err := issuer.GenerateAccessToken(uuid.New(), uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-signing-key", "hearth", "hearth-api")
	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
}
