package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

func TestInMemoryStore_SaveAndGet(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	tenantID := id.TenantID(uuid.New())

	settings := Settings{
		TenantID:        tenantID,
		QuietHoursStart: 20,
		QuietHoursEnd:   9,
		TenDLCReady:     true,
		UpdatedAt:       time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, settings))

	got, err := store.Get(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.QuietHoursStart)
	assert.Equal(t, 9, got.QuietHoursEnd)
	assert.True(t, got.TenDLCReady)
}

func TestInMemoryStore_GetUnknownTenant(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Get(context.Background(), id.TenantID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestInMemoryStore_SaveRejectsInvalidHours(t *testing.T) {
	store := NewInMemoryStore()

	err := store.Save(context.Background(), Settings{
		TenantID:        id.TenantID(uuid.New()),
		QuietHoursStart: 25,
		QuietHoursEnd:   8,
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestDefaultSettings(t *testing.T) {
	tenantID := id.TenantID(uuid.New())
	settings := DefaultSettings(tenantID, 21, 8)

	assert.Equal(t, tenantID, settings.TenantID)
	assert.Equal(t, 21, settings.QuietHoursStart)
	assert.Equal(t, 8, settings.QuietHoursEnd)
	assert.False(t, settings.TenDLCReady, "10DLC readiness is opt-in, never assumed")
}
