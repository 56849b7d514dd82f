package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusinessManager(t *testing.T) {
	bm, err := NewBusinessManager("EAAG-long-lived-token")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, bm.ID)
	assert.Equal(t, "EAAG-long-lived-token", bm.AccessToken)
	assert.True(t, bm.IsActive)
	assert.True(t, bm.HasAccessToken())

	// Identity stays empty until the first sync.
	assert.False(t, bm.MetaBusinessID.Valid)
	assert.False(t, bm.Name.Valid)
	assert.Empty(t, bm.VerificationStatus)
	assert.False(t, bm.LastSyncedAt.Valid)
}

func TestNewBusinessManagerRequiresToken(t *testing.T) {
	for _, token := range []string{"", "   "} {
		_, err := NewBusinessManager(token)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidEntity)
	}
}

func TestApplySyncIdentity(t *testing.T) {
	bm, err := NewBusinessManager("token")
	require.NoError(t, err)

	syncedAt := time.Now().UTC()
	bm.ApplySyncIdentity("1234567890", "Acme Corp", BusinessVerified, syncedAt)

	assert.Equal(t, "1234567890", bm.MetaBusinessID.String)
	assert.True(t, bm.MetaBusinessID.Valid)
	assert.Equal(t, "Acme Corp", bm.Name.String)
	assert.Equal(t, BusinessVerified, bm.VerificationStatus)
	assert.Equal(t, syncedAt, bm.LastSyncedAt.Time)
	assert.True(t, bm.LastSyncedAt.Valid)
	assert.Equal(t, syncedAt, bm.UpdatedAt)
}

func TestApplySyncIdentityEmptyNameMapsToNull(t *testing.T) {
	bm, err := NewBusinessManager("token")
	require.NoError(t, err)

	bm.ApplySyncIdentity("1234567890", "", "", time.Now().UTC())
	assert.False(t, bm.Name.Valid)
}
