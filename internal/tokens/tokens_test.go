package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestSignAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	exp := time.Now().Add(15 * time.Minute)

	raw, err := SignAccessToken(userID, "alice", exp, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := AccessClaimsFromToken(raw, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessClaimsFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := SignAccessToken(uuid.New(), "alice", time.Now().Add(time.Minute), testSecret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(raw, []byte("other-secret"))
	assert.Error(t, err)
}

func TestAccessClaimsFromToken_Expired(t *testing.T) {
	t.Parallel()

	raw, err := SignAccessToken(uuid.New(), "alice", time.Now().Add(-time.Minute), testSecret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(raw, testSecret)
	assert.Error(t, err)
}

func TestAccessClaimsFromToken_Garbage(t *testing.T) {
	t.Parallel()

	_, err := AccessClaimsFromToken("not-a-jwt", testSecret)
	assert.Error(t, err)
}

func TestSignRefreshToken_UniqueJTI(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	exp := time.Now().Add(24 * time.Hour)

	raw1, jti1, err := SignRefreshToken(userID, exp, testSecret)
	require.NoError(t, err)
	raw2, jti2, err := SignRefreshToken(userID, exp, testSecret)
	require.NoError(t, err)

	assert.NotEqual(t, jti1, jti2)
	assert.NotEqual(t, raw1, raw2)

	claims, err := RefreshClaimsFromToken(raw1, testSecret)
	require.NoError(t, err)
	assert.Equal(t, jti1, claims.ID)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestSha256Hex_Stable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sha256Hex("token"), Sha256Hex("token"))
	assert.NotEqual(t, Sha256Hex("token"), Sha256Hex("token2"))
	assert.Len(t, Sha256Hex("token"), 64)
}
