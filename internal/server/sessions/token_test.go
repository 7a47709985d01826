package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyvault/noteguard/internal/common"
)

var testSecret = []byte("view-token-secret")

func TestGenerateAndParseViewToken(t *testing.T) {
	tokenString, err := GenerateViewToken("vs-1", "u-1", "n-1", testSecret, time.Now().Add(30*time.Minute))
	require.NoError(t, err)

	claims, err := ParseViewToken(tokenString, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "vs-1", claims.SessionID)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "n-1", claims.NoteID)
}

func TestParseViewToken_Expired(t *testing.T) {
	tokenString, err := GenerateViewToken("vs-1", "u-1", "n-1", testSecret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ParseViewToken(tokenString, testSecret)
	assert.ErrorIs(t, err, common.ErrSessionExpired)
}

func TestParseViewToken_WrongKey(t *testing.T) {
	tokenString, err := GenerateViewToken("vs-1", "u-1", "n-1", testSecret, time.Now().Add(30*time.Minute))
	require.NoError(t, err)

	_, err = ParseViewToken(tokenString, []byte("another-secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseViewToken_Garbage(t *testing.T) {
	_, err := ParseViewToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
