package watermarks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyvault/noteguard/internal/server/models"
)

func testFixture() (*models.ViewSession, *models.UserProfile) {
	session := &models.ViewSession{ID: "vs-1", UserID: "u-1", NoteID: "n-1"}
	profile := &models.UserProfile{
		ID:          "u-1",
		DisplayName: "Asha Verma",
		Email:       "asha@example.com",
		Phone:       "+919876543210",
		Status:      models.UserStatusActive,
	}
	return session, profile
}

func TestBuildAndVerify(t *testing.T) {
	signer := NewSigner([]byte("watermark-key"))
	session, profile := testFixture()

	resp, err := signer.Build(session, profile)
	require.NoError(t, err)

	assert.Equal(t, "Asha Verma", resp.Payload.DisplayName)
	assert.Equal(t, "a***@example.com", resp.Payload.MaskedEmail)
	assert.Equal(t, "******10", resp.Payload.MaskedPhone)
	assert.Equal(t, "vs-1", resp.Payload.ViewSessionID)
	assert.Len(t, resp.Payload.WatermarkSeed, 16)
	assert.NotContains(t, resp.Payload.UserHash, "u-1")

	assert.True(t, signer.Verify(resp.Payload, resp.Signature))
}

func TestVerify_TamperedFieldFails(t *testing.T) {
	signer := NewSigner([]byte("watermark-key"))
	session, profile := testFixture()

	resp, err := signer.Build(session, profile)
	require.NoError(t, err)

	tampered := resp.Payload
	tampered.DisplayName = "Someone Else"
	assert.False(t, signer.Verify(tampered, resp.Signature))

	tampered = resp.Payload
	tampered.ViewSessionID = "vs-2"
	assert.False(t, signer.Verify(tampered, resp.Signature))

	tampered = resp.Payload
	tampered.WatermarkSeed = "0000000000000000"
	assert.False(t, signer.Verify(tampered, resp.Signature))
}

func TestVerify_WrongKeyFails(t *testing.T) {
	signer := NewSigner([]byte("watermark-key"))
	other := NewSigner([]byte("another-key"))
	session, profile := testFixture()

	resp, err := signer.Build(session, profile)
	require.NoError(t, err)

	assert.False(t, other.Verify(resp.Payload, resp.Signature))
}

func TestUserHash_StableAcrossSessions(t *testing.T) {
	signer := NewSigner([]byte("watermark-key"))
	_, profile := testFixture()

	first, err := signer.Build(&models.ViewSession{ID: "vs-1"}, profile)
	require.NoError(t, err)
	second, err := signer.Build(&models.ViewSession{ID: "vs-2"}, profile)
	require.NoError(t, err)

	assert.Equal(t, first.Payload.UserHash, second.Payload.UserHash)
	assert.NotEqual(t, first.Payload.WatermarkSeed, second.Payload.WatermarkSeed)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "s***@example.com", MaskEmail("student@example.com"))
	assert.Equal(t, "a***@uni.edu", MaskEmail("ab@uni.edu"))
	assert.Equal(t, "x***", MaskEmail("xyz"))
	assert.Equal(t, "", MaskEmail(""))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "******10", MaskPhone("+919876543210"))
	assert.Equal(t, "******42", MaskPhone("42"))
	assert.Equal(t, "**", MaskPhone("7"))
	assert.Equal(t, "**", MaskPhone(""))
}
