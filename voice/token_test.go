package voice

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T) *TokenBuilder {
	t.Helper()
	builder, err := NewTokenBuilder("0123456789abcdef0123456789abcdef", "fedcba9876543210fedcba9876543210")
	require.NoError(t, err)
	builder.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	builder.salt = func() uint32 { return 424242 }
	return builder
}

func TestNewTokenBuilder(t *testing.T) {
	_, err := NewTokenBuilder("", "cert")
	assert.ErrorIs(t, err, ErrMissingAppId)

	_, err = NewTokenBuilder("app", "")
	assert.ErrorIs(t, err, ErrMissingCertificate)
}

func TestBuildToken(t *testing.T) {
	builder := newTestBuilder(t)

	token, err := builder.BuildToken("room-abc123", 77, time.Hour)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(token, "006"+builder.AppId()))

	// The payload after the prefix must be valid base64.
	payload := strings.TrimPrefix(token, "006"+builder.AppId())
	decoded, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)

	// signature(2+32) + channel crc(4) + uid(4) + message(2+14)
	assert.Equal(t, 58, len(decoded))
}

func TestBuildTokenDeterministic(t *testing.T) {
	a, err := newTestBuilder(t).BuildToken("room-abc123", 77, time.Hour)
	require.NoError(t, err)
	b, err := newTestBuilder(t).BuildToken("room-abc123", 77, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := newTestBuilder(t).BuildToken("room-abc123", 78, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, other, "tokens bind to the uid")

	otherChannel, err := newTestBuilder(t).BuildToken("room-xyz789", 77, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, otherChannel, "tokens bind to the channel")
}

func TestBuildTokenValidation(t *testing.T) {
	builder := newTestBuilder(t)

	_, err := builder.BuildToken("", 77, time.Hour)
	assert.ErrorIs(t, err, ErrMissingChannel)

	// Zero TTL falls back to the default instead of minting a dead token.
	a, err := builder.BuildToken("room-abc123", 77, 0)
	require.NoError(t, err)
	b, err := builder.BuildToken("room-abc123", 77, DefaultTTL)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
