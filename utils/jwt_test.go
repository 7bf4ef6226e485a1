package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSigner(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	signer := NewSessionSigner("test-secret", 24*time.Hour).WithClock(clock)

	token, claims, err := signer.Issue(42, "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, now.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())

	t.Run("round trip", func(t *testing.T) {
		parsed, err := signer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), parsed.UserID)
		assert.Equal(t, "admin", parsed.Role)
		assert.Equal(t, claims.ID, parsed.ID)
	})

	t.Run("unique token ids", func(t *testing.T) {
		_, other, err := signer.Issue(42, "admin")
		require.NoError(t, err)
		assert.NotEqual(t, claims.ID, other.ID)
	})

	t.Run("absolute expiry", func(t *testing.T) {
		later := NewSessionSigner("test-secret", 24*time.Hour).WithClock(func() time.Time { return now.Add(24*time.Hour + time.Second) })
		_, err := later.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidSession))

		almost := NewSessionSigner("test-secret", 24*time.Hour).WithClock(func() time.Time { return now.Add(23 * time.Hour) })
		_, err = almost.Parse(token)
		assert.NoError(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewSessionSigner("other-secret", 24*time.Hour).WithClock(clock)
		_, err := other.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidSession))
	})

	t.Run("tampered token", func(t *testing.T) {
		_, err := signer.Parse(token[:len(token)-2] + "xx")
		assert.True(t, errors.Is(err, ErrInvalidSession))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := signer.Parse("not-a-token")
		assert.True(t, errors.Is(err, ErrInvalidSession))
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))
	assert.False(t, CheckPassword("not-a-hash", "secret123"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, `<p>hi</p>`, SanitizeHTML(`<p>hi</p><script>alert(1)</script>`))
	assert.Equal(t, "hello", SanitizeText("  <b>hello</b> "))
	assert.Equal(t, "Tom & Jerry", SanitizeText("Tom & Jerry"))
	assert.Equal(t, `say "hi" <3`, SanitizeText(`say "hi" <3`))
	assert.Empty(t, SanitizeText("<script>x</script>"))
	assert.Empty(t, SanitizeHTML(" <script>x</script> "))
}
