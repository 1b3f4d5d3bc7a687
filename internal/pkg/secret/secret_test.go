package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme(" Bcrypt ")
	require.NoError(t, err)
	assert.Equal(t, SchemeBcrypt, s)

	s, err = ParseScheme("plain")
	require.NoError(t, err)
	assert.Equal(t, SchemePlain, s)

	_, err = ParseScheme("md5")
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestPlainMatcher(t *testing.T) {
	m, err := NewMatcher(SchemePlain)
	require.NoError(t, err)

	stored, err := m.Hash("hunter2")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", stored)

	assert.True(t, m.Match(stored, "hunter2"))
	assert.False(t, m.Match(stored, "hunter3"))
	assert.False(t, m.Match(stored, ""))
}

func TestBcryptMatcher(t *testing.T) {
	m, err := NewMatcher(SchemeBcrypt)
	require.NoError(t, err)

	stored, err := m.Hash("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", stored)

	assert.True(t, m.Match(stored, "hunter2"))
	assert.False(t, m.Match(stored, "hunter3"))
	assert.False(t, m.Match("not-a-hash", "hunter2"))
}

func TestNewMatcher_Unknown(t *testing.T) {
	_, err := NewMatcher(Scheme("rot13"))
	assert.ErrorIs(t, err, ErrUnknownScheme)
}
