package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePasswordLength(t *testing.T) {
	p, err := GeneratePassword(32)
	require.NoError(t, err)
	assert.Len(t, p, 32)
}

func TestGeneratePasswordDefaultLength(t *testing.T) {
	for _, n := range []int{0, -5} {
		p, err := GeneratePassword(n)
		require.NoError(t, err)
		assert.Len(t, p, DefaultPasswordLength)
	}
}

func TestGeneratePasswordCharset(t *testing.T) {
	alnum := regexp.MustCompile(`^[A-Za-z0-9]+$`)
	p, err := GeneratePassword(DefaultPasswordLength)
	require.NoError(t, err)
	assert.Regexp(t, alnum, p)
}

func TestGeneratePasswordNotRepeated(t *testing.T) {
	a, err := GeneratePassword(DefaultPasswordLength)
	require.NoError(t, err)
	b, err := GeneratePassword(DefaultPasswordLength)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
