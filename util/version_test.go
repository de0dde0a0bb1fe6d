package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"main-v6.5.3-g7ac6f3", "6.5.3-g7ac6f3"},
		{"develop-v2.3.4", "2.3.4"},
		{"v1.2.3", "v1.2.3"},
		{"6.5.3", "6.5.3"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanVersion(tt.in), "input %q", tt.in)
	}
}

func TestParseSemanticVersion(t *testing.T) {
	parsed := ParseSemanticVersion("6.5.3")
	require.NotNil(t, parsed.Major)
	require.NotNil(t, parsed.Minor)
	require.NotNil(t, parsed.Patch)
	assert.Equal(t, 6, *parsed.Major)
	assert.Equal(t, 5, *parsed.Minor)
	assert.Equal(t, 3, *parsed.Patch)
}

func TestParseSemanticVersion_Partial(t *testing.T) {
	parsed := ParseSemanticVersion("v7.2")
	require.NotNil(t, parsed.Major)
	require.NotNil(t, parsed.Minor)
	assert.Equal(t, 7, *parsed.Major)
	assert.Equal(t, 2, *parsed.Minor)
	assert.Nil(t, parsed.Patch)
}

func TestParseSemanticVersion_Prerelease(t *testing.T) {
	parsed := ParseSemanticVersion("6.5.3-rc.1+build7")
	require.NotNil(t, parsed.Patch)
	assert.Equal(t, 3, *parsed.Patch)
}

func TestParseSemanticVersion_Garbage(t *testing.T) {
	parsed := ParseSemanticVersion("not-a-version")
	assert.Nil(t, parsed.Major)
	assert.Nil(t, parsed.Minor)
	assert.Nil(t, parsed.Patch)

	parsed = ParseSemanticVersion("")
	assert.Nil(t, parsed.Major)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
	assert.True(t, IsNotEmpty("x"))
}

func TestGetStringOrDefault(t *testing.T) {
	assert.Equal(t, "fallback", GetStringOrDefault("", "fallback"))
	assert.Equal(t, "value", GetStringOrDefault("value", "fallback"))
}
