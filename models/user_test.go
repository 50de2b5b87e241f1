package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("user")
	require.True(t, ok)
	assert.Equal(t, RoleUser, role)

	role, ok = ParseRole("admin")
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	// omitted role defaults to user
	role, ok = ParseRole("")
	require.True(t, ok)
	assert.Equal(t, RoleUser, role)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)
}

func TestHashAndComparePassword(t *testing.T) {
	u := User{Username: "alice", Password: "pw123"}
	require.NoError(t, u.HashPassword())

	assert.NotEqual(t, "pw123", u.Password)
	assert.True(t, u.ComparePassword("pw123"))
	assert.False(t, u.ComparePassword("pw124"))
	assert.False(t, u.ComparePassword(""))
}
