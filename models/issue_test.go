package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPolicy_PermissiveAcceptsAnyNonEmptyString(t *testing.T) {
	p := StatusPolicy{}

	assert.NoError(t, p.Validate(StatusSubmitted))
	assert.NoError(t, p.Validate("waiting-on-contractor"))
	assert.NoError(t, p.Validate("WONTFIX"))
}

func TestStatusPolicy_EmptyStatusAlwaysInvalid(t *testing.T) {
	assert.Error(t, StatusPolicy{}.Validate(""))
	assert.Error(t, StatusPolicy{Strict: true}.Validate(""))
}

func TestStatusPolicy_StrictRestrictsToCanonicalSet(t *testing.T) {
	p := StatusPolicy{Strict: true}

	for _, s := range []string{StatusSubmitted, StatusInReview, StatusResolved, StatusRejected} {
		assert.NoError(t, p.Validate(s), s)
	}
	assert.Error(t, p.Validate("waiting-on-contractor"))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusResolved))
	assert.True(t, IsTerminalStatus(StatusRejected))
	assert.False(t, IsTerminalStatus(StatusSubmitted))
	assert.False(t, IsTerminalStatus(StatusInReview))
}

func TestValidateCoordinates(t *testing.T) {
	require.NoError(t, ValidateCoordinates(0, 0))
	require.NoError(t, ValidateCoordinates(-90, -180))
	require.NoError(t, ValidateCoordinates(90, 180))

	assert.Error(t, ValidateCoordinates(90.000001, 0))
	assert.Error(t, ValidateCoordinates(-91, 0))
	assert.Error(t, ValidateCoordinates(0, 180.5))
	assert.Error(t, ValidateCoordinates(0, -181))
}

func TestRoundCoordinate_SixFractionalDigits(t *testing.T) {
	assert.Equal(t, 12.345678, RoundCoordinate(12.345678))
	assert.Equal(t, 98.765432, RoundCoordinate(98.765432))
	assert.Equal(t, 1.234568, RoundCoordinate(1.23456789))
	assert.Equal(t, 10.0, RoundCoordinate(10.0))
}
