package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("clinician", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "clinician", hash)

	assert.NoError(t, ComparePassword(hash, "clinician"))
	assert.Error(t, ComparePassword(hash, "incorrecta"))
}
