package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_VerifiesAndSalts(t *testing.T) {
	h1, err := HashPassword("secret")
	require.NoError(t, err)
	h2, err := HashPassword("secret")
	require.NoError(t, err)

	require.NotEqual(t, "secret", h1)
	require.NotEqual(t, h1, h2)
	require.True(t, CheckPassword(h1, "secret"))
	require.False(t, CheckPassword(h1, "Secret"))

	cost, err := bcrypt.Cost([]byte(h1))
	require.NoError(t, err)
	require.Equal(t, 10, cost)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	require.False(t, CheckPassword("not-a-hash", "secret"))
	require.False(t, CheckPassword("", ""))
}
