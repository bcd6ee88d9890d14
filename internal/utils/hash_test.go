package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandomToken(t *testing.T) {
	first, err := GenerateRandomToken(16)
	require.NoError(t, err)
	second, err := GenerateRandomToken(16)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	// 16 bytes encode to 22 unpadded base64url characters.
	require.Len(t, first, 22)
	require.NotContains(t, first, "=")
	require.NotContains(t, first, "+")
	require.NotContains(t, first, "/")
}

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, ch := range code {
			require.True(t, ch >= '0' && ch <= '9')
		}
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	require.Equal(t, HashToken("abc"), HashToken("abc"))
	require.NotEqual(t, HashToken("abc"), HashToken("abd"))
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}
