package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	for _, size := range []int{16, SecretSize, 64} {
		a, err := GenerateSecret(size)
		require.NoError(t, err)
		require.Len(t, a, size)

		b, err := GenerateSecret(size)
		require.NoError(t, err)
		require.NotEqual(t, a, b, "secrets should be unique")
	}
}

func TestGenerateSecret_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		secret, err := GenerateSecret(size)
		require.Error(t, err)
		require.Nil(t, secret)
	}
}

func TestFingerprint(t *testing.T) {
	a1 := Fingerprint("token-1")
	a2 := Fingerprint("token-1")
	b := Fingerprint("token-2")

	require.Equal(t, a1, a2, "fingerprint should be deterministic")
	require.NotEqual(t, a1, b)
	require.Len(t, a1, fingerprintLen)
	require.NotContains(t, a1, "token")
}
