package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFNVHash(t *testing.T) {
	// Empty input returns the offset basis.
	require.Equal(t, uint32(0x811c9dc5), FNVHash(nil))
	require.Equal(t, uint32(0x811c9dc5), FNVHash([]byte{}))

	// Golden value over a 4-byte prefix.
	require.Equal(t, uint32(0xce3479bd), FNVHash([]byte("abcd")))

	// Prefix-hashing only sees the prefix.
	require.Equal(t, FNVHash([]byte("abcd")), FNVHash([]byte("abcdxyz")[:4]))
}

func TestMurmurHash3(t *testing.T) {
	name := "Client0                 "
	require.Len(t, name, 24)
	require.Equal(t, uint32(242506150), MurmurHash3(name))

	// Inputs that are not a multiple of four bytes exercise the tail.
	require.Equal(t, uint32(3487015910), MurmurHash3("abc"))

	// Placement depends on every byte of the name.
	require.NotEqual(t, MurmurHash3("Client0                 "), MurmurHash3("Client1                 "))
}
