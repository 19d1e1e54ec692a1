package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delftdata/Gaia/common"
)

func TestMemStorage(t *testing.T) {
	s := NewMemStorage()

	_, ok := s.Read(common.Key("missing"))
	require.False(t, ok)

	s.Write(common.Key("a"), Record{Value: []byte("1"), Metadata: Metadata{Master: 2}})
	rec, ok := s.Read(common.Key("a"))
	require.True(t, ok)
	require.Equal(t, []byte("1"), rec.Value)
	require.Equal(t, uint32(2), rec.Metadata.Master)

	// Overwrite replaces value and metadata.
	s.Write(common.Key("a"), Record{Value: []byte("2")})
	rec, _ = s.Read(common.Key("a"))
	require.Equal(t, []byte("2"), rec.Value)
	require.Equal(t, uint32(0), rec.Metadata.Master)
	require.Equal(t, 1, s.Len())

	// The stored key does not alias the caller's buffer.
	key := []byte("mut")
	s.Write(key, Record{Value: []byte("v")})
	key[0] = 'X'
	_, ok = s.Read(common.Key("mut"))
	require.True(t, ok)

	require.True(t, s.Delete(common.Key("a")))
	require.False(t, s.Delete(common.Key("a")))
	_, ok = s.Read(common.Key("a"))
	require.False(t, ok)
}
