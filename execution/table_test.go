package execution

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delftdata/Gaia/storage"
)

var testSchema = &Schema{
	Name: "account",
	ID:   7,
	Columns: []Column{
		{Name: "name", Type: FixedTextType, Size: 24},
		{Name: "id", Type: Int32Type},
		{Name: "note", Type: VarTextType, Size: 16},
	},
	PKCols: 1,
}

func TestEncodeKeyLayout(t *testing.T) {
	tbl := NewTable(testSchema, nil)
	key := tbl.EncodeKey([]Scalar{NewFixedTextScalar(24, "Client0")})
	// 24-byte name followed by the 2-byte little-endian table id.
	require.Len(t, key, 26)
	require.Equal(t, byte(' '), key[23])
	require.Equal(t, uint16(7), binary.LittleEndian.Uint16(key[24:]))

	composite := &Schema{
		Name:   "product_parts",
		ID:     3,
		PKCols: 2,
		Columns: []Column{
			{Name: "product_id", Type: Int32Type},
			{Name: "slot", Type: Int32Type},
			{Name: "part_id", Type: Int32Type},
		},
	}
	key = NewTable(composite, nil).EncodeKey([]Scalar{NewInt32Scalar(12), NewInt32Scalar(3)})
	require.Len(t, key, 10)
	require.Equal(t, uint32(12), binary.LittleEndian.Uint32(key[0:4]))
	require.Equal(t, uint32(3), binary.LittleEndian.Uint32(key[4:8]))
}

func TestTableInsertSelectUpdate(t *testing.T) {
	store := storage.NewMemStorage()
	adapter := NewLoaderStorageAdapter(store, nil)
	tbl := NewTable(testSchema, adapter)

	require.True(t, tbl.Insert([]Scalar{
		NewFixedTextScalar(24, "Client0"),
		NewInt32Scalar(17),
		NewVarTextScalar(16, "hello"),
	}))

	pk := []Scalar{NewFixedTextScalar(24, "Client0")}
	row := tbl.Select(pk)
	require.Len(t, row, 2)
	require.Equal(t, int32(17), row[0].(*Int32Scalar).Value)
	require.Equal(t, "hello", row[1].(*VarTextScalar).String())

	// Projection in requested order.
	projected := tbl.Select(pk, 1, 0)
	require.Equal(t, "hello", projected[0].(*VarTextScalar).String())
	require.Equal(t, int32(17), projected[1].(*Int32Scalar).Value)

	// Updating one column keeps the others.
	require.True(t, tbl.Update(pk, []int{0}, []Scalar{NewInt32Scalar(99)}))
	row = tbl.Select(pk)
	require.Equal(t, int32(99), row[0].(*Int32Scalar).Value)
	require.Equal(t, "hello", row[1].(*VarTextScalar).String())

	// Missing rows select as nil, update as false.
	require.Nil(t, tbl.Select([]Scalar{NewFixedTextScalar(24, "nobody")}))
	require.False(t, tbl.Update([]Scalar{NewFixedTextScalar(24, "nobody")}, []int{0},
		[]Scalar{NewInt32Scalar(1)}))
}

func TestFixedTextPadding(t *testing.T) {
	s := NewFixedTextScalar(10, "abc")
	require.Equal(t, "abc       ", s.String())
	require.Equal(t, "abc", s.Trimmed())
	require.Len(t, s.WireBytes(), 10)

	long := NewFixedTextScalar(4, "abcdef")
	require.Equal(t, "abcd", long.String())
}

func TestVarTextWire(t *testing.T) {
	s := NewVarTextScalar(16, "hey")
	b := s.WireBytes()
	require.Equal(t, uint16(3), binary.LittleEndian.Uint16(b))
	require.Equal(t, "hey", string(b[2:]))
}
