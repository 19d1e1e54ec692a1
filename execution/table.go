package execution

import (
	"encoding/binary"
	"math"

	"github.com/delftdata/Gaia/common"
)

// Column describes one cell of a schema. Size is the width of FixedText
// columns and the maximum length of VarText columns; it is ignored for the
// numeric types.
type Column struct {
	Name string
	Type DataType
	Size int
}

// Schema identifies a logical relation. The first PKCols columns form the
// primary key. The physical key is the concatenation of the primary-key
// scalars in declared width followed by the little-endian table id; the
// physical value is the concatenation of the remaining columns.
type Schema struct {
	Name    string
	ID      uint16
	Columns []Column
	PKCols  int
}

// NumValueColumns is the number of non-primary-key columns.
func (s *Schema) NumValueColumns() int { return len(s.Columns) - s.PKCols }

// Table is a typed two-pass operation surface over a storage adapter.
// Running the same body against a KeyGen adapter and then a Txn adapter
// yields, respectively, the key set and the actual reads and writes.
type Table struct {
	schema  *Schema
	adapter StorageAdapter
}

func NewTable(schema *Schema, adapter StorageAdapter) Table {
	return Table{schema: schema, adapter: adapter}
}

// EncodeKey serializes a primary key.
func (t Table) EncodeKey(pk []Scalar) common.Key {
	var key []byte
	for _, s := range pk {
		key = append(key, s.WireBytes()...)
	}
	var tag [2]byte
	binary.LittleEndian.PutUint16(tag[:], t.schema.ID)
	return append(key, tag[:]...)
}

func (t Table) encodeValue(row []Scalar) []byte {
	var val []byte
	for _, s := range row {
		val = append(val, s.WireBytes()...)
	}
	return val
}

// decodeValue deserializes a value buffer into the non-PK columns. An empty
// buffer decodes to zero-valued placeholder cells, which is what the KeyGen
// adapter serves so that bodies keep discovering keys.
func (t Table) decodeValue(buf []byte) []Scalar {
	row := make([]Scalar, 0, t.schema.NumValueColumns())
	placeholder := len(buf) == 0
	for _, col := range t.schema.Columns[t.schema.PKCols:] {
		if placeholder {
			row = append(row, zeroScalar(col))
			continue
		}
		s, rest, ok := decodeScalar(col, buf)
		if !ok {
			return nil
		}
		row = append(row, s)
		buf = rest
	}
	return row
}

func zeroScalar(col Column) Scalar {
	switch col.Type {
	case Int8Type:
		return NewInt8Scalar(0)
	case Int32Type:
		return NewInt32Scalar(0)
	case Int64Type:
		return NewInt64Scalar(0)
	case Float64Type:
		return NewFloat64Scalar(0)
	case FixedTextType:
		return NewFixedTextScalar(col.Size, "")
	default:
		return NewVarTextScalar(col.Size, "")
	}
}

func decodeScalar(col Column, buf []byte) (Scalar, []byte, bool) {
	switch col.Type {
	case Int8Type:
		if len(buf) < 1 {
			return nil, nil, false
		}
		return NewInt8Scalar(int8(buf[0])), buf[1:], true
	case Int32Type:
		if len(buf) < 4 {
			return nil, nil, false
		}
		return NewInt32Scalar(int32(binary.LittleEndian.Uint32(buf))), buf[4:], true
	case Int64Type:
		if len(buf) < 8 {
			return nil, nil, false
		}
		return NewInt64Scalar(int64(binary.LittleEndian.Uint64(buf))), buf[8:], true
	case Float64Type:
		if len(buf) < 8 {
			return nil, nil, false
		}
		return NewFloat64Scalar(math.Float64frombits(binary.LittleEndian.Uint64(buf))), buf[8:], true
	case FixedTextType:
		if len(buf) < col.Size {
			return nil, nil, false
		}
		s := &FixedTextScalar{Value: append([]byte(nil), buf[:col.Size]...), Width: col.Size}
		return s, buf[col.Size:], true
	default: // VarTextType
		if len(buf) < 2 {
			return nil, nil, false
		}
		n := int(binary.LittleEndian.Uint16(buf))
		if len(buf) < 2+n {
			return nil, nil, false
		}
		s := &VarTextScalar{Value: append([]byte(nil), buf[2:2+n]...), Max: col.Size}
		return s, buf[2+n:], true
	}
}

// Select reads the row with the given primary key. With no column indices it
// returns all non-PK cells in schema order; otherwise the projection in the
// requested order. Column indices count non-PK columns from zero. A missing
// row yields nil.
func (t Table) Select(pk []Scalar, cols ...int) []Scalar {
	buf, ok := t.adapter.Read(t.EncodeKey(pk))
	if !ok {
		return nil
	}
	row := t.decodeValue(buf)
	if row == nil {
		return nil
	}
	if len(cols) == 0 {
		return row
	}
	projected := make([]Scalar, len(cols))
	for i, c := range cols {
		projected[i] = row[c]
	}
	return projected
}

// Insert stores a full row (primary key cells first).
func (t Table) Insert(row []Scalar) bool {
	key := t.EncodeKey(row[:t.schema.PKCols])
	return t.adapter.Insert(key, t.encodeValue(row[t.schema.PKCols:]))
}

// Update rewrites the given non-PK columns of an existing row. The current
// value is read first so the untouched columns survive; under the KeyGen
// adapter this also records the key as read before upgrading it to a write.
func (t Table) Update(pk []Scalar, cols []int, values []Scalar) bool {
	key := t.EncodeKey(pk)
	buf, ok := t.adapter.Read(key)
	if !ok {
		return false
	}
	row := t.decodeValue(buf)
	if row == nil {
		return false
	}
	for i, c := range cols {
		row[c] = values[i]
	}
	return t.adapter.Update(key, t.encodeValue(row))
}

// Delete removes a row.
func (t Table) Delete(pk []Scalar) bool {
	return t.adapter.Delete(t.EncodeKey(pk))
}
