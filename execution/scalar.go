package execution

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// DataType tags a scalar value. The tag and width of a scalar are fixed at
// construction; serialization and comparison use the declared width exactly.
type DataType int

const (
	Int8Type DataType = iota
	Int32Type
	Int64Type
	Float64Type
	FixedTextType
	VarTextType
)

// Scalar is a typed cell value.
type Scalar interface {
	DataType() DataType
	// WireBytes is the serialized form of the scalar as it appears inside a
	// physical key or value buffer. VarText carries a little-endian uint16
	// length prefix; everything else is fixed width, integers and floats
	// little-endian.
	WireBytes() []byte
	String() string
}

type Int8Scalar struct {
	Value int8
}

func NewInt8Scalar(v int8) *Int8Scalar   { return &Int8Scalar{Value: v} }
func (s *Int8Scalar) DataType() DataType { return Int8Type }
func (s *Int8Scalar) WireBytes() []byte  { return []byte{byte(s.Value)} }
func (s *Int8Scalar) String() string     { return fmt.Sprintf("%d", s.Value) }

type Int32Scalar struct {
	Value int32
}

func NewInt32Scalar(v int32) *Int32Scalar { return &Int32Scalar{Value: v} }
func (s *Int32Scalar) DataType() DataType { return Int32Type }
func (s *Int32Scalar) WireBytes() []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(s.Value))
	return b[:]
}
func (s *Int32Scalar) String() string { return fmt.Sprintf("%d", s.Value) }

type Int64Scalar struct {
	Value int64
}

func NewInt64Scalar(v int64) *Int64Scalar { return &Int64Scalar{Value: v} }
func (s *Int64Scalar) DataType() DataType { return Int64Type }
func (s *Int64Scalar) WireBytes() []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(s.Value))
	return b[:]
}
func (s *Int64Scalar) String() string { return fmt.Sprintf("%d", s.Value) }

type Float64Scalar struct {
	Value float64
}

func NewFloat64Scalar(v float64) *Float64Scalar { return &Float64Scalar{Value: v} }
func (s *Float64Scalar) DataType() DataType     { return Float64Type }
func (s *Float64Scalar) WireBytes() []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(s.Value))
	return b[:]
}
func (s *Float64Scalar) String() string { return fmt.Sprintf("%g", s.Value) }

// FixedTextScalar is exactly Width bytes, space padded. Equality is byte
// identical.
type FixedTextScalar struct {
	Value []byte
	Width int
}

// NewFixedTextScalar pads s with spaces to width; longer input is truncated.
func NewFixedTextScalar(width int, s string) *FixedTextScalar {
	b := make([]byte, width)
	n := copy(b, s)
	for i := n; i < width; i++ {
		b[i] = ' '
	}
	return &FixedTextScalar{Value: b, Width: width}
}

func (s *FixedTextScalar) DataType() DataType { return FixedTextType }
func (s *FixedTextScalar) WireBytes() []byte  { return s.Value }
func (s *FixedTextScalar) String() string     { return string(s.Value) }

// Trimmed is the value without trailing padding.
func (s *FixedTextScalar) Trimmed() string { return strings.TrimRight(string(s.Value), " ") }

// VarTextScalar holds up to Max bytes and is length prefixed on the wire.
type VarTextScalar struct {
	Value []byte
	Max   int
}

func NewVarTextScalar(max int, s string) *VarTextScalar {
	if len(s) > max {
		s = s[:max]
	}
	return &VarTextScalar{Value: []byte(s), Max: max}
}

func (s *VarTextScalar) DataType() DataType { return VarTextType }
func (s *VarTextScalar) WireBytes() []byte {
	b := make([]byte, 2+len(s.Value))
	binary.LittleEndian.PutUint16(b, uint16(len(s.Value)))
	copy(b[2:], s.Value)
	return b
}
func (s *VarTextScalar) String() string { return string(s.Value) }
