package common

import (
	"encoding/binary"
)

// Sharder maps a key to the partition that owns it. Exactly one variant is
// active per process, selected from configuration. Sharders are total on
// their declared key shapes; a malformed key yields an undefined partition.
type Sharder interface {
	ComputePartition(key Key) uint32
	IsLocalKey(key Key) bool
	NumPartitions() uint32
	LocalPartition() uint32
}

type baseSharder struct {
	localPartition uint32
	numPartitions  uint32
}

func (s *baseSharder) NumPartitions() uint32  { return s.numPartitions }
func (s *baseSharder) LocalPartition() uint32 { return s.localPartition }

// atoiPrefix parses the longest run of leading decimal digits (with an
// optional sign) and ignores the rest of the key, like the C standard
// library integer parsers the key formats were designed around.
func atoiPrefix(b []byte) int64 {
	var n int64
	i := 0
	neg := false
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		neg = b[i] == '-'
		i++
	}
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		n = n*10 + int64(b[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}

// HashSharder partitions by the FNV-1a hash of a fixed-size key prefix.
type HashSharder struct {
	baseSharder
	partitionKeyNumBytes int
}

func NewHashSharder(numPartitions, localPartition uint32, partitionKeyNumBytes int) *HashSharder {
	return &HashSharder{baseSharder{localPartition, numPartitions}, partitionKeyNumBytes}
}

func (s *HashSharder) ComputePartition(key Key) uint32 {
	end := len(key)
	if s.partitionKeyNumBytes < end {
		end = s.partitionKeyNumBytes
	}
	return FNVHash(key[:end]) % s.numPartitions
}

func (s *HashSharder) IsLocalKey(key Key) bool { return s.ComputePartition(key) == s.localPartition }

// SimpleSharder assumes the following home/partition assignment
//
//	       home | 0  1  2  3  0  1  2  3  0  ...
//	------------|-------------------------------
//	partition 0 | 0  3  6  9  12 15 18 21 24 ...
//	partition 1 | 1  4  7  10 13 16 19 22 25 ...
//	partition 2 | 2  5  8  11 14 17 20 23 26 ...
//	------------|-------------------------------
//	            |            keys
//
// Taking the modulo of the key by the number of partitions gives the
// partition of the key.
type SimpleSharder struct {
	baseSharder
}

func NewSimpleSharder(numPartitions, localPartition uint32) *SimpleSharder {
	return &SimpleSharder{baseSharder{localPartition, numPartitions}}
}

func (s *SimpleSharder) ComputePartition(key Key) uint32 {
	return uint32(atoiPrefix(key) % int64(s.numPartitions))
}

func (s *SimpleSharder) IsLocalKey(key Key) bool { return s.ComputePartition(key) == s.localPartition }

// SimpleSharder2 transposes the assignment of SimpleSharder
//
//	  partition | 0  1  2  3  0  1  2  3  0  ...
//	------------|-------------------------------
//	     home 0 | 0  3  6  9  12 15 18 21 24 ...
//	     home 1 | 1  4  7  10 13 16 19 22 25 ...
//	     home 2 | 2  5  8  11 14 17 20 23 26 ...
//	------------|-------------------------------
//	            |            keys
//
// Dividing the key by the number of regions gives the "column number" of the
// key; its modulo by the number of partitions is the partition.
type SimpleSharder2 struct {
	baseSharder
	numRegions uint32
}

func NewSimpleSharder2(numPartitions, localPartition, numRegions uint32) *SimpleSharder2 {
	return &SimpleSharder2{baseSharder{localPartition, numPartitions}, numRegions}
}

func (s *SimpleSharder2) ComputePartition(key Key) uint32 {
	return uint32((atoiPrefix(key) / int64(s.numRegions)) % int64(s.numPartitions))
}

func (s *SimpleSharder2) IsLocalKey(key Key) bool {
	return s.ComputePartition(key) == s.localPartition
}

// TPCCSharder partitions by warehouse id, stored little-endian at the front
// of the key.
type TPCCSharder struct {
	baseSharder
}

func NewTPCCSharder(numPartitions, localPartition uint32) *TPCCSharder {
	return &TPCCSharder{baseSharder{localPartition, numPartitions}}
}

func (s *TPCCSharder) ComputePartition(key Key) uint32 {
	wID := int32(binary.LittleEndian.Uint32(key))
	return uint32(wID-1) % s.numPartitions
}

func (s *TPCCSharder) IsLocalKey(key Key) bool { return s.ComputePartition(key) == s.localPartition }

// DSHSharder handles the two DeathStar Hotel key shapes: 22-byte username
// keys carry the user id as formatted text, everything else carries a raw
// little-endian integer.
type DSHSharder struct {
	baseSharder
}

func NewDSHSharder(numPartitions, localPartition uint32) *DSHSharder {
	return &DSHSharder{baseSharder{localPartition, numPartitions}}
}

// DSHUserKeyID extracts the user id from a 22-byte username key. The first
// two bytes are the decimal length prefix L and the id occupies bytes
// [20-L, 20).
func DSHUserKeyID(key Key) uint32 {
	l := atoiPrefix(key[:2])
	return uint32(atoiPrefix(key[20-l : 20]))
}

func (s *DSHSharder) ComputePartition(key Key) uint32 {
	var id uint32
	if len(key) == 22 {
		id = DSHUserKeyID(key)
	} else {
		id = binary.LittleEndian.Uint32(key)
	}
	return id % s.numPartitions
}

func (s *DSHSharder) IsLocalKey(key Key) bool { return s.ComputePartition(key) == s.localPartition }

// MovrSharder partitions by the city index stored in the top 16 bits of a
// little-endian uint64 global id.
type MovrSharder struct {
	baseSharder
}

func NewMovrSharder(numPartitions, localPartition uint32) *MovrSharder {
	return &MovrSharder{baseSharder{localPartition, numPartitions}}
}

func (s *MovrSharder) ComputePartition(key Key) uint32 {
	const partitionBits = 16
	globalID := binary.LittleEndian.Uint64(key)
	cityIndex := uint32(globalID >> (64 - partitionBits))
	return cityIndex % s.numPartitions
}

func (s *MovrSharder) IsLocalKey(key Key) bool { return s.ComputePartition(key) == s.localPartition }

// PPSSharder partitions products, parts and suppliers by their 1-based
// little-endian int32 id.
type PPSSharder struct {
	baseSharder
}

func NewPPSSharder(numPartitions, localPartition uint32) *PPSSharder {
	return &PPSSharder{baseSharder{localPartition, numPartitions}}
}

func (s *PPSSharder) ComputePartition(key Key) uint32 {
	id := int32(binary.LittleEndian.Uint32(key))
	return uint32(id-1) % s.numPartitions
}

func (s *PPSSharder) IsLocalKey(key Key) bool { return s.ComputePartition(key) == s.localPartition }

// MovieSharder partitions by the decimal integer in the first 12 characters
// of the key, with the same assignment as SimpleSharder.
type MovieSharder struct {
	baseSharder
}

func NewMovieSharder(numPartitions, localPartition uint32) *MovieSharder {
	return &MovieSharder{baseSharder{localPartition, numPartitions}}
}

func (s *MovieSharder) ComputePartition(key Key) uint32 {
	prefix := key
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	return uint32(atoiPrefix(prefix) % int64(s.numPartitions))
}

func (s *MovieSharder) IsLocalKey(key Key) bool { return s.ComputePartition(key) == s.localPartition }

// SmallBankSharder partitions 26-byte account keys by the MurmurHash3 of the
// 24-byte client name prefix, and integer-shaped keys by the raw id.
type SmallBankSharder struct {
	baseSharder
}

func NewSmallBankSharder(numPartitions, localPartition uint32) *SmallBankSharder {
	return &SmallBankSharder{baseSharder{localPartition, numPartitions}}
}

func (s *SmallBankSharder) ComputePartition(key Key) uint32 {
	if len(key) == 26 {
		return MurmurHash3(string(key[:24])) % s.numPartitions
	}
	clientID := binary.LittleEndian.Uint32(key)
	return clientID % s.numPartitions
}

func (s *SmallBankSharder) IsLocalKey(key Key) bool {
	return s.ComputePartition(key) == s.localPartition
}
