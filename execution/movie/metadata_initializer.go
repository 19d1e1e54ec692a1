package movie

import (
	"encoding/binary"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/storage"
)

// MetadataInitializer homes movie-family keys. Text keys (usernames and
// titles) carry a 12-digit decimal prefix; review keys carry a raw
// little-endian id. Dividing by the partition count and wrapping by the
// region count is the transpose of MovieSharder's assignment:
//
//	       home | 0  1  2  3  0  1  2  3  0  ...
//	------------|-------------------------------
//	partition 0 | 0  3  6  9  12 15 18 21 24 ...
//	partition 1 | 1  4  7  10 13 16 19 22 25 ...
//	partition 2 | 2  5  8  11 14 17 20 23 26 ...
//	------------|-------------------------------
//	            |            keys
type MetadataInitializer struct {
	numRegions    uint32
	numPartitions uint32
}

func NewMetadataInitializer(numRegions, numPartitions uint32) *MetadataInitializer {
	return &MetadataInitializer{numRegions: numRegions, numPartitions: numPartitions}
}

func (m *MetadataInitializer) Compute(key common.Key) storage.Metadata {
	id := keyID(key)
	return storage.Metadata{Master: (id / m.numPartitions) % m.numRegions}
}

func keyID(key common.Key) uint32 {
	if len(key) >= 12 && key[0] >= '0' && key[0] <= '9' {
		var id uint32
		for _, b := range key[:12] {
			if b < '0' || b > '9' {
				return id
			}
			id = id*10 + uint32(b-'0')
		}
		return id
	}
	if len(key) >= 8 {
		return uint32(binary.LittleEndian.Uint64(key))
	}
	return 0
}
