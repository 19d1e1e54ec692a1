// Package tpcc carries the TPC-C placement shell: key construction and the
// metadata initializer matched with TPCCSharder. The transaction bodies of
// this family live outside this repository.
package tpcc

import (
	"encoding/binary"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/storage"
)

// WarehouseKeyPrefix encodes the warehouse id at the front of a key, where
// TPCCSharder expects it.
func WarehouseKeyPrefix(wID int32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(wID))
	return b[:]
}

// MetadataInitializer homes TPC-C keys by their 1-based warehouse id.
type MetadataInitializer struct {
	numRegions    uint32
	numPartitions uint32
}

func NewMetadataInitializer(numRegions, numPartitions uint32) *MetadataInitializer {
	return &MetadataInitializer{numRegions: numRegions, numPartitions: numPartitions}
}

func (m *MetadataInitializer) Compute(key common.Key) storage.Metadata {
	wID := binary.LittleEndian.Uint32(key)
	return storage.Metadata{Master: ((wID - 1) / m.numPartitions) % m.numRegions}
}
