package dsh

import (
	"encoding/binary"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/storage"
)

// MetadataInitializer homes DSH keys by user or hotel id: region
// (id/P) mod R, matching DSHSharder's id extraction for both key shapes.
type MetadataInitializer struct {
	numRegions    uint32
	numPartitions uint32
}

func NewMetadataInitializer(numRegions, numPartitions uint32) *MetadataInitializer {
	return &MetadataInitializer{numRegions: numRegions, numPartitions: numPartitions}
}

func (m *MetadataInitializer) Compute(key common.Key) storage.Metadata {
	var id uint32
	if len(key) == 22 {
		id = common.DSHUserKeyID(key)
	} else {
		id = binary.LittleEndian.Uint32(key)
	}
	return storage.Metadata{Master: (id / m.numPartitions) % m.numRegions}
}
