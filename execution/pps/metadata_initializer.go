package pps

import (
	"encoding/binary"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/storage"
)

// MetadataInitializer homes PPS keys by their 1-based id: region
// (id-1)/P mod R, the transpose of the partition assignment.
type MetadataInitializer struct {
	numRegions    uint32
	numPartitions uint32
}

func NewMetadataInitializer(numRegions, numPartitions uint32) *MetadataInitializer {
	return &MetadataInitializer{numRegions: numRegions, numPartitions: numPartitions}
}

func (m *MetadataInitializer) Compute(key common.Key) storage.Metadata {
	id := binary.LittleEndian.Uint32(key)
	return storage.Metadata{Master: ((id - 1) / m.numPartitions) % m.numRegions}
}
