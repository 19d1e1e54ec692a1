package smallbank

import (
	"encoding/binary"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/storage"
)

// MetadataInitializer homes account keys by the MurmurHash3 of the client
// name and id-shaped keys by the raw id, dividing out the partition in both
// cases so the pair stays matched with SmallBankSharder.
type MetadataInitializer struct {
	numRegions    uint32
	numPartitions uint32
}

func NewMetadataInitializer(numRegions, numPartitions uint32) *MetadataInitializer {
	return &MetadataInitializer{numRegions: numRegions, numPartitions: numPartitions}
}

func (m *MetadataInitializer) Compute(key common.Key) storage.Metadata {
	if len(key) == 26 {
		hash := common.MurmurHash3(string(key[:AccountNameLength]))
		return storage.Metadata{Master: (hash / m.numPartitions) % m.numRegions}
	}
	clientID := binary.LittleEndian.Uint32(key)
	return storage.Metadata{Master: (clientID / m.numPartitions) % m.numRegions}
}
