package storage

import (
	"github.com/delftdata/Gaia/common"
)

// Record is a stored value together with its placement metadata.
type Record struct {
	Value    []byte
	Metadata Metadata
}

// Storage is the key-value store serving transaction execution. The core
// only needs point reads and writes; scans and durability belong to the
// storage engine outside this repository.
type Storage interface {
	Read(key common.Key) (Record, bool)
	Write(key common.Key, record Record)
	Delete(key common.Key) bool
}

// Metadata is the placement information attached to every record.
type Metadata struct {
	// Master is the region that masters the key.
	Master common.RegionId
	// Counter tracks remastering; zero for freshly loaded records.
	Counter uint32
}

// MetadataInitializer assigns the initial home region of a key. It must be
// chosen as a matched pair with the sharder of the same workload family.
type MetadataInitializer interface {
	Compute(key common.Key) Metadata
}

// ConstantMetadataInitializer homes every key in one region. Used by tests
// and by single-region deployments.
type ConstantMetadataInitializer struct {
	Master common.RegionId
}

func (c ConstantMetadataInitializer) Compute(common.Key) Metadata {
	return Metadata{Master: c.Master}
}
