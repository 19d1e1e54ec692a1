package common

// Key is an opaque byte string. Its interpretation (integer, fixed-width
// text, composite) is decided by the workload family that generated it.
type Key []byte

// RegionId identifies the region that masters a key.
type RegionId = uint32

// PartitionId identifies a horizontal shard within a region.
type PartitionId = uint32

// ReplicaId identifies a replica within a region. Calvin-style single-region
// configurations substitute replicas for regions in the workload layer.
type ReplicaId = uint32

// TxnId is a client-side transaction counter value.
type TxnId = uint64
