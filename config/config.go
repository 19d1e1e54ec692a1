package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
)

// Partitioning selects the single active sharder/metadata-initializer pair
// for the process.
type Partitioning string

const (
	HashPartitioning      Partitioning = "hash"
	SimplePartitioning    Partitioning = "simple"
	Simple2Partitioning   Partitioning = "simple2"
	TPCCPartitioning      Partitioning = "tpcc"
	DSHPartitioning       Partitioning = "dsh"
	MovrPartitioning      Partitioning = "movr"
	PPSPartitioning       Partitioning = "pps"
	MoviePartitioning     Partitioning = "movie"
	SmallBankPartitioning Partitioning = "smallbank"
)

// Config describes the slice of the cluster this process owns and the sizing
// of the active workload family. Components outside this repository consume
// the same file; only the fields below are read here.
type Config struct {
	LogLevel string `toml:"log_level"`

	NumRegions     uint32 `toml:"num_regions"`
	NumPartitions  uint32 `toml:"num_partitions"`
	LocalRegion    uint32 `toml:"local_region"`
	LocalPartition uint32 `toml:"local_partition"`
	LocalReplica   uint32 `toml:"local_replica"`
	// Replicas per region. Single-region (Calvin-style) configurations swap
	// replicas in for regions in the workload layer.
	NumReplicas uint32 `toml:"num_replicas"`

	Partitioning Partitioning `toml:"partitioning"`

	Hash      HashSizing      `toml:"hash_partitioning"`
	PPS       PPSSizing       `toml:"pps_partitioning"`
	DSH       DSHSizing       `toml:"dsh_partitioning"`
	SmallBank SmallBankSizing `toml:"smallbank_partitioning"`
}

type HashSizing struct {
	PartitionKeyNumBytes int `toml:"partition_key_num_bytes"`
}

type PPSSizing struct {
	Products  int `toml:"products"`
	Parts     int `toml:"parts"`
	Suppliers int `toml:"suppliers"`
}

type DSHSizing struct {
	NumUsers  int     `toml:"num_users"`
	NumHotels int     `toml:"num_hotels"`
	MaxCoord  float64 `toml:"max_coord"`
}

type SmallBankSizing struct {
	Clients int `toml:"clients"`
}

func (c *Config) Validate() error {
	if c.NumPartitions == 0 {
		return errors.New("num_partitions must be greater than 0")
	}
	if c.NumRegions == 0 {
		return errors.New("num_regions must be greater than 0")
	}
	if c.LocalPartition >= c.NumPartitions {
		return errors.Errorf("local_partition %d out of range [0, %d)", c.LocalPartition, c.NumPartitions)
	}
	if c.LocalRegion >= c.NumRegions {
		return errors.Errorf("local_region %d out of range [0, %d)", c.LocalRegion, c.NumRegions)
	}
	switch c.Partitioning {
	case HashPartitioning, SimplePartitioning, Simple2Partitioning, TPCCPartitioning,
		DSHPartitioning, MovrPartitioning, PPSPartitioning, MoviePartitioning, SmallBankPartitioning:
	default:
		return errors.Errorf("unknown partitioning variant %q", c.Partitioning)
	}
	return nil
}

// NumWorkloadRegions is the region count the workload layer should generate
// against: the replica count in single-region configurations, the region
// count otherwise.
func (c *Config) NumWorkloadRegions() uint32 {
	if c.NumRegions == 1 {
		return c.NumReplicas
	}
	return c.NumRegions
}

func getLogLevel() (logLevel string) {
	logLevel = "info"
	if l := os.Getenv("LOG_LEVEL"); len(l) != 0 {
		logLevel = l
	}
	return
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:       getLogLevel(),
		NumRegions:     1,
		NumPartitions:  1,
		NumReplicas:    1,
		LocalRegion:    0,
		LocalPartition: 0,
		Partitioning:   HashPartitioning,
		Hash:           HashSizing{PartitionKeyNumBytes: 4},
	}
}

func NewTestConfig() *Config {
	return &Config{
		LogLevel:       getLogLevel(),
		NumRegions:     2,
		NumPartitions:  2,
		NumReplicas:    1,
		LocalRegion:    0,
		LocalPartition: 0,
		Partitioning:   SimplePartitioning,
		Hash:           HashSizing{PartitionKeyNumBytes: 4},
		PPS:            PPSSizing{Products: 192, Parts: 384, Suppliers: 64},
		DSH:            DSHSizing{NumUsers: 1000, NumHotels: 100, MaxCoord: 500},
		SmallBank:      SmallBankSizing{Clients: 1000},
	}
}

// Load reads a TOML configuration file and validates it.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Annotatef(err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}
