package common

import (
	"github.com/delftdata/Gaia/config"
)

// NewSharder builds the sharder variant selected by the configuration.
func NewSharder(cfg *config.Config) Sharder {
	p := cfg.NumPartitions
	lp := cfg.LocalPartition
	switch cfg.Partitioning {
	case config.SimplePartitioning:
		return NewSimpleSharder(p, lp)
	case config.Simple2Partitioning:
		return NewSimpleSharder2(p, lp, cfg.NumRegions)
	case config.TPCCPartitioning:
		return NewTPCCSharder(p, lp)
	case config.DSHPartitioning:
		return NewDSHSharder(p, lp)
	case config.MovrPartitioning:
		return NewMovrSharder(p, lp)
	case config.PPSPartitioning:
		return NewPPSSharder(p, lp)
	case config.MoviePartitioning:
		return NewMovieSharder(p, lp)
	case config.SmallBankPartitioning:
		return NewSmallBankSharder(p, lp)
	default:
		return NewHashSharder(p, lp, cfg.Hash.PartitionKeyNumBytes)
	}
}
