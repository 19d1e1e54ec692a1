package common

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delftdata/Gaia/config"
)

func TestNewSharderSelectsVariant(t *testing.T) {
	cfg := config.NewTestConfig()

	cfg.Partitioning = config.SimplePartitioning
	require.IsType(t, &SimpleSharder{}, NewSharder(cfg))

	cfg.Partitioning = config.Simple2Partitioning
	require.IsType(t, &SimpleSharder2{}, NewSharder(cfg))

	cfg.Partitioning = config.TPCCPartitioning
	require.IsType(t, &TPCCSharder{}, NewSharder(cfg))

	cfg.Partitioning = config.DSHPartitioning
	require.IsType(t, &DSHSharder{}, NewSharder(cfg))

	cfg.Partitioning = config.MovrPartitioning
	require.IsType(t, &MovrSharder{}, NewSharder(cfg))

	cfg.Partitioning = config.PPSPartitioning
	require.IsType(t, &PPSSharder{}, NewSharder(cfg))

	cfg.Partitioning = config.MoviePartitioning
	require.IsType(t, &MovieSharder{}, NewSharder(cfg))

	cfg.Partitioning = config.SmallBankPartitioning
	require.IsType(t, &SmallBankSharder{}, NewSharder(cfg))

	cfg.Partitioning = config.HashPartitioning
	s := NewSharder(cfg)
	require.IsType(t, &HashSharder{}, s)
	require.Equal(t, cfg.NumPartitions, s.NumPartitions())
	require.Equal(t, cfg.LocalPartition, s.LocalPartition())
}
