// Package workload contains the per-family transaction generators. Each
// generator deterministically produces a stream of (Transaction,
// TransactionProfile) pairs honoring the configured multi-home and
// multi-partition percentages, hot-key skew and sunflower locality shift.
package workload

import (
	"github.com/magiconair/properties"

	"github.com/delftdata/Gaia/txnpb"
)

// Workload is one benchmark family's transaction stream. Generators are
// inherently sequential; all randomness lives in generator-owned state so
// that a fixed seed and configuration reproduce the stream byte for byte.
type Workload interface {
	Name() string

	// NextTransaction produces the next transaction and its profile. For
	// dependent transactions the generator inspects the previously returned
	// transaction, which the caller must have executed in the meantime.
	NextTransaction() (*txnpb.Transaction, TransactionProfile)

	// RefreshSunflower advances time-varying locality state. duration and
	// elapsed share a unit; generators that do not implement a sunflower
	// scenario ignore the call.
	RefreshSunflower(duration, elapsed int64)
}

type base struct {
	name   string
	params *properties.Properties
}

func (b *base) Name() string { return b.name }

func (b *base) RefreshSunflower(duration, elapsed int64) {}
