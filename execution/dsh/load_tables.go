package dsh

import (
	"math/rand"
	"strconv"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/delftdata/Gaia/execution"
)

// LoadTablesParams sizes one DSH loader run.
type LoadTablesParams struct {
	NumPartitions  int
	LocalPartition int
	NumRegions     int
	NumUsers       int
	NumHotels      int
	MaxCoord       float64
	Seed           int64
}

// LoadTables populates users and hotels for the local partition.
// Reservations and counts start empty; they are only ever created by
// ReservationTxn.
func LoadTables(adapter execution.StorageAdapter, p LoadTablesParams) {
	l := &partitionedLoader{LoadTablesParams: p, adapter: adapter, rg: rand.New(rand.NewSource(p.Seed))}
	l.loadUsers()
	l.loadHotels()
}

type partitionedLoader struct {
	LoadTablesParams
	adapter execution.StorageAdapter
	rg      *rand.Rand
}

func (l *partitionedLoader) loadUsers() {
	log.Info("generating users",
		zap.Int("count", l.NumUsers/l.NumPartitions), zap.Int("partition", l.LocalPartition))
	users := execution.NewTable(UserSchema, l.adapter)
	for i := l.LocalPartition; i < l.NumUsers; i += l.NumPartitions {
		id := strconv.Itoa(i)
		users.Insert([]execution.Scalar{
			execution.NewFixedTextScalar(usernameLength, FormatUname(id)),
			execution.NewVarTextScalar(passwordMax, id),
		})
	}
}

func (l *partitionedLoader) loadHotels() {
	log.Info("generating hotels",
		zap.Int("count", l.NumHotels/l.NumPartitions), zap.Int("partition", l.LocalPartition))
	hotels := execution.NewTable(HotelSchema, l.adapter)
	for i := l.LocalPartition; i < l.NumHotels; i += l.NumPartitions {
		// Attributes are derived from a per-hotel stream so the content does
		// not depend on how the id space is iterated.
		rg := rand.New(rand.NewSource(l.Seed + int64(i)))
		hotels.Insert([]execution.Scalar{
			execution.NewInt32Scalar(int32(i)),
			execution.NewFloat64Scalar(rg.Float64() * l.MaxCoord),
			execution.NewFloat64Scalar(rg.Float64() * l.MaxCoord),
			execution.NewFloat64Scalar(rg.Float64() * 5.0),
			execution.NewFloat64Scalar(rg.Float64() * MaxHotelPrice),
			execution.NewInt32Scalar(int32(MinHotelCapacity + rg.Intn(MaxHotelCapacity-MinHotelCapacity+1))),
		})
	}
}
