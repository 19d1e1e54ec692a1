package smallbank

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/execution"
)

// ClientName formats the fixed-width account name of a client id.
func ClientName(id int) string {
	name := fmt.Sprintf("Client%-*d", AccountNameLength-len("Client"), id)
	return name
}

// LoadTables populates accounts, checking and savings for the local
// partition. The id space is sharded over numThreads workers with disjoint
// ranges; ranges do not overlap, so the final state is independent of the
// worker count.
func LoadTables(adapter execution.StorageAdapter, numClients, numRegions, numPartitions, partition, numThreads int) {
	log.Info("generating accounts",
		zap.Int("count", numClients/numPartitions), zap.Int("threads", numThreads))

	numDone := atomic.NewInt32(0)
	var wg sync.WaitGroup
	rangeSize := numClients/numThreads + 1
	for i := 0; i < numThreads; i++ {
		rangeStart := i * rangeSize
		rangeEnd := (i + 1) * rangeSize
		if rangeEnd > numClients {
			rangeEnd = numClients
		}
		wg.Add(1)
		go func(from, to, seed int) {
			defer wg.Done()
			loader := partitionedLoader{
				adapter:       adapter,
				from:          from,
				to:            to,
				seed:          seed,
				partition:     partition,
				numPartitions: numPartitions,
				numRegions:    numRegions,
			}
			loader.load()
			numDone.Inc()
		}(rangeStart, rangeEnd, i)
	}
	for numDone.Load() < int32(numThreads) {
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()
}

type partitionedLoader struct {
	adapter execution.StorageAdapter

	from, to      int
	seed          int
	partition     int
	numPartitions int
	numRegions    int
}

func (l *partitionedLoader) load() {
	accounts := execution.NewTable(AccountsSchema, l.adapter)
	checkings := execution.NewTable(CheckingSchema, l.adapter)
	savings := execution.NewTable(SavingsSchema, l.adapter)

	// Balances are derived from the id alone so that reloading with a
	// different thread count cannot change the data.
	balance := func(id, stream int64) int32 {
		r := rand.New(rand.NewSource(id*2 + stream))
		return int32(r.Intn(9901) + 100)
	}

	for id := l.from; id < l.to; id++ {
		clientName := ClientName(id)
		hash := common.MurmurHash3(clientName)

		if int(hash)%l.numPartitions == l.partition {
			accounts.Insert([]execution.Scalar{
				accountNameScalar(clientName),
				execution.NewInt32Scalar(int32(id)),
			})
		}
		if id%l.numPartitions == l.partition {
			checkings.Insert([]execution.Scalar{
				execution.NewInt32Scalar(int32(id)),
				execution.NewInt32Scalar(balance(int64(id), 0)),
			})
			savings.Insert([]execution.Scalar{
				execution.NewInt32Scalar(int32(id)),
				execution.NewInt32Scalar(balance(int64(id), 1)),
			})
		}
	}
}
