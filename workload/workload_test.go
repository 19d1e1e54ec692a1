package workload

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/config"
	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/execution/dsh"
	"github.com/delftdata/Gaia/execution/movie"
	"github.com/delftdata/Gaia/execution/pps"
	"github.com/delftdata/Gaia/execution/smallbank"
	"github.com/delftdata/Gaia/storage"
	"github.com/delftdata/Gaia/txnpb"
)

func ppsConfig(numPartitions, numRegions uint32) *config.Config {
	cfg := config.NewTestConfig()
	cfg.Partitioning = config.PPSPartitioning
	cfg.NumPartitions = numPartitions
	cfg.NumRegions = numRegions
	cfg.NumReplicas = 1
	cfg.PPS = config.PPSSizing{
		Products:  16 * int(numPartitions) * int(numRegions),
		Parts:     16 * int(numPartitions) * int(numRegions),
		Suppliers: 2 * int(numPartitions),
	}
	return cfg
}

func loadPPS(cfg *config.Config, store *storage.MemStorage) {
	for p := uint32(0); p < cfg.NumPartitions; p++ {
		adapter := execution.NewLoaderStorageAdapter(store,
			pps.NewMetadataInitializer(cfg.NumRegions, cfg.NumPartitions))
		pps.LoadTables(adapter, pps.LoadTablesParams{
			NumProducts:    cfg.PPS.Products,
			NumParts:       cfg.PPS.Parts,
			NumSuppliers:   cfg.PPS.Suppliers,
			NumRegions:     int(cfg.NumRegions),
			NumPartitions:  int(cfg.NumPartitions),
			LocalPartition: int(p),
			MaxRegions:     int(cfg.NumRegions),
			MaxPartitions:  int(cfg.NumPartitions),
			Seed:           int64(p),
		})
	}
}

func serialize(t *testing.T, txn *txnpb.Transaction) string {
	t.Helper()
	b, err := json.Marshal(txn)
	require.NoError(t, err)
	return string(b)
}

func TestPPSOrderProductDependentFlow(t *testing.T) {
	cfg := ppsConfig(1, 1)
	store := storage.NewMemStorage()
	loadPPS(cfg, store)
	exec := pps.NewExecution(common.NewPPSSharder(1, 0), store)

	w, err := NewPPSWorkload(cfg, 0, 0, "mix=100:0:0:0:0", 42)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		txn, pro := w.NextTransaction()
		require.Equal(t, common.TxnId(i), txn.Internal.ID)

		exec.Execute(txn)
		require.Equal(t, txnpb.StatusCommitted, txn.Status, "txn %d: %s", i, txn.AbortReason)

		if i%2 == 0 {
			require.Equal(t, DependencyFirstPhase, pro.DependencyType)
			require.Equal(t, "get_parts_by_product", txn.Code.Procedures[0].Args[0])
		} else {
			require.Equal(t, DependencySecondPhase, pro.DependencyType)
			require.Equal(t, "order_product", txn.Code.Procedures[0].Args[0])
			// The phase-two args carry the part ids phase one returned.
			require.Len(t, txn.Code.Procedures[0].Args, 2+pps.PartsPerProduct)
		}
	}
}

func TestPPSWorkloadDeterminism(t *testing.T) {
	run := func() []string {
		cfg := ppsConfig(1, 1)
		store := storage.NewMemStorage()
		loadPPS(cfg, store)
		exec := pps.NewExecution(common.NewPPSSharder(1, 0), store)
		w, err := NewPPSWorkload(cfg, 0, 0, "mix=50:20:10:10:10", 7)
		require.NoError(t, err)

		var stream []string
		for i := 0; i < 30; i++ {
			txn, _ := w.NextTransaction()
			stream = append(stream, serialize(t, txn))
			exec.Execute(txn)
		}
		return stream
	}
	require.Equal(t, run(), run())
}

func TestPPSProfileAccuracy(t *testing.T) {
	cfg := ppsConfig(2, 2)
	store := storage.NewMemStorage()
	loadPPS(cfg, store)
	exec := pps.NewExecution(common.NewPPSSharder(2, 0), store)
	sharder := common.NewPPSSharder(2, 0)
	init := pps.NewMetadataInitializer(2, 2)

	w, err := NewPPSWorkload(cfg, 0, 0, "mix=100:0:0:0:0,mh=0,mp=0", 13)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		txn, pro := w.NextTransaction()
		exec.Execute(txn)
		require.Equal(t, txnpb.StatusCommitted, txn.Status, "txn %d: %s", i, txn.AbortReason)

		require.False(t, pro.IsMultiHome)
		require.False(t, pro.IsMultiPartition)
		require.NotEmpty(t, txn.Keys)
		firstHome := txn.Keys[0].Home
		firstPartition := sharder.ComputePartition(txn.Keys[0].Key)
		for _, entry := range txn.Keys {
			require.Equal(t, firstHome, entry.Home)
			require.Equal(t, int32(init.Compute(entry.Key).Master), entry.Home)
			require.Equal(t, firstPartition, sharder.ComputePartition(entry.Key))
		}
	}
}

func smallbankConfig() *config.Config {
	cfg := config.NewTestConfig()
	cfg.Partitioning = config.SmallBankPartitioning
	cfg.NumPartitions = 1
	cfg.NumRegions = 1
	cfg.NumReplicas = 1
	cfg.SmallBank = config.SmallBankSizing{Clients: 50}
	return cfg
}

func TestSmallBankTwoPhaseFlow(t *testing.T) {
	cfg := smallbankConfig()
	store := storage.NewMemStorage()
	adapter := execution.NewLoaderStorageAdapter(store, smallbank.NewMetadataInitializer(1, 1))
	smallbank.LoadTables(adapter, cfg.SmallBank.Clients, 1, 1, 0, 2)
	exec := smallbank.NewExecution(common.NewSmallBankSharder(1, 0), store)

	w, err := NewSmallBankWorkload(cfg, 0, 0, "mh=0,mp=0,mix=100:0:0:0:0", 99)
	require.NoError(t, err)

	phase1, pro1 := w.NextTransaction()
	require.Equal(t, DependencyFirstPhase, pro1.DependencyType)
	require.Equal(t, TxnBalance, pro1.TransactionType)
	require.Equal(t, "getCustomerIdByName", phase1.Code.Procedures[0].Args[0])

	exec.Execute(phase1)
	require.Equal(t, txnpb.StatusCommitted, phase1.Status, phase1.AbortReason)
	w.OnExecuted(phase1, pro1)

	phase2, pro2 := w.NextTransaction()
	require.Equal(t, DependencySecondPhase, pro2.DependencyType)
	args := phase2.Code.Procedures[0].Args
	require.Equal(t, "balance", args[0])
	// The name in phase two is the one the returned id maps to.
	id, err := strconv.Atoi(args[2])
	require.NoError(t, err)
	require.Equal(t, smallbank.ClientName(id), args[1])

	exec.Execute(phase2)
	require.Equal(t, txnpb.StatusCommitted, phase2.Status, phase2.AbortReason)
}

func TestSmallBankAmalgamateThreePhaseFlow(t *testing.T) {
	cfg := smallbankConfig()
	store := storage.NewMemStorage()
	adapter := execution.NewLoaderStorageAdapter(store, smallbank.NewMetadataInitializer(1, 1))
	smallbank.LoadTables(adapter, cfg.SmallBank.Clients, 1, 1, 0, 2)
	exec := smallbank.NewExecution(common.NewSmallBankSharder(1, 0), store)

	w, err := NewSmallBankWorkload(cfg, 0, 0, "mh=0,mp=0,mix=0:0:0:100:0", 5)
	require.NoError(t, err)

	src, proSrc := w.NextTransaction()
	require.Equal(t, DependencyFirstPhase, proSrc.DependencyType)
	require.Equal(t, TxnAmalgamate, proSrc.TransactionType)
	exec.Execute(src)
	require.Equal(t, txnpb.StatusCommitted, src.Status, src.AbortReason)
	w.OnExecuted(src, proSrc)

	dst, proDst := w.NextTransaction()
	require.Equal(t, DependencyFirstPhase, proDst.DependencyType)
	require.Equal(t, TxnAmalgamate, proDst.TransactionType)
	require.Equal(t, "getCustomerIdByName", dst.Code.Procedures[0].Args[0])
	require.NotEqual(t, src.Code.Procedures[0].Args[1], dst.Code.Procedures[0].Args[1])
	exec.Execute(dst)
	require.Equal(t, txnpb.StatusCommitted, dst.Status, dst.AbortReason)
	w.OnExecuted(dst, proDst)

	final, proFinal := w.NextTransaction()
	require.Equal(t, DependencySecondPhase, proFinal.DependencyType)
	require.Equal(t, "amalgamate", final.Code.Procedures[0].Args[0])
	exec.Execute(final)
	require.Equal(t, txnpb.StatusCommitted, final.Status, final.AbortReason)

	// The chain is drained: the next transaction starts a fresh one.
	next, proNext := w.NextTransaction()
	require.Equal(t, DependencyFirstPhase, proNext.DependencyType)
	require.Equal(t, "getCustomerIdByName", next.Code.Procedures[0].Args[0])
}

func dshConfig(numPartitions, numRegions uint32) *config.Config {
	cfg := config.NewTestConfig()
	cfg.Partitioning = config.DSHPartitioning
	cfg.NumPartitions = numPartitions
	cfg.NumRegions = numRegions
	cfg.NumReplicas = 1
	cfg.DSH = config.DSHSizing{NumUsers: 200, NumHotels: 120, MaxCoord: 100}
	return cfg
}

func TestDSHWorkloadProfileAccuracy(t *testing.T) {
	cfg := dshConfig(2, 2)
	w, err := NewDSHWorkload(cfg, 0, 0, "", 21)
	require.NoError(t, err)

	sharder := common.NewDSHSharder(2, 0)
	init := dsh.NewMetadataInitializer(2, 2)

	for i := 0; i < 100; i++ {
		txn, pro := w.NextTransaction()
		require.NotEmpty(t, txn.Keys)
		if !pro.IsMultiHome && !pro.IsForeignSingleHome {
			first := txn.Keys[0].Home
			for _, entry := range txn.Keys {
				require.Equal(t, first, entry.Home, "txn %d", i)
				require.Equal(t, int32(init.Compute(entry.Key).Master), entry.Home)
			}
		}
		if !pro.IsMultiPartition {
			first := sharder.ComputePartition(txn.Keys[0].Key)
			for _, entry := range txn.Keys {
				require.Equal(t, first, sharder.ComputePartition(entry.Key), "txn %d", i)
			}
		}
	}
}

func TestDSHWorkloadDeterminism(t *testing.T) {
	run := func() []string {
		cfg := dshConfig(2, 2)
		w, err := NewDSHWorkload(cfg, 0, 0, "hot=0.1,hot_chance=0.3", 3)
		require.NoError(t, err)
		var stream []string
		for i := 0; i < 40; i++ {
			txn, _ := w.NextTransaction()
			stream = append(stream, serialize(t, txn))
		}
		return stream
	}
	require.Equal(t, run(), run())
}

func movieConfig(numPartitions, numRegions uint32) *config.Config {
	cfg := config.NewTestConfig()
	cfg.Partitioning = config.MoviePartitioning
	cfg.NumPartitions = numPartitions
	cfg.NumRegions = numRegions
	cfg.NumReplicas = 1
	return cfg
}

func TestMovieWorkloadProfileAccuracy(t *testing.T) {
	cfg := movieConfig(2, 2)
	w, err := NewMovieWorkload(cfg, 0, 0, "", 11)
	require.NoError(t, err)

	init := movie.NewMetadataInitializer(2, 2)
	for i := 0; i < 50; i++ {
		txn, pro := w.NextTransaction()
		require.Equal(t, "new_review", txn.Code.Procedures[0].Args[0])
		require.NotEmpty(t, txn.Keys)
		if !pro.IsMultiHome {
			first := txn.Keys[0].Home
			for _, entry := range txn.Keys {
				require.Equal(t, first, entry.Home, "txn %d", i)
				require.Equal(t, int32(init.Compute(entry.Key).Master), entry.Home)
			}
		}
	}
}
