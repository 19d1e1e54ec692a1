package smallbank

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/storage"
	"github.com/delftdata/Gaia/txnpb"
)

func singlePartitionStore(t *testing.T, numClients int) *storage.MemStorage {
	t.Helper()
	store := storage.NewMemStorage()
	adapter := execution.NewLoaderStorageAdapter(store, NewMetadataInitializer(1, 1))
	LoadTables(adapter, numClients, 1, 1, 0, 1)
	return store
}

func setBalances(t *testing.T, store *storage.MemStorage, id, checking, savings int32) {
	t.Helper()
	adapter := execution.NewLoaderStorageAdapter(store, NewMetadataInitializer(1, 1))
	require.True(t, execution.NewTable(CheckingSchema, adapter).Update(
		[]execution.Scalar{execution.NewInt32Scalar(id)},
		[]int{ColCheckingBalance}, []execution.Scalar{execution.NewInt32Scalar(checking)}))
	require.True(t, execution.NewTable(SavingsSchema, adapter).Update(
		[]execution.Scalar{execution.NewInt32Scalar(id)},
		[]int{ColSavingsBalance}, []execution.Scalar{execution.NewInt32Scalar(savings)}))
}

func balances(t *testing.T, store *storage.MemStorage, id int32) (int32, int32) {
	t.Helper()
	adapter := execution.NewLoaderStorageAdapter(store, nil)
	c := execution.NewTable(CheckingSchema, adapter).Select(
		[]execution.Scalar{execution.NewInt32Scalar(id)}, ColCheckingBalance)
	s := execution.NewTable(SavingsSchema, adapter).Select(
		[]execution.Scalar{execution.NewInt32Scalar(id)}, ColSavingsBalance)
	require.Len(t, c, 1)
	require.Len(t, s, 1)
	return c[0].(*execution.Int32Scalar).Value, s[0].(*execution.Int32Scalar).Value
}

func keyGenTxn(build func(adapter execution.StorageAdapter)) *txnpb.Transaction {
	txn := &txnpb.Transaction{}
	adapter := execution.NewKeyGenStorageAdapter(txn, NewMetadataInitializer(1, 1))
	build(adapter)
	adapter.Finalize()
	return txn
}

func TestClientName(t *testing.T) {
	require.Equal(t, "Client0                 ", ClientName(0))
	require.Len(t, ClientName(123456), AccountNameLength)
}

func TestGetCustomerIdByName(t *testing.T) {
	store := singlePartitionStore(t, 50)
	exec := NewExecution(common.NewSmallBankSharder(1, 0), store)

	txn := keyGenTxn(func(adapter execution.StorageAdapter) {
		body := NewGetCustomerIdByNameTxn(adapter, ClientName(17))
		body.Read()
	})
	txn.AddProcedure("getCustomerIdByName", ClientName(17))

	exec.Execute(txn)
	require.Equal(t, txnpb.StatusCommitted, txn.Status)
	require.Len(t, txn.Keys, 1)
	// The id comes back little-endian in the value entry, which is what the
	// generator's dependent-transaction decoding relies on.
	require.Equal(t, []byte{17, 0, 0, 0}, txn.Keys[0].ValueEntry.Value)
}

func TestBalanceSecondPhase(t *testing.T) {
	store := singlePartitionStore(t, 50)
	setBalances(t, store, 17, 500, 300)

	txn := keyGenTxn(func(a execution.StorageAdapter) {
		body := NewBalanceTxn(a, ClientName(17), 17)
		body.Read()
		body.Write()
	})
	txn.AddProcedure("balance", ClientName(17), "17")

	// Run the body directly to observe the computed total.
	body := NewBalanceTxn(execution.NewTxnStorageAdapter(txn, store), ClientName(17), 17)
	require.True(t, execution.Execute(body))
	require.Equal(t, int32(800), body.TotalBalance.Value)

	// And through the dispatcher for the commit status.
	NewExecution(common.NewSmallBankSharder(1, 0), store).Execute(txn)
	require.Equal(t, txnpb.StatusCommitted, txn.Status)
}

func TestDepositChecking(t *testing.T) {
	store := singlePartitionStore(t, 50)
	setBalances(t, store, 3, 1000, 2000)

	txn := keyGenTxn(func(a execution.StorageAdapter) {
		body := NewDepositCheckingTxn(a, ClientName(3), 3, 250)
		body.Read()
		body.Write()
	})
	txn.AddProcedure("depositChecking", ClientName(3), "3", "250")

	NewExecution(common.NewSmallBankSharder(1, 0), store).Execute(txn)
	require.Equal(t, txnpb.StatusCommitted, txn.Status)
	checking, savings := balances(t, store, 3)
	require.Equal(t, int32(1250), checking)
	require.Equal(t, int32(2000), savings)
}

func TestWritecheckPenalty(t *testing.T) {
	store := singlePartitionStore(t, 50)
	exec := NewExecution(common.NewSmallBankSharder(1, 0), store)

	// Covered check: checking 500 + savings 300 >= 700.
	setBalances(t, store, 5, 500, 300)
	txn := keyGenTxn(func(a execution.StorageAdapter) {
		body := NewWritecheckTxn(a, ClientName(5), 5, 700)
		body.Read()
		body.Write()
	})
	txn.AddProcedure("writecheck", ClientName(5), "5", "700")
	exec.Execute(txn)
	require.Equal(t, txnpb.StatusCommitted, txn.Status)
	checking, _ := balances(t, store, 5)
	require.Equal(t, int32(-200), checking)

	// Uncovered check pays the one-unit penalty.
	setBalances(t, store, 6, 500, 100)
	txn = keyGenTxn(func(a execution.StorageAdapter) {
		body := NewWritecheckTxn(a, ClientName(6), 6, 700)
		body.Read()
		body.Write()
	})
	txn.AddProcedure("writecheck", ClientName(6), "6", "700")
	exec.Execute(txn)
	require.Equal(t, txnpb.StatusCommitted, txn.Status)
	checking, _ = balances(t, store, 6)
	require.Equal(t, int32(500-701), checking)
}

// Amalgamate pins the deployed write-back: the first customer's checking
// ends at zero through the zeroed savings slot, the first customer's savings
// receives the zeroed second-savings slot, and the second customer's
// checking absorbs checking[first] + savings[first] + savings[second].
func TestAmalgamateDeployedSemantics(t *testing.T) {
	store := singlePartitionStore(t, 50)
	setBalances(t, store, 1, 100, 200)
	setBalances(t, store, 2, 1000, 50)

	txn := keyGenTxn(func(a execution.StorageAdapter) {
		body := NewAmalgamateTxn(a, ClientName(1), ClientName(2), 1, 2)
		body.Read()
		body.Write()
	})
	txn.AddProcedure("amalgamate", ClientName(1), ClientName(2), "1", "2")

	NewExecution(common.NewSmallBankSharder(1, 0), store).Execute(txn)
	require.Equal(t, txnpb.StatusCommitted, txn.Status)

	checking1, savings1 := balances(t, store, 1)
	checking2, savings2 := balances(t, store, 2)
	require.Equal(t, int32(0), checking1)
	require.Equal(t, int32(0), savings1)
	// 100 + 200 + savings[2]=50.
	require.Equal(t, int32(350), checking2)
	// The second customer's savings row is read but never written.
	require.Equal(t, int32(50), savings2)
}

func TestMissingAccountAborts(t *testing.T) {
	store := singlePartitionStore(t, 10)

	txn := keyGenTxn(func(a execution.StorageAdapter) {
		body := NewGetCustomerIdByNameTxn(a, ClientName(9999))
		body.Read()
	})
	txn.AddProcedure("getCustomerIdByName", ClientName(9999))

	NewExecution(common.NewSmallBankSharder(1, 0), store).Execute(txn)
	require.Equal(t, txnpb.StatusAborted, txn.Status)
	require.Contains(t, txn.AbortReason, "There is no account associated with this name")
}

// Loading with different worker counts must produce identical contents.
func TestLoaderThreadCountInvariance(t *testing.T) {
	build := func(threads int) *storage.MemStorage {
		store := storage.NewMemStorage()
		adapter := execution.NewLoaderStorageAdapter(store, NewMetadataInitializer(2, 2))
		LoadTables(adapter, 64, 2, 2, 0, threads)
		return store
	}
	one := build(1)
	four := build(4)
	require.Equal(t, one.Len(), four.Len())

	adapterOne := execution.NewLoaderStorageAdapter(one, nil)
	adapterFour := execution.NewLoaderStorageAdapter(four, nil)
	for id := 0; id < 64; id++ {
		pk := []execution.Scalar{execution.NewInt32Scalar(int32(id))}
		rowOne := execution.NewTable(CheckingSchema, adapterOne).Select(pk)
		rowFour := execution.NewTable(CheckingSchema, adapterFour).Select(pk)
		require.Equal(t, rowOne == nil, rowFour == nil, "id %d presence", id)
		if rowOne != nil {
			require.Equal(t, rowOne[0].(*execution.Int32Scalar).Value,
				rowFour[0].(*execution.Int32Scalar).Value, "id %d balance", id)
		}
	}
}

func TestLoaderPartitionFilter(t *testing.T) {
	store := storage.NewMemStorage()
	adapter := execution.NewLoaderStorageAdapter(store, NewMetadataInitializer(2, 2))
	LoadTables(adapter, 64, 2, 2, 0, 2)

	sharder := common.NewSmallBankSharder(2, 0)
	tbl := execution.NewTable(AccountsSchema, nil)
	for id := 0; id < 64; id++ {
		key := tbl.EncodeKey([]execution.Scalar{execution.NewFixedTextScalar(AccountNameLength, ClientName(id))})
		_, present := store.Read(key)
		require.Equal(t, sharder.ComputePartition(key) == 0, present, "account %d", id)
	}
}
