package execution

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/storage"
	"github.com/delftdata/Gaia/txnpb"
)

type modInitializer struct {
	numRegions uint32
}

func (m modInitializer) Compute(key common.Key) storage.Metadata {
	return storage.Metadata{Master: uint32(key[0]) % m.numRegions}
}

func TestKeyGenAdapterRecordsInOrder(t *testing.T) {
	txn := &txnpb.Transaction{}
	adapter := NewKeyGenStorageAdapter(txn, modInitializer{numRegions: 3})

	_, ok := adapter.Read(common.Key{10})
	require.True(t, ok)
	adapter.Read(common.Key{11})
	adapter.Update(common.Key{12}, nil)
	// Re-reading an already written key keeps it a write.
	adapter.Read(common.Key{12})
	// Writing a previously read key upgrades it in place.
	adapter.Update(common.Key{10}, nil)

	require.Empty(t, txn.Keys)
	adapter.Finalize()
	require.Len(t, txn.Keys, 3)

	require.Equal(t, []byte{10}, txn.Keys[0].Key)
	require.Equal(t, txnpb.KeyWrite, txn.Keys[0].Type)
	require.Equal(t, []byte{11}, txn.Keys[1].Key)
	require.Equal(t, txnpb.KeyRead, txn.Keys[1].Type)
	require.Equal(t, []byte{12}, txn.Keys[2].Key)
	require.Equal(t, txnpb.KeyWrite, txn.Keys[2].Type)

	// Home hints come from the metadata initializer.
	require.Equal(t, int32(1), txn.Keys[0].Home)
	require.Equal(t, int32(2), txn.Keys[1].Home)
	require.Equal(t, int32(0), txn.Keys[2].Home)

	// Finalize is idempotent.
	adapter.Finalize()
	require.Len(t, txn.Keys, 3)
}

func TestTxnAdapterRestrictsToDeclaredKeys(t *testing.T) {
	store := storage.NewMemStorage()
	store.Write(common.Key{1}, storage.Record{Value: []byte{42}})
	store.Write(common.Key{9}, storage.Record{Value: []byte{9}})

	txn := &txnpb.Transaction{Keys: []*txnpb.KeyEntry{
		{Key: []byte{1}, Type: txnpb.KeyRead},
		{Key: []byte{2}, Type: txnpb.KeyWrite, Home: 1},
	}}
	adapter := NewTxnStorageAdapter(txn, store)

	val, ok := adapter.Read(common.Key{1})
	require.True(t, ok)
	require.Equal(t, []byte{42}, val)
	// The read value lands in the transaction for the response path.
	require.Equal(t, []byte{42}, txn.Keys[0].ValueEntry.Value)

	// Keys outside the declared set are rejected.
	_, ok = adapter.Read(common.Key{9})
	require.False(t, ok)
	require.False(t, adapter.Insert(common.Key{9}, []byte{1}))

	// Writes only go to WRITE-typed entries.
	require.False(t, adapter.Update(common.Key{1}, []byte{5}))
	require.True(t, adapter.Insert(common.Key{2}, []byte{7}))
	require.Equal(t, []byte{7}, txn.Keys[1].ValueEntry.Value)
}

type byteSharder struct{ p, local uint32 }

func (s byteSharder) ComputePartition(key common.Key) uint32 { return uint32(key[0]) % s.p }
func (s byteSharder) IsLocalKey(key common.Key) bool         { return s.ComputePartition(key) == s.local }
func (s byteSharder) NumPartitions() uint32                  { return s.p }
func (s byteSharder) LocalPartition() uint32                 { return s.local }

func TestApplyWritesLocality(t *testing.T) {
	store := storage.NewMemStorage()
	txn := &txnpb.Transaction{Keys: []*txnpb.KeyEntry{
		{Key: []byte{2}, Type: txnpb.KeyWrite, Home: 1, ValueEntry: txnpb.ValueEntry{Value: []byte{20}}},
		{Key: []byte{3}, Type: txnpb.KeyWrite, ValueEntry: txnpb.ValueEntry{Value: []byte{30}}},
		{Key: []byte{4}, Type: txnpb.KeyRead, ValueEntry: txnpb.ValueEntry{Value: []byte{40}}},
		{Key: []byte{6}, Type: txnpb.KeyWrite},
	}}

	ApplyWrites(txn, byteSharder{p: 2, local: 0}, store)

	// Local write applied, with the home hint as fresh metadata.
	rec, ok := store.Read(common.Key{2})
	require.True(t, ok)
	require.Equal(t, []byte{20}, rec.Value)
	require.Equal(t, uint32(1), rec.Metadata.Master)

	// Remote write, read entry, and unwritten write entry are not applied.
	_, ok = store.Read(common.Key{3})
	require.False(t, ok)
	_, ok = store.Read(common.Key{4})
	require.False(t, ok)
	_, ok = store.Read(common.Key{6})
	require.False(t, ok)

	// Applying over an existing record keeps its metadata.
	store.Write(common.Key{2}, storage.Record{Value: []byte{1}, Metadata: storage.Metadata{Master: 2, Counter: 5}})
	ApplyWrites(txn, byteSharder{p: 2, local: 0}, store)
	rec, _ = store.Read(common.Key{2})
	require.Equal(t, []byte{20}, rec.Value)
	require.Equal(t, uint32(2), rec.Metadata.Master)
	require.Equal(t, uint32(5), rec.Metadata.Counter)
}

type phaseTxn struct {
	BaseTxn
	readOK   bool
	computed bool
	wrote    bool
}

func (p *phaseTxn) Read() bool {
	if !p.readOK {
		p.SetError("read failed")
	}
	return p.readOK
}
func (p *phaseTxn) Compute()    { p.computed = true }
func (p *phaseTxn) Write() bool { p.wrote = true; return true }

func TestExecuteSkipsPhasesAfterFailedRead(t *testing.T) {
	failing := &phaseTxn{readOK: false}
	require.False(t, Execute(failing))
	require.False(t, failing.computed)
	require.False(t, failing.wrote)
	require.Equal(t, "read failed", failing.Error())

	passing := &phaseTxn{readOK: true}
	require.True(t, Execute(passing))
	require.True(t, passing.computed)
	require.True(t, passing.wrote)
}

func TestSetErrorIsSticky(t *testing.T) {
	var b BaseTxn
	b.SetError("A")
	b.SetError("B")
	require.Equal(t, "A", b.Error())
}
