package execution

import (
	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/storage"
	"github.com/delftdata/Gaia/txnpb"
)

// StorageAdapter is the capability set transaction bodies are written
// against. The same body runs twice: once under a KeyGen adapter to discover
// its key set, once under a Txn adapter to actually execute.
type StorageAdapter interface {
	Read(key common.Key) ([]byte, bool)
	Insert(key common.Key, value []byte) bool
	Update(key common.Key, value []byte) bool
	Delete(key common.Key) bool
}

// KeyGenStorageAdapter records every touched key instead of going to
// storage. Reads succeed with an empty buffer (the table layer serves
// placeholder cells) so that bodies run to completion and the recorded key
// set is a superset of what real execution will touch.
type KeyGenStorageAdapter struct {
	txn          *txnpb.Transaction
	metadataInit storage.MetadataInitializer
	order        []string
	types        map[string]txnpb.KeyType
	finalized    bool
}

// NewKeyGenStorageAdapter wraps txn. metadataInit may be nil, in which case
// home hints stay zero and are assigned server side.
func NewKeyGenStorageAdapter(txn *txnpb.Transaction, metadataInit storage.MetadataInitializer) *KeyGenStorageAdapter {
	return &KeyGenStorageAdapter{
		txn:          txn,
		metadataInit: metadataInit,
		types:        make(map[string]txnpb.KeyType),
	}
}

func (a *KeyGenStorageAdapter) record(key common.Key, t txnpb.KeyType) {
	k := string(key)
	cur, seen := a.types[k]
	if !seen {
		a.order = append(a.order, k)
		a.types[k] = t
		return
	}
	// A write never downgrades to a read.
	if cur == txnpb.KeyRead && t == txnpb.KeyWrite {
		a.types[k] = txnpb.KeyWrite
	}
}

func (a *KeyGenStorageAdapter) Read(key common.Key) ([]byte, bool) {
	a.record(key, txnpb.KeyRead)
	return nil, true
}

func (a *KeyGenStorageAdapter) Insert(key common.Key, value []byte) bool {
	a.record(key, txnpb.KeyWrite)
	return true
}

func (a *KeyGenStorageAdapter) Update(key common.Key, value []byte) bool {
	a.record(key, txnpb.KeyWrite)
	return true
}

func (a *KeyGenStorageAdapter) Delete(key common.Key) bool {
	a.record(key, txnpb.KeyWrite)
	return true
}

// Finalize stamps the collected key set onto the transaction in first-touch
// order and assigns home hints through the metadata initializer.
func (a *KeyGenStorageAdapter) Finalize() {
	if a.finalized {
		return
	}
	a.finalized = true
	for _, k := range a.order {
		entry := &txnpb.KeyEntry{
			Key:  []byte(k),
			Type: a.types[k],
		}
		if a.metadataInit != nil {
			entry.Home = int32(a.metadataInit.Compute(common.Key(k)).Master)
		}
		a.txn.Keys = append(a.txn.Keys, entry)
	}
}

// TxnStorageAdapter executes against real storage. Reads are restricted to
// the transaction's declared key set; read values and staged writes land in
// the transaction's value entries, which ApplyWrites later pushes into
// storage for local rows. A key outside the declared set fails the
// operation: the KeyGen pass must have recorded a superset or the scheduler
// would have starved the execution of locks.
type TxnStorageAdapter struct {
	txn   *txnpb.Transaction
	store storage.Storage
	index map[string]int
}

func NewTxnStorageAdapter(txn *txnpb.Transaction, store storage.Storage) *TxnStorageAdapter {
	index := make(map[string]int, len(txn.Keys))
	for i, e := range txn.Keys {
		index[string(e.Key)] = i
	}
	return &TxnStorageAdapter{txn: txn, store: store, index: index}
}

func (a *TxnStorageAdapter) Read(key common.Key) ([]byte, bool) {
	i, ok := a.index[string(key)]
	if !ok {
		return nil, false
	}
	rec, ok := a.store.Read(key)
	if !ok {
		return nil, false
	}
	a.txn.Keys[i].ValueEntry.Value = rec.Value
	return rec.Value, true
}

func (a *TxnStorageAdapter) stageWrite(key common.Key, value []byte) bool {
	i, ok := a.index[string(key)]
	if !ok || a.txn.Keys[i].Type != txnpb.KeyWrite {
		return false
	}
	a.txn.Keys[i].ValueEntry.Value = value
	return true
}

func (a *TxnStorageAdapter) Insert(key common.Key, value []byte) bool {
	return a.stageWrite(key, value)
}

func (a *TxnStorageAdapter) Update(key common.Key, value []byte) bool {
	return a.stageWrite(key, value)
}

func (a *TxnStorageAdapter) Delete(key common.Key) bool {
	i, ok := a.index[string(key)]
	if !ok || a.txn.Keys[i].Type != txnpb.KeyWrite {
		return false
	}
	return a.store.Delete(key)
}

// ApplyWrites installs the staged writes of a finished transaction into
// storage. Only rows whose partition equals the sharder's local partition
// are applied; the metadata of pre-existing records is preserved, new
// records inherit the entry's home hint.
func ApplyWrites(txn *txnpb.Transaction, sharder common.Sharder, store storage.Storage) {
	for _, e := range txn.Keys {
		if e.Type != txnpb.KeyWrite || e.ValueEntry.Value == nil {
			continue
		}
		if !sharder.IsLocalKey(e.Key) {
			continue
		}
		meta := storage.Metadata{Master: common.RegionId(e.Home)}
		if rec, ok := store.Read(e.Key); ok {
			meta = rec.Metadata
		}
		store.Write(e.Key, storage.Record{Value: e.ValueEntry.Value, Metadata: meta})
	}
}

// LoaderStorageAdapter writes directly to storage, stamping placement
// metadata through the family's metadata initializer. Used at bootstrap.
type LoaderStorageAdapter struct {
	store        storage.Storage
	metadataInit storage.MetadataInitializer
}

func NewLoaderStorageAdapter(store storage.Storage, metadataInit storage.MetadataInitializer) *LoaderStorageAdapter {
	return &LoaderStorageAdapter{store: store, metadataInit: metadataInit}
}

func (a *LoaderStorageAdapter) Read(key common.Key) ([]byte, bool) {
	rec, ok := a.store.Read(key)
	if !ok {
		return nil, false
	}
	return rec.Value, true
}

func (a *LoaderStorageAdapter) Insert(key common.Key, value []byte) bool {
	var meta storage.Metadata
	if a.metadataInit != nil {
		meta = a.metadataInit.Compute(key)
	}
	a.store.Write(key, storage.Record{Value: value, Metadata: meta})
	return true
}

func (a *LoaderStorageAdapter) Update(key common.Key, value []byte) bool {
	rec, ok := a.store.Read(key)
	if !ok {
		return false
	}
	rec.Value = value
	a.store.Write(key, rec)
	return true
}

func (a *LoaderStorageAdapter) Delete(key common.Key) bool {
	return a.store.Delete(key)
}
