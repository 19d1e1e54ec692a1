package storage

import (
	"bytes"
	"sync"

	"github.com/google/btree"

	"github.com/delftdata/Gaia/common"
)

const btreeDegree = 32

type memItem struct {
	key    []byte
	record Record
}

func (a memItem) Less(b memItem) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// MemStorage is an ordered in-memory store. Tables are read-mostly after
// bootstrap; during request serving each key is serialized by the external
// lock manager, so a single tree behind one RWMutex is enough.
type MemStorage struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[memItem]
}

func NewMemStorage() *MemStorage {
	return &MemStorage{tree: btree.NewG[memItem](btreeDegree, memItem.Less)}
}

func (s *MemStorage) Read(key common.Key) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.tree.Get(memItem{key: key})
	if !ok {
		return Record{}, false
	}
	return item.record, true
}

func (s *MemStorage) Write(key common.Key, record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := make([]byte, len(key))
	copy(k, key)
	s.tree.ReplaceOrInsert(memItem{key: k, record: record})
}

func (s *MemStorage) Delete(key common.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tree.Delete(memItem{key: key})
	return ok
}

// Len reports the number of stored records.
func (s *MemStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}
