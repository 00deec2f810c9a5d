package memory_driver

import (
	"bytes"
	"sync"

	"github.com/tidwall/btree"

	"github.com/meverselabs/metamart/core/backend"
)

const btreeDegrees = 64

func init() {
	backend.RegisterDriver("memory", NewStoreBackendMemory)
}

// StoreBackendMemory keeps every item in an ordered tree, nothing survives Close
type StoreBackendMemory struct {
	sync.RWMutex
	keys   *btree.BTree
	closed bool
}

// NewStoreBackendMemory ignores the path
func NewStoreBackendMemory(path string) (backend.StoreBackend, error) {
	st := &StoreBackendMemory{
		keys: btree.New(btreeDegrees, nil),
	}
	return st, nil
}

func (st *StoreBackendMemory) Shrink() {
}

func (st *StoreBackendMemory) Close() {
	st.Lock()
	defer st.Unlock()

	st.closed = true
	st.keys = btree.New(btreeDegrees, nil)
}

func (st *StoreBackendMemory) View(fn func(txn backend.StoreReader) error) error {
	st.RLock()
	defer st.RUnlock()

	if st.closed {
		return backend.ErrStoreClosed
	}
	return fn(&storeBackendMemoryTx{st: st})
}

func (st *StoreBackendMemory) Update(fn func(txn backend.StoreWriter) error) error {
	st.Lock()
	defer st.Unlock()

	if st.closed {
		return backend.ErrStoreClosed
	}
	tx := &storeBackendMemoryTx{st: st}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type memItem struct {
	key   []byte
	value []byte
}

func (it *memItem) Less(than btree.Item, ctx interface{}) bool {
	return bytes.Compare(it.key, than.(*memItem).key) < 0
}

// undo holds the previous state of a key, prev is nil when the key did not exist
type undo struct {
	key  []byte
	prev *memItem
}

type storeBackendMemoryTx struct {
	st    *StoreBackendMemory
	undos []undo
}

func (tx *storeBackendMemoryTx) Get(key []byte) ([]byte, error) {
	item := tx.st.keys.Get(&memItem{key: key})
	if item == nil {
		return nil, backend.ErrNotExistKey
	}
	return append([]byte{}, item.(*memItem).value...), nil
}

func (tx *storeBackendMemoryTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	var inErr error
	tx.st.keys.AscendGreaterOrEqual(&memItem{key: prefix}, func(item btree.Item) bool {
		it := item.(*memItem)
		if !bytes.HasPrefix(it.key, prefix) {
			return false
		}
		if err := fn(append([]byte{}, it.key...), append([]byte{}, it.value...)); err != nil {
			inErr = err
			return false
		}
		return true
	})
	return inErr
}

func (tx *storeBackendMemoryTx) Set(key []byte, value []byte) error {
	item := &memItem{
		key:   append([]byte{}, key...),
		value: append([]byte{}, value...),
	}
	prev := tx.st.keys.ReplaceOrInsert(item)
	tx.remember(item.key, prev)
	return nil
}

func (tx *storeBackendMemoryTx) Delete(key []byte) error {
	prev := tx.st.keys.Delete(&memItem{key: key})
	if prev != nil {
		tx.remember(append([]byte{}, key...), prev)
	}
	return nil
}

func (tx *storeBackendMemoryTx) remember(key []byte, prev btree.Item) {
	u := undo{key: key}
	if prev != nil {
		u.prev = prev.(*memItem)
	}
	tx.undos = append(tx.undos, u)
}

func (tx *storeBackendMemoryTx) rollback() {
	for i := len(tx.undos) - 1; i >= 0; i-- {
		u := tx.undos[i]
		if u.prev == nil {
			tx.st.keys.Delete(&memItem{key: u.key})
		} else {
			tx.st.keys.ReplaceOrInsert(u.prev)
		}
	}
	tx.undos = nil
}
