package backend

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

type StoreBackend interface {
	Shrink()
	Close()
	View(fn func(txn StoreReader) error) error
	Update(fn func(txn StoreWriter) error) error
}

type StoreReader interface {
	Get(key []byte) ([]byte, error)
	Iterate(prefix []byte, fn func(key []byte, value []byte) error) error
}

type StoreWriter interface {
	StoreReader
	Set(key []byte, value []byte) error
	Delete(key []byte) error
}

// CreateBackend opens a backend at the path, the meaning of the path is up to the driver
type CreateBackend func(Path string) (StoreBackend, error)

var (
	gDriverLock sync.Mutex
	gDriverMap  = map[string]CreateBackend{}
)

func RegisterDriver(Name string, fn CreateBackend) {
	gDriverLock.Lock()
	defer gDriverLock.Unlock()

	gDriverMap[Name] = fn
}

// Drivers returns the sorted names of the registered drivers
func Drivers() []string {
	gDriverLock.Lock()
	defer gDriverLock.Unlock()

	names := make([]string, 0, len(gDriverMap))
	for k := range gDriverMap {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func Create(Name string, Path string) (StoreBackend, error) {
	gDriverLock.Lock()
	fn, has := gDriverMap[Name]
	gDriverLock.Unlock()
	if !has {
		return nil, errors.Wrapf(ErrNotExistDriver, "%s (registered: %v)", Name, Drivers())
	}
	return fn(Path)
}

// PrefixEnd returns the smallest key greater than every key with the prefix, nil when there is none
func PrefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
