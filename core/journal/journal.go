package journal

import (
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/meverselabs/metamart/common/bin"
	"github.com/meverselabs/metamart/core/backend"
)

var tagMint = []byte("mint:")

var errStopIterate = errors.New("stop iterate")

// Journal persists write submissions, keys are ordered newest first
type Journal struct {
	sync.Mutex
	store backend.StoreBackend
	seq   uint32
	now   func() time.Time
}

// New returns a journal over the store
func New(store backend.StoreBackend) *Journal {
	return &Journal{
		store: store,
		now:   time.Now,
	}
}

// Open creates the backend of the driver and returns a journal over it
func Open(driver string, path string) (*Journal, error) {
	store, err := backend.Create(driver, path)
	if err != nil {
		return nil, err
	}
	return New(store), nil
}

func toMintKey(ts uint64, seq uint32) []byte {
	key := make([]byte, 0, len(tagMint)+12)
	key = append(key, tagMint...)
	key = append(key, bin.Uint64Bytes(math.MaxUint64-ts)...)
	key = append(key, bin.Uint32Bytes(math.MaxUint32-seq)...)
	return key
}

// Append stores the record, zero start and end are set to the current time
func (j *Journal) Append(r *Record) error {
	j.Lock()
	defer j.Unlock()

	if r.Start == 0 {
		r.Start = uint64(j.now().UnixNano())
	}
	if r.End == 0 {
		r.End = r.Start
	}
	j.seq++
	data, _, err := bin.WriterToBytes(r)
	if err != nil {
		return err
	}
	key := toMintKey(r.Start, j.seq)
	return j.store.Update(func(txn backend.StoreWriter) error {
		return txn.Set(key, data)
	})
}

// List returns up to limit records, newest first, limit <= 0 returns all
func (j *Journal) List(limit int) ([]*Record, error) {
	list := []*Record{}
	err := j.store.View(func(txn backend.StoreReader) error {
		return txn.Iterate(tagMint, func(key []byte, value []byte) error {
			r := &Record{}
			if _, err := bin.ReadFromBytes(r, value); err != nil {
				return errors.Wrapf(err, "mint record %x", key)
			}
			list = append(list, r)
			if limit > 0 && len(list) >= limit {
				return errStopIterate
			}
			return nil
		})
	})
	if err != nil && err != errStopIterate {
		return nil, err
	}
	return list, nil
}

// Close closes the underlying store
func (j *Journal) Close() {
	j.store.Close()
}
