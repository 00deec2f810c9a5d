package bolt_driver

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/meverselabs/metamart/common/rlog"
	"github.com/meverselabs/metamart/core/backend"
)

func init() {
	backend.RegisterDriver("bolt", NewStoreBackendBolt)
}

var bucketName = []byte{0}

type StoreBackendBolt struct {
	db *bolt.DB
}

// NewStoreBackendBolt opens the bolt file of the path
func NewStoreBackendBolt(path string) (backend.StoreBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, errors.WithStack(err)
	}

	start := time.Now()
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := db.Update(func(txn *bolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, errors.WithStack(err)
	}
	rlog.Println("Bolt is opened in", time.Since(start))
	back := &StoreBackendBolt{
		db: db,
	}
	return back, nil
}

func (st *StoreBackendBolt) Shrink() {
}

func (st *StoreBackendBolt) Close() {
	start := time.Now()
	st.db.Close()
	rlog.Println("Bolt is closed in", time.Since(start))
}

func (st *StoreBackendBolt) View(fn func(txn backend.StoreReader) error) error {
	return st.db.View(func(txn *bolt.Tx) error {
		return fn(&storeBackendBoltTx{bucket: txn.Bucket(bucketName)})
	})
}

func (st *StoreBackendBolt) Update(fn func(txn backend.StoreWriter) error) error {
	return st.db.Update(func(txn *bolt.Tx) error {
		return fn(&storeBackendBoltTx{bucket: txn.Bucket(bucketName)})
	})
}

type storeBackendBoltTx struct {
	bucket *bolt.Bucket
}

func (r *storeBackendBoltTx) Get(key []byte) ([]byte, error) {
	value := r.bucket.Get(key)
	if value == nil {
		return nil, backend.ErrNotExistKey
	}
	// bolt values are only valid for the life of the transaction
	return append([]byte{}, value...), nil
}

func (r *storeBackendBoltTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	c := r.bucket.Cursor()
	if len(prefix) > 0 {
		for key, value := c.Seek(prefix); key != nil && bytes.HasPrefix(key, prefix); key, value = c.Next() {
			if err := fn(key, value); err != nil {
				return err
			}
		}
	} else {
		for key, value := c.First(); key != nil; key, value = c.Next() {
			if err := fn(key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *storeBackendBoltTx) Set(key []byte, value []byte) error {
	return errors.WithStack(r.bucket.Put(key, value))
}

func (r *storeBackendBoltTx) Delete(key []byte) error {
	return errors.WithStack(r.bucket.Delete(key))
}
