package mysql_driver

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/meverselabs/metamart/common/rlog"
	"github.com/meverselabs/metamart/core/backend"
)

func init() {
	backend.RegisterDriver("mysql", NewStoreBackendMySQL)
}

const createTable = `CREATE TABLE IF NOT EXISTS kv_store (
	k VARBINARY(255) NOT NULL PRIMARY KEY,
	v LONGBLOB NOT NULL
)`

type StoreBackendMySQL struct {
	db *sql.DB
}

// NewStoreBackendMySQL treats the path as a DSN (user:pass@tcp(host:3306)/dbname)
func NewStoreBackendMySQL(path string) (backend.StoreBackend, error) {
	start := time.Now()
	db, err := sql.Open("mysql", path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.WithStack(err)
	}
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, errors.WithStack(err)
	}
	rlog.Println("MySQL is opened in", time.Since(start))
	return &StoreBackendMySQL{db: db}, nil
}

func (st *StoreBackendMySQL) Shrink() {
	if _, err := st.db.Exec("OPTIMIZE TABLE kv_store"); err != nil {
		rlog.Errorln("MySQL optimize", err)
	}
}

func (st *StoreBackendMySQL) Close() {
	st.db.Close()
	rlog.Println("MySQL is closed")
}

func (st *StoreBackendMySQL) View(fn func(txn backend.StoreReader) error) error {
	txn, err := st.db.BeginTx(context.Background(), &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return errors.WithStack(err)
	}
	defer txn.Rollback()
	return fn(&storeBackendMySQLTx{txn: txn})
}

func (st *StoreBackendMySQL) Update(fn func(txn backend.StoreWriter) error) error {
	txn, err := st.db.Begin()
	if err != nil {
		return errors.WithStack(err)
	}
	if err := fn(&storeBackendMySQLTx{txn: txn}); err != nil {
		txn.Rollback()
		return err
	}
	return errors.WithStack(txn.Commit())
}

type storeBackendMySQLTx struct {
	txn *sql.Tx
}

func (r *storeBackendMySQLTx) Get(key []byte) ([]byte, error) {
	var value []byte
	err := r.txn.QueryRow("SELECT v FROM kv_store WHERE k = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, backend.ErrNotExistKey
	} else if err != nil {
		return nil, errors.WithStack(err)
	}
	return value, nil
}

func (r *storeBackendMySQLTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	var rows *sql.Rows
	var err error
	end := backend.PrefixEnd(prefix)
	switch {
	case len(prefix) == 0:
		rows, err = r.txn.Query("SELECT k, v FROM kv_store ORDER BY k")
	case end == nil:
		rows, err = r.txn.Query("SELECT k, v FROM kv_store WHERE k >= ? ORDER BY k", prefix)
	default:
		rows, err = r.txn.Query("SELECT k, v FROM kv_store WHERE k >= ? AND k < ? ORDER BY k", prefix, end)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	type kv struct {
		key   []byte
		value []byte
	}
	// rows are drained first so fn may issue its own statements on the transaction
	var list []kv
	for rows.Next() {
		var item kv
		if err := rows.Scan(&item.key, &item.value); err != nil {
			rows.Close()
			return errors.WithStack(err)
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return errors.WithStack(err)
	}
	rows.Close()

	for _, item := range list {
		if err := fn(item.key, item.value); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeBackendMySQLTx) Set(key []byte, value []byte) error {
	_, err := r.txn.Exec("INSERT INTO kv_store (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)", key, value)
	return errors.WithStack(err)
}

func (r *storeBackendMySQLTx) Delete(key []byte) error {
	_, err := r.txn.Exec("DELETE FROM kv_store WHERE k = ?", key)
	return errors.WithStack(err)
}
