package accessor

import (
	"context"
	"sync"
	"time"

	"github.com/bluele/gcache"

	"github.com/meverselabs/metamart/common/rlog"
)

// Result is the outcome of the last completed read
type Result struct {
	Data    []interface{}
	Err     error
	Version uint64
	At      time.Time
}

// CompleteListener is notified after every completed read
type CompleteListener func(res Result)

// ReadQuery is the reactive read of one contract function
type ReadQuery struct {
	sync.Mutex
	reader    *Reader
	contract  string
	fn        string
	cache     gcache.Cache
	fetchLock sync.Mutex
	result    Result
	listeners []CompleteListener
	cancel    context.CancelFunc
	closed    bool
}

// NewReadQuery returns the query of the contract function, a zero ttl disables caching
func NewReadQuery(reader *Reader, contract string, fn string, ttl time.Duration) *ReadQuery {
	q := &ReadQuery{
		reader:   reader,
		contract: contract,
		fn:       fn,
	}
	if ttl > 0 {
		q.cache = gcache.New(16).LRU().Expiration(ttl).Build()
	}
	return q
}

func (q *ReadQuery) key() string {
	return q.contract + "." + q.fn
}

// OnComplete registers the listener of completed reads
func (q *ReadQuery) OnComplete(fn CompleteListener) {
	q.Lock()
	defer q.Unlock()

	q.listeners = append(q.listeners, fn)
}

// Result returns the last completed read
func (q *ReadQuery) Result() Result {
	q.Lock()
	defer q.Unlock()

	return q.result
}

// Fetch returns the cached outputs or reads them from the contract
func (q *ReadQuery) Fetch(ctx context.Context) Result {
	q.fetchLock.Lock()
	defer q.fetchLock.Unlock()

	if q.cache != nil {
		if _, err := q.cache.Get(q.key()); err == nil {
			return q.Result()
		}
	}
	return q.read(ctx)
}

// Refetch drops the cached outputs and reads again
func (q *ReadQuery) Refetch(ctx context.Context) Result {
	q.fetchLock.Lock()
	defer q.fetchLock.Unlock()

	if q.cache != nil {
		q.cache.Remove(q.key())
	}
	return q.read(ctx)
}

func (q *ReadQuery) read(ctx context.Context) Result {
	q.Lock()
	if q.closed {
		res := q.result
		q.Unlock()
		res.Err = ErrQueryClosed
		return res
	}
	q.Unlock()

	start := time.Now()
	out, err := q.reader.Call(ctx, q.contract, q.fn)
	if err != nil {
		rlog.Errorln("read", q.key(), err)
	} else {
		rlog.Debugln("read", q.key(), "outputs", len(out), "in", time.Since(start))
		if q.cache != nil {
			q.cache.Set(q.key(), struct{}{})
		}
	}

	q.Lock()
	q.result = Result{
		Data:    out,
		Err:     err,
		Version: q.result.Version + 1,
		At:      time.Now(),
	}
	res := q.result
	listeners := make([]CompleteListener, len(q.listeners))
	copy(listeners, q.listeners)
	q.Unlock()

	for _, fn := range listeners {
		fn(res)
	}
	return res
}

// Poll refetches on the interval until Close, a non-positive interval does nothing
func (q *ReadQuery) Poll(interval time.Duration) {
	if interval <= 0 {
		return
	}
	q.Lock()
	if q.closed || q.cancel != nil {
		q.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	q.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				q.Refetch(ctx)
			}
		}
	}()
}

// Close stops the poller, later reads fail with ErrQueryClosed
func (q *ReadQuery) Close() {
	q.Lock()
	defer q.Unlock()

	q.closed = true
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}
