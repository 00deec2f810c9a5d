package page_test

import (
	"context"
	"sync"
	"testing"

	ecommon "github.com/ethereum/go-ethereum/common"

	"github.com/meverselabs/metamart/contract/mynft"
	"github.com/meverselabs/metamart/core/accessor"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Page Suite")
}

const (
	ownerA = "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063"
	ownerB = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
)

type writeCall struct {
	contract string
	fn       string
	args     []string
}

type fakeWriter struct {
	sync.Mutex
	calls []writeCall
	tx    string
	err   error
}

func (w *fakeWriter) Write(ctx context.Context, contract string, fn string, args []string) (string, error) {
	w.Lock()
	defer w.Unlock()

	w.calls = append(w.calls, writeCall{contract: contract, fn: fn, args: append([]string{}, args...)})
	if w.err != nil {
		return "", w.err
	}
	return w.tx, nil
}

func (w *fakeWriter) Calls() []writeCall {
	w.Lock()
	defer w.Unlock()

	return append([]writeCall{}, w.calls...)
}

// fakeQuery serves a settable outcome and notifies listeners on every read
type fakeQuery struct {
	sync.Mutex
	data      []interface{}
	err       error
	version   uint64
	reads     int
	listeners []accessor.CompleteListener
}

func (q *fakeQuery) Set(tokens []mynft.TokenRecord, err error) {
	q.Lock()
	defer q.Unlock()

	q.err = err
	q.data = nil
	if err == nil {
		q.data = unpackedTokens(tokens)
	}
}

func (q *fakeQuery) Reads() int {
	q.Lock()
	defer q.Unlock()

	return q.reads
}

func (q *fakeQuery) read() accessor.Result {
	q.Lock()
	q.reads++
	q.version++
	res := accessor.Result{Data: q.data, Err: q.err, Version: q.version}
	listeners := append([]accessor.CompleteListener{}, q.listeners...)
	q.Unlock()

	for _, fn := range listeners {
		fn(res)
	}
	return res
}

func (q *fakeQuery) Fetch(ctx context.Context) accessor.Result {
	return q.read()
}

func (q *fakeQuery) Refetch(ctx context.Context) accessor.Result {
	return q.read()
}

func (q *fakeQuery) OnComplete(fn accessor.CompleteListener) {
	q.Lock()
	defer q.Unlock()

	q.listeners = append(q.listeners, fn)
}

type tokenTuple struct {
	Name        string
	Description string
	ImageUrl    string
	Owner       ecommon.Address
}

// unpackedTokens returns the tokens the way the abi decoder hands them over
func unpackedTokens(tokens []mynft.TokenRecord) []interface{} {
	parsed, err := mynft.ABI()
	Expect(err).NotTo(HaveOccurred())
	list := make([]tokenTuple, 0, len(tokens))
	for _, t := range tokens {
		list = append(list, tokenTuple{
			Name:        t.Name,
			Description: t.Description,
			ImageUrl:    t.ImageURL,
			Owner:       ecommon.HexToAddress(t.Owner),
		})
	}
	outputs := parsed.Methods[mynft.MethodGetAllTokens].Outputs
	data, err := outputs.Pack(list)
	Expect(err).NotTo(HaveOccurred())
	out, err := outputs.Unpack(data)
	Expect(err).NotTo(HaveOccurred())
	return out
}

func sampleTokens() []mynft.TokenRecord {
	return []mynft.TokenRecord{
		{Name: "Card", Description: "desc", ImageURL: "http://img/x.png", Owner: ownerA},
		{Name: "Broken", Description: "no image", ImageURL: "not a url", Owner: ownerB},
		{Name: "Third", Description: "", ImageURL: "https://example.com/3.png", Owner: ownerA},
	}
}

func resultOf(data []interface{}, err error) accessor.Result {
	return accessor.Result{Data: data, Err: err, Version: 1}
}
