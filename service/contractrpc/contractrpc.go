// Package contractrpc exposes every registered contract over the "contract" jrpc sub.
package contractrpc

import (
	"context"
	"time"

	"github.com/meverselabs/metamart/common/rlog"
	"github.com/meverselabs/metamart/core/accessor"
	"github.com/meverselabs/metamart/core/journal"
	"github.com/meverselabs/metamart/extern/txparser"
	"github.com/meverselabs/metamart/service/apiserver"
)

// Caller reads a function with string arguments
type Caller interface {
	CallStrings(ctx context.Context, contract string, fn string, args []string) ([]interface{}, error)
}

// Writer sends a function with string arguments
type Writer interface {
	Write(ctx context.Context, contract string, fn string, args []string) (string, error)
}

// ContractRPC serves contract.contracts, contract.call and contract.send
type ContractRPC struct {
	registry *accessor.Registry
	caller   Caller
	writer   Writer
	journal  *journal.Journal
}

type sendResult struct {
	TxHash string `json:"txHash"`
}

// New registers the contract sub on the api server, the journal may be nil
func New(api *apiserver.APIServer, registry *accessor.Registry, caller Caller, writer Writer, j *journal.Journal) (*ContractRPC, error) {
	cr := &ContractRPC{
		registry: registry,
		caller:   caller,
		writer:   writer,
		journal:  j,
	}
	s, err := api.JRPC("contract")
	if err != nil {
		return nil, err
	}
	s.Set("contracts", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		return cr.registry.Names(), nil
	})
	s.Set("call", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		contract, fn, args, err := target(arg)
		if err != nil {
			return nil, err
		}
		return cr.caller.CallStrings(context.Background(), contract, fn, args)
	})
	s.Set("send", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		contract, fn, args, err := target(arg)
		if err != nil {
			return nil, err
		}
		tx, err := cr.Send(context.Background(), contract, fn, args)
		if err != nil {
			return nil, err
		}
		return &sendResult{TxHash: tx}, nil
	})
	return cr, nil
}

// target reads [contract, function, args...] where args may also be one array
func target(arg *apiserver.Argument) (string, string, []string, error) {
	contract, err := arg.String(0)
	if err != nil {
		return "", "", nil, err
	}
	fn, err := arg.String(1)
	if err != nil {
		return "", "", nil, err
	}
	args, err := arg.Strings(2)
	if err != nil {
		return "", "", nil, err
	}
	return contract, fn, args, nil
}

// Send writes the function and journals the outcome
func (cr *ContractRPC) Send(ctx context.Context, contract string, fn string, args []string) (string, error) {
	start := time.Now()
	tx, err := cr.writer.Write(ctx, contract, fn, args)
	end := time.Now()
	if err != nil {
		rlog.Errorln("Transaction failed:", contract, fn, err)
	} else {
		rlog.Println("Transaction successful:", contract, fn, tx)
	}

	if cr.journal != nil {
		rec := &journal.Record{
			Contract: contract,
			Function: fn,
			Selector: cr.selector(contract, fn),
			Args:     args,
			TxHash:   tx,
			Start:    uint64(start.UnixNano()),
			End:      uint64(end.UnixNano()),
		}
		if err != nil {
			rec.Error = err.Error()
		}
		if jerr := cr.journal.Append(rec); jerr != nil {
			rlog.Errorln("journal", jerr)
		}
	}
	return tx, err
}

func (cr *ContractRPC) selector(contract string, fn string) string {
	c, err := cr.registry.Contract(contract)
	if err != nil {
		return ""
	}
	m, err := c.Method(fn)
	if err != nil {
		return ""
	}
	return "0x" + txparser.FuncSignature(m.Sig)
}
