package accessor

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/pkg/errors"

	"github.com/meverselabs/metamart/common/debug"
	"github.com/meverselabs/metamart/extern/txparser"
)

// Reader calls view functions of registered contracts
type Reader struct {
	registry *Registry
	caller   bind.ContractCaller
}

func NewReader(registry *Registry, caller bind.ContractCaller) *Reader {
	return &Reader{
		registry: registry,
		caller:   caller,
	}
}

// Call invokes the read function and returns the unpacked outputs
func (r *Reader) Call(ctx context.Context, contract string, fn string, params ...interface{}) ([]interface{}, error) {
	c, err := r.registry.Contract(contract)
	if err != nil {
		return nil, err
	}
	m, err := c.Method(fn)
	if err != nil {
		return nil, err
	}
	if !m.IsConstant() {
		return nil, errors.Wrapf(ErrNotReadMethod, "%s.%s", contract, fn)
	}

	defer debug.Start("read " + contract + "." + fn).Stop()

	bound := bind.NewBoundContract(c.Address, c.ABI, r.caller, nil, nil)
	var out []interface{}
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, fn, params...); err != nil {
		return nil, errors.Wrapf(err, "call %s.%s", contract, fn)
	}
	return out, nil
}

// CallStrings coerces the string arguments to the inputs of the read function and calls it
func (r *Reader) CallStrings(ctx context.Context, contract string, fn string, args []string) ([]interface{}, error) {
	c, err := r.registry.Contract(contract)
	if err != nil {
		return nil, err
	}
	m, err := c.Method(fn)
	if err != nil {
		return nil, err
	}
	params, err := txparser.ParseArgs(m, args)
	if err != nil {
		return nil, errors.Wrapf(err, "%s.%s", contract, fn)
	}
	return r.Call(ctx, contract, fn, params...)
}
