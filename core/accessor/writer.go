package accessor

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/meverselabs/metamart/common/debug"
	"github.com/meverselabs/metamart/common/rlog"
	"github.com/meverselabs/metamart/extern/txparser"
)

// Backend sends transactions and reports their receipts
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Writer signs and sends state-changing calls of registered contracts
type Writer struct {
	registry  *Registry
	backend   Backend
	key       *ecdsa.PrivateKey
	chainID   *big.Int
	gasLimit  uint64
	waitMined bool
}

// NewWriter returns a writer signing with the key, a nil key makes every write fail with ErrNoSigner
func NewWriter(registry *Registry, backend Backend, key *ecdsa.PrivateKey, chainID *big.Int) *Writer {
	return &Writer{
		registry: registry,
		backend:  backend,
		key:      key,
		chainID:  chainID,
	}
}

// SetGasLimit fixes the gas limit, zero estimates it per transaction
func (w *Writer) SetGasLimit(limit uint64) {
	w.gasLimit = limit
}

// SetWaitMined makes Write wait for the receipt of the transaction
func (w *Writer) SetWaitMined(wait bool) {
	w.waitMined = wait
}

// From returns the address of the signer
func (w *Writer) From() (ecommon.Address, error) {
	if w.key == nil {
		return ecommon.Address{}, errors.WithStack(ErrNoSigner)
	}
	return crypto.PubkeyToAddress(w.key.PublicKey), nil
}

// Write coerces the string arguments to the inputs of the function, sends the transaction and returns its hash
func (w *Writer) Write(ctx context.Context, contract string, fn string, args []string) (string, error) {
	if w.key == nil {
		return "", errors.WithStack(ErrNoSigner)
	}
	c, err := w.registry.Contract(contract)
	if err != nil {
		return "", err
	}
	m, err := c.Method(fn)
	if err != nil {
		return "", err
	}
	params, err := txparser.ParseArgs(m, args)
	if err != nil {
		return "", errors.Wrapf(err, "%s.%s", contract, fn)
	}
	defer debug.Start("write " + contract + "." + fn).Stop()

	opts, err := bind.NewKeyedTransactorWithChainID(w.key, w.chainID)
	if err != nil {
		return "", errors.WithStack(err)
	}
	opts.Context = ctx
	opts.GasLimit = w.gasLimit

	start := time.Now()
	bound := bind.NewBoundContract(c.Address, c.ABI, w.backend, w.backend, w.backend)
	tx, err := bound.Transact(opts, fn, params...)
	if err != nil {
		return "", errors.Wrapf(err, "transact %s.%s", contract, fn)
	}
	rlog.Println("sent", contract+"."+fn, tx.Hash().Hex(), "in", time.Since(start))

	if w.waitMined {
		receipt, err := bind.WaitMined(ctx, w.backend, tx)
		if err != nil {
			return tx.Hash().Hex(), errors.WithStack(err)
		}
		if receipt.Status != types.ReceiptStatusSuccessful {
			return tx.Hash().Hex(), errors.Wrap(ErrTxReverted, tx.Hash().Hex())
		}
		rlog.Println("mined", tx.Hash().Hex(), "block", receipt.BlockNumber)
	}
	return tx.Hash().Hex(), nil
}
