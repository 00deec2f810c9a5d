package accessor

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeChain answers contract calls from canned outputs and records sent transactions
type fakeChain struct {
	sync.Mutex
	output   []byte
	callErr  error
	calls    int
	sent     []*types.Transaction
	sendErr  error
	receipts map[ecommon.Hash]*types.Receipt
	status   uint64
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		receipts: map[ecommon.Hash]*types.Receipt{},
		status:   types.ReceiptStatusSuccessful,
	}
}

func (f *fakeChain) setOutput(output []byte, err error) {
	f.Lock()
	defer f.Unlock()
	f.output = output
	f.callErr = err
}

func (f *fakeChain) callCount() int {
	f.Lock()
	defer f.Unlock()
	return f.calls
}

func (f *fakeChain) CodeAt(ctx context.Context, contract ecommon.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeChain) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.Lock()
	defer f.Unlock()
	f.calls++
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.output, nil
}

func (f *fakeChain) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (f *fakeChain) PendingCodeAt(ctx context.Context, account ecommon.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeChain) PendingNonceAt(ctx context.Context, account ecommon.Address) (uint64, error) {
	f.Lock()
	defer f.Unlock()
	return uint64(len(f.sent)), nil
}

func (f *fakeChain) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1000000000), nil
}

func (f *fakeChain) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1000000000), nil
}

func (f *fakeChain) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 300000, nil
}

func (f *fakeChain) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.Lock()
	defer f.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	f.receipts[tx.Hash()] = &types.Receipt{
		Status:      f.status,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(2),
	}
	return nil
}

func (f *fakeChain) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (f *fakeChain) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("subscriptions are not supported")
}

func (f *fakeChain) TransactionReceipt(ctx context.Context, txHash ecommon.Hash) (*types.Receipt, error) {
	f.Lock()
	defer f.Unlock()
	receipt, has := f.receipts[txHash]
	if !has {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}
